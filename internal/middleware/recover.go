package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"petworld/internal/platform/logger"
)

// Recover reemplaza a chimw.Recoverer: mismo 500, pero el pánico queda en el
// logger estructurado del request en vez de stderr.
func Recover(fallback logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.FromContext(r.Context(), fallback).Error("panic recovered", map[string]any{
					"panic": fmt.Sprint(rec),
					"stack": string(debug.Stack()),
					"path":  r.URL.Path,
				})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
