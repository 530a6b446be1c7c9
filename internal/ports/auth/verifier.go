package auth

import "context"

// AuthVerifier valida un bearer token y devuelve el principal.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
