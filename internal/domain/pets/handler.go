package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"petworld/internal/domain/vitality"
	"petworld/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const (
	defaultInteractionLimit = 50
	maxInteractionLimit     = 200
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		// Lectura abierta: cualquiera puede ver el estado reconciliado.
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Get("/{petID}/stats", petStatsHandler(svc))
		pr.Get("/{petID}/interactions", listInteractionsHandler(svc))

		// Mutaciones: solo el dueño.
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
		pr.Post("/{petID}/interactions", interactHandler(svc))

		// Atajos: un endpoint por tipo de interacción
		pr.Post("/{petID}/feed", interactShortcutHandler(svc, vitality.KindFeed))
		pr.Post("/{petID}/play", interactShortcutHandler(svc, vitality.KindPlay))
		pr.Post("/{petID}/heal", interactShortcutHandler(svc, vitality.KindHeal))
		pr.Post("/{petID}/pet", interactShortcutHandler(svc, vitality.KindPet))
	})
}

type createPetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	ImageURL    string `json:"image_url"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	ImageURL    *string `json:"image_url"`
}

type interactRequest struct {
	Kind string `json:"kind" example:"FEED"`
}

type vitalsResponse struct {
	Hunger    int `json:"hunger"`
	Happiness int `json:"happiness"`
	Health    int `json:"health"`
	Energy    int `json:"energy"`
}

type petResponse struct {
	ID                string         `json:"id"`
	OwnerUserID       string         `json:"owner_user_id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Type              string         `json:"type"`
	ImageURL          string         `json:"image_url,omitempty"`
	Vitals            vitalsResponse `json:"vitals"`
	LastInteractionAt time.Time      `json:"last_interaction_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type interactionResponse struct {
	ID          string        `json:"id"`
	PetID       string        `json:"pet_id"`
	Kind        vitality.Kind `json:"kind"`
	Magnitude   int           `json:"magnitude"`
	Description string        `json:"description"`
	OccurredAt  time.Time     `json:"occurred_at"`
	ActorUserID string        `json:"actor_user_id"`
}

type interactResponse struct {
	Pet         petResponse         `json:"pet"`
	Interaction interactionResponse `json:"interaction"`
}

type statsResponse struct {
	PetID              string                `json:"pet_id"`
	Vitals             vitalsResponse        `json:"vitals"`
	TotalInteractions  int                   `json:"total_interactions"`
	ByKind             map[vitality.Kind]int `json:"by_kind"`
	MagnitudeByKind    map[vitality.Kind]int `json:"magnitude_by_kind"`
	FirstInteractionAt *time.Time            `json:"first_interaction_at,omitempty"`
	LastInteractionAt  *time.Time            `json:"last_interaction_at,omitempty"`
	MeanHoursBetween   float64               `json:"mean_hours_between"`
	StdDevHoursBetween float64               `json:"stddev_hours_between"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea una mascota con todos los escalares en 100. El dueño es el usuario autenticado.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Perfil de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "owner not found"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Tags pets
// @Produce json
// @Param type query string false "Filtrar por tipo"
// @Param owner_user_id query string false "Filtrar por dueño"
// @Success 200 {array} petResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Type:        q.Get("type"),
			OwnerUserID: q.Get("owner_user_id"),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Description Devuelve el snapshot con el decay pendiente ya aplicado.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Editar perfil de mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "concurrent modification"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePetRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "petID"), claims.UserID, UpdateProfileInput{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra la mascota y todo su historial. Solo el dueño.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), claims.UserID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// interactHandler godoc
// @Summary Interactuar con la mascota
// @Description Reconcilia el decay pendiente, aplica el efecto del kind y registra la interacción.
// @Tags interactions
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body interactRequest true "FEED | PLAY | HEAL | PET | OTHER"
// @Success 200 {object} interactResponse
// @Failure 400 {string} string "invalid json / unknown interaction kind"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "concurrent modification"
// @Router /pets/{petID}/interactions [post]
func interactHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req interactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		kind, err := vitality.ParseKind(req.Kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		interact(w, r, svc, actorID, kind)
	}
}

// interactShortcutHandler godoc
// @Summary Atajos de interacción
// @Tags interactions
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} interactResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/feed [post]
// @Router /pets/{petID}/play [post]
// @Router /pets/{petID}/heal [post]
// @Router /pets/{petID}/pet [post]
func interactShortcutHandler(svc *Service, kind vitality.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		interact(w, r, svc, actorID, kind)
	}
}

// actorFrom devuelve el usuario autenticado; sin claims el caller es anónimo.
func actorFrom(r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", false
	}
	return claims.UserID, true
}

func interact(w http.ResponseWriter, r *http.Request, svc *Service, actorID string, kind vitality.Kind) {
	out, err := svc.Interact(r.Context(), chi.URLParam(r, "petID"), actorID, kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interactResponse{
		Pet:         toPetResponse(out.Pet),
		Interaction: toInteractionResponse(out.Interaction),
	})
}

// listInteractionsHandler godoc
// @Summary Historial de interacciones
// @Description Orden cronológico. limit por defecto 50, máximo 200.
// @Tags interactions
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param kind query string false "FEED | PLAY | HEAL | PET | OTHER"
// @Param limit query int false "Máximo de registros"
// @Success 200 {array} interactionResponse
// @Failure 400 {string} string "invalid kind / invalid limit"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/interactions [get]
func listInteractionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := InteractionFilter{Limit: defaultInteractionLimit}
		if raw := strings.TrimSpace(q.Get("kind")); raw != "" {
			k, err := vitality.ParseKind(raw)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			filter.Kind = k
		}
		if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			filter.Limit = min(n, maxInteractionLimit)
		}

		items, err := svc.ListInteractions(r.Context(), chi.URLParam(r, "petID"), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]interactionResponse, 0, len(items))
		for _, in := range items {
			out = append(out, toInteractionResponse(in))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// petStatsHandler godoc
// @Summary Estadísticas de la mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} statsResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/stats [get]
func petStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			PetID:              st.PetID,
			Vitals:             toVitalsResponse(st.Vitals),
			TotalInteractions:  st.TotalInteractions,
			ByKind:             st.ByKind,
			MagnitudeByKind:    st.MagnitudeByKind,
			FirstInteractionAt: st.FirstInteractionAt,
			LastInteractionAt:  st.LastInteractionAt,
			MeanHoursBetween:   st.MeanHoursBetween,
			StdDevHoursBetween: st.StdDevHoursBetween,
		})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrOwnerNotFound):
		http.Error(w, "owner not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrConflict):
		http.Error(w, "concurrent modification", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toVitalsResponse(v vitality.Vitals) vitalsResponse {
	return vitalsResponse{
		Hunger:    v.Hunger,
		Happiness: v.Happiness,
		Health:    v.Health,
		Energy:    v.Energy,
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:                p.ID,
		OwnerUserID:       p.OwnerUserID,
		Name:              p.Name,
		Description:       p.Description,
		Type:              p.Type,
		ImageURL:          p.ImageURL,
		Vitals:            toVitalsResponse(p.Vitals),
		LastInteractionAt: p.LastInteractionAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toInteractionResponse(in Interaction) interactionResponse {
	return interactionResponse{
		ID:          in.ID,
		PetID:       in.PetID,
		Kind:        in.Kind,
		Magnitude:   in.Magnitude,
		Description: in.Description,
		OccurredAt:  in.OccurredAt,
		ActorUserID: in.ActorUserID,
	}
}

// writeJSON está duplicado intencionalmente en cada módulo (users/pets);
// si se repite en más lugares conviene extraerlo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
