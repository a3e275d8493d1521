package visibility

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/profiles/{username}/visibility", resolveProfileHandler(svc))
	r.Get("/profiles/{username}/visibility/{resource}", resolveHandler(svc))
	r.Get("/profiles/{username}/view", viewHandler(svc))
}

// resolveHandler godoc
//
//	@Summary	Verdict de visibilidad para un recurso
//	@Tags		visibility
//	@Produce	json
//	@Param		username	path		string	true	"Owner del recurso"
//	@Param		resource	path		string	true	"photo:<id> o pii:<categoría>"
//	@Success	200			{object}	Verdict
//	@Router		/profiles/{username}/visibility/{resource} [get]
func resolveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := chi.URLParam(r, "username")
		resource := policies.Resource(chi.URLParam(r, "resource"))

		v, err := svc.Resolve(r.Context(), claims.Username, owner, resource)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func resolveProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := chi.URLParam(r, "username")

		verdicts, err := svc.ResolveProfile(r.Context(), claims.Username, owner)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make(map[string]Verdict, len(verdicts))
		for res, v := range verdicts {
			out[string(res)] = v
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// viewHandler godoc
//
//	@Summary	Perfil proyectado según lo que el viewer puede ver
//	@Tags		visibility
//	@Produce	json
//	@Param		username	path		string	true	"Owner del perfil"
//	@Success	200			{object}	ProfileView
//	@Failure	404			{string}	string
//	@Router		/profiles/{username}/view [get]
func viewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := chi.URLParam(r, "username")

		view, err := svc.View(r.Context(), claims.Username, owner)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrStorageUnavailable):
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
