package relationships

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"profile-visibility/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes expone el write-surface del feature de relaciones.
// El engine en sí solo lee el índice.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/me/favorites/{username}", relationHandler(svc.Favorite))
	r.Delete("/me/favorites/{username}", relationHandler(svc.Unfavorite))
	r.Post("/me/shortlist/{username}", relationHandler(svc.Shortlist))
	r.Delete("/me/shortlist/{username}", relationHandler(svc.Unshortlist))
}

func relationHandler(op func(ctx context.Context, viewer, owner string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := chi.URLParam(r, "username")

		if err := op(r.Context(), claims.Username, owner); err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrStorageUnavailable):
				http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
