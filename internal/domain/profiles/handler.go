package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"profile-visibility/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/profiles", createProfileHandler(svc))
	r.Get("/profiles/{username}", getProfileHandler(svc))
	r.Post("/profiles/{username}/photos", addPhotoHandler(svc))
	r.Get("/profiles/{username}/photos", listPhotosHandler(svc))
	r.Put("/profiles/{username}/photos/order", reorderPhotosHandler(svc))
}

type createProfileRequest struct {
	Username      string     `json:"username"`
	DisplayName   string     `json:"display_name"`
	ContactEmail  string     `json:"contact_email"`
	ContactNumber string     `json:"contact_number"`
	Location      string     `json:"location"`
	Workplace     string     `json:"workplace"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	LinkedInURL   string     `json:"linkedin_url"`
}

type profileResponse struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type photoResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
	IsPrimary bool   `json:"is_primary"`
}

func createProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Username:      req.Username,
			DisplayName:   req.DisplayName,
			ContactEmail:  req.ContactEmail,
			ContactNumber: req.ContactNumber,
			Location:      req.Location,
			Workplace:     req.Workplace,
			DateOfBirth:   req.DateOfBirth,
			LinkedInURL:   req.LinkedInURL,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrAlreadyExists):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrStorageUnavailable):
				http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, profileResponse{
			Username:    p.Username,
			DisplayName: p.DisplayName,
			CreatedAt:   p.CreatedAt,
		})
	}
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		p, err := svc.Get(r.Context(), username)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, ErrStorageUnavailable):
				http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, profileResponse{
			Username:    p.Username,
			DisplayName: p.DisplayName,
			CreatedAt:   p.CreatedAt,
		})
	}
}

type addPhotoRequest struct {
	URL string `json:"url"`
}

func addPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := chi.URLParam(r, "username")
		if claims.Username != owner {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req addPhotoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ph, err := svc.AddPhoto(r.Context(), owner, req.URL)
		if err != nil {
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

		writeJSON(w, http.StatusCreated, photoResponse{
			ID:        ph.ID,
			URL:       ph.URL,
			Position:  ph.Position,
			IsPrimary: ph.IsPrimary,
		})
	}
}

func listPhotosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := chi.URLParam(r, "username")

		items, err := svc.ListPhotos(r.Context(), owner)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]photoResponse, 0, len(items))
		for _, ph := range items {
			out = append(out, photoResponse{
				ID:        ph.ID,
				URL:       ph.URL,
				Position:  ph.Position,
				IsPrimary: ph.IsPrimary,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type reorderRequest struct {
	PhotoIDs []string `json:"photo_ids"`
}

func reorderPhotosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := chi.URLParam(r, "username")
		if claims.Username != owner {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req reorderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.ReorderPhotos(r.Context(), owner, req.PhotoIDs); err != nil {
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

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
