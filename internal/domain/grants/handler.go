package grants

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
	r.Get("/me/grants", listGivenHandler(svc))
	r.Get("/me/grants/received", listReceivedHandler(svc))
	r.Get("/profiles/{username}/grants", listOwnerGrantsHandler(svc))
	r.Post("/grants/{grantID}/revoke", revokeHandler(svc))
}

type grantResponse struct {
	ID              string       `json:"id"`
	Owner           string       `json:"owner"`
	Grantee         string       `json:"grantee"`
	Resource        string       `json:"resource"`
	Rule            DurationRule `json:"rule"`
	ResponseMessage string       `json:"response_message,omitempty"`
	GrantedAt       time.Time    `json:"granted_at"`
	ExpiresAt       *time.Time   `json:"expires_at,omitempty"`
	Consumed        bool         `json:"consumed"`
	Revoked         bool         `json:"revoked"`
	Superseded      bool         `json:"superseded"`
}

func toGrantResponse(g Grant) grantResponse {
	return grantResponse{
		ID:              g.ID,
		Owner:           g.Owner,
		Grantee:         g.Grantee,
		Resource:        string(g.Resource),
		Rule:            g.Rule,
		ResponseMessage: g.ResponseMessage,
		GrantedAt:       g.GrantedAt,
		ExpiresAt:       g.ExpiresAt,
		Consumed:        g.Consumed,
		Revoked:         g.Revoked,
		Superseded:      g.Superseded,
	}
}

// listGivenHandler godoc
//
//	@Summary	Grants otorgados por el usuario autenticado
//	@Tags		grants
//	@Produce	json
//	@Success	200	{array}	grantResponse
//	@Router		/me/grants [get]
func listGivenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.Username)
		if err != nil {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listReceivedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByGrantee(r.Context(), claims.Username)
		if err != nil {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listOwnerGrantsHandler es la misma lista que /me/grants pero con el owner
// explícito en el path; solo el propio owner puede consultarla.
func listOwnerGrantsHandler(svc *Service) http.HandlerFunc {
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

		items, err := svc.ListByOwner(r.Context(), owner)
		if err != nil {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// revokeHandler godoc
//
//	@Summary	Revoca un grant vigente
//	@Tags		grants
//	@Produce	json
//	@Param		grantID	path		string	true	"ID del grant"
//	@Success	200		{object}	grantResponse
//	@Failure	403		{string}	string
//	@Failure	404		{string}	string
//	@Router		/grants/{grantID}/revoke [post]
func revokeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		grantID := chi.URLParam(r, "grantID")

		g, err := svc.Revoke(r.Context(), claims.Username, grantID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, ErrNotOwner):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrStorageUnavailable):
				http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
