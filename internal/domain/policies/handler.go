package policies

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"profile-visibility/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/profiles/{username}/policies", listPoliciesHandler(svc))
	r.Get("/profiles/{username}/policies/{resource}", getPolicyHandler(svc))
	r.Put("/profiles/{username}/policies/{resource}", setPolicyHandler(svc))
}

type policyEntry struct {
	Resource Resource `json:"resource"`
	Policy   Policy   `json:"policy"`
}

// listPoliciesHandler godoc
// @Summary Policies explícitas del owner
// @Tags policies
// @Produce json
// @Success 200 {array} policyEntry
// @Router /profiles/{username}/policies [get]
func listPoliciesHandler(svc *Service) http.HandlerFunc {
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
			writeServiceError(w, err)
			return
		}

		out := make([]policyEntry, 0, len(items))
		for res, p := range items {
			out = append(out, policyEntry{Resource: res, Policy: p})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPolicyHandler devuelve la policy vigente (explícita o default) de un
// recurso. Solo el owner: la configuración no se expone a terceros.
func getPolicyHandler(svc *Service) http.HandlerFunc {
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

		resource := Resource(chi.URLParam(r, "resource"))
		known, err := svc.Knows(r.Context(), owner, resource)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !known {
			http.Error(w, "unknown resource", http.StatusNotFound)
			return
		}

		p, err := svc.Get(r.Context(), owner, resource)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, policyEntry{Resource: resource, Policy: p})
	}
}

// setPolicyHandler godoc
// @Summary Setea la policy de visibilidad de un recurso (solo el owner)
// @Tags policies
// @Accept json
// @Produce json
// @Success 204
// @Router /profiles/{username}/policies/{resource} [put]
func setPolicyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		owner := chi.URLParam(r, "username")
		resource := Resource(chi.URLParam(r, "resource"))

		var p Policy
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.Set(r.Context(), claims.Username, owner, resource, p); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrUnknownResource):
		http.Error(w, "unknown resource", http.StatusNotFound)
	case errors.Is(err, ErrStorageUnavailable):
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
