package requests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"profile-visibility/internal/domain/grants"
	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/access-requests", submitHandler(svc))
	r.Post("/access-requests/{requestID}/decision", decisionHandler(svc))
	r.Get("/me/requests/incoming", listHandler(svc.ListIncoming))
	r.Get("/me/requests/outgoing", listHandler(svc.ListOutgoing))
}

type submitRequest struct {
	Owner     string   `json:"owner"`
	Resources []string `json:"resources"`
	Message   string   `json:"message"`
}

type requestResponse struct {
	ID              string     `json:"id"`
	Requester       string     `json:"requester"`
	Owner           string     `json:"owner"`
	Resources       []string   `json:"resources"`
	Message         string     `json:"message,omitempty"`
	Status          string     `json:"status"`
	ResponseMessage string     `json:"response_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

func toRequestResponse(req AccessRequest) requestResponse {
	resources := make([]string, 0, len(req.Resources))
	for _, r := range req.Resources {
		resources = append(resources, string(r))
	}
	return requestResponse{
		ID:              req.ID,
		Requester:       req.Requester,
		Owner:           req.Owner,
		Resources:       resources,
		Message:         req.Message,
		Status:          string(req.Status),
		ResponseMessage: req.ResponseMessage,
		CreatedAt:       req.CreatedAt,
		DecidedAt:       req.DecidedAt,
	}
}

// submitHandler godoc
//
//	@Summary	Pide acceso a recursos de otro perfil
//	@Tags		requests
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	requestResponse
//	@Failure	409	{string}	string	"nada que pedir"
//	@Router		/access-requests [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body submitRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		resources := make([]policies.Resource, 0, len(body.Resources))
		for _, raw := range body.Resources {
			resources = append(resources, policies.Resource(raw))
		}

		req, err := svc.Submit(r.Context(), SubmitInput{
			Requester: claims.Username,
			Owner:     body.Owner,
			Resources: resources,
			Message:   body.Message,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRequestResponse(req))
	}
}

type decisionRequest struct {
	Decision string `json:"decision"`
	// rule aplica a todos los recursos; rules permite elegir una duración
	// distinta por recurso ("pii:photos": {"type": "permanent"}).
	Rule            *grants.DurationRule           `json:"rule,omitempty"`
	Rules           map[string]grants.DurationRule `json:"rules,omitempty"`
	ResponseMessage string                         `json:"response_message"`
}

func decisionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body decisionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Decision != "approve" && body.Decision != "reject" {
			http.Error(w, "decision must be approve or reject", http.StatusBadRequest)
			return
		}

		var rules map[policies.Resource]grants.DurationRule
		if len(body.Rules) > 0 {
			rules = make(map[policies.Resource]grants.DurationRule, len(body.Rules))
			for raw, rule := range body.Rules {
				rules[policies.Resource(raw)] = rule
			}
		}

		req, err := svc.Decide(r.Context(), DecisionInput{
			Caller:          claims.Username,
			RequestID:       chi.URLParam(r, "requestID"),
			Approve:         body.Decision == "approve",
			Rule:            body.Rule,
			Rules:           rules,
			ResponseMessage: body.ResponseMessage,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

func listHandler(list func(ctx context.Context, username string, status Status) ([]AccessRequest, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Username) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		status := Status(r.URL.Query().Get("status"))
		items, err := list(r.Context(), claims.Username, status)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toRequestResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnknownResource):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrAlreadyDecided), errors.Is(err, ErrNothingToRequest):
		http.Error(w, err.Error(), http.StatusConflict)
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
