package requests

import (
	"time"

	"profile-visibility/internal/domain/policies"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

func (r AccessRequest) includes(res policies.Resource) bool {
	for _, have := range r.Resources {
		if have == res {
			return true
		}
	}
	return false
}

// AccessRequest es una petición de un requester para ver recursos de un
// owner. Puede agrupar varios recursos; la decisión es una sola, pero al
// aprobar cada recurso puede recibir su propia duración de acceso.
type AccessRequest struct {
	ID              string              `json:"id"`
	Requester       string              `json:"requester"`
	Owner           string              `json:"owner"`
	Resources       []policies.Resource `json:"resources"`
	Message         string              `json:"message,omitempty"`
	Status          Status              `json:"status"`
	ResponseMessage string              `json:"response_message,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	DecidedAt       *time.Time          `json:"decided_at,omitempty"`
}
