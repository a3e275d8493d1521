// Package notify define los eventos que el engine emite hacia el sistema
// de notificaciones externo. El canal de entrega y el templating no son
// asunto del engine; la entrega duplicada es aceptable (el colaborador es
// idempotente).
package notify

import (
	"context"
	"time"
)

type EventType string

const (
	EventRequestSubmitted EventType = "request.submitted"
	EventRequestApproved  EventType = "request.approved"
	EventRequestRejected  EventType = "request.rejected"
	EventGrantRevoked     EventType = "grant.revoked"
	EventGrantExpiring    EventType = "grant.expiring"
	EventGrantExpired     EventType = "grant.expired"
)

// Event es el payload mínimo que el colaborador necesita para armar una
// notificación. Counterpart es "el otro" usuario respecto del owner
// (requester o grantee según el tipo de evento).
type Event struct {
	Type        EventType `json:"type" msgpack:"type"`
	Owner       string    `json:"owner" msgpack:"owner"`
	Counterpart string    `json:"counterpart" msgpack:"counterpart"`
	Resource    string    `json:"resource,omitempty" msgpack:"resource,omitempty"`
	RequestID   string    `json:"request_id,omitempty" msgpack:"request_id,omitempty"`
	GrantID     string    `json:"grant_id,omitempty" msgpack:"grant_id,omitempty"`
	Message     string    `json:"message,omitempty" msgpack:"message,omitempty"`
	OccurredAt  time.Time `json:"occurred_at" msgpack:"occurred_at"`
}

type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// Discard ignora todos los eventos. Default cuando no hay canal configurado.
type Discard struct{}

func (Discard) Publish(ctx context.Context, ev Event) error { return nil }
