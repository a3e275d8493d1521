package requests

import (
	"context"
	"errors"

	"profile-visibility/internal/domain/policies"
)

var ErrNotFound = errors.New("access request not found")

type Repository interface {
	Create(ctx context.Context, req AccessRequest) error
	GetByID(ctx context.Context, id string) (AccessRequest, error)
	Update(ctx context.Context, req AccessRequest) error
	ListByOwner(ctx context.Context, owner string) ([]AccessRequest, error)
	ListByRequester(ctx context.Context, requester string) ([]AccessRequest, error)
	// HasPending responde si existe una request pendiente del requester al
	// owner que incluya el recurso.
	HasPending(ctx context.Context, requester, owner string, resource policies.Resource) (bool, error)
}
