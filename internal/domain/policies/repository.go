package policies

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven los adapters cuando no hay policy explícita.
var ErrNotFound = errors.New("policy not found")

type Repository interface {
	// Get devuelve la policy explícita o ErrNotFound si nunca se seteó.
	Get(ctx context.Context, owner string, resource Resource) (Policy, error)
	Set(ctx context.Context, owner string, resource Resource, p Policy) error
	ListByOwner(ctx context.Context, owner string) (map[Resource]Policy, error)
}
