package grants

import (
	"context"
	"errors"
	"time"

	"profile-visibility/internal/domain/policies"
)

var ErrNotFound = errors.New("grant not found")

type Repository interface {
	Create(ctx context.Context, g Grant) error
	GetByID(ctx context.Context, id string) (Grant, error)
	// Active devuelve el grant no-superseded del triple (puede estar
	// revocado, consumido o caducado; decidir usabilidad es del caller).
	Active(ctx context.Context, owner string, resource policies.Resource, grantee string) (Grant, error)
	Update(ctx context.Context, g Grant) error
	// ConsumeOnce marca un one-time-view como consumido de forma atómica.
	// Devuelve true solo para el caller que ganó la carrera.
	ConsumeOnce(ctx context.Context, id string) (bool, error)
	ListByOwner(ctx context.Context, owner string) ([]Grant, error)
	ListByGrantee(ctx context.Context, grantee string) ([]Grant, error)
	// ListExpiring devuelve grants no revocados ni superseded cuya
	// expiración cae en la ventana (now-window, now+window): por vencer,
	// o vencidos hace menos de una ventana.
	ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]Grant, error)
}
