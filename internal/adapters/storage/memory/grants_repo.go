package memory

import (
	"context"
	"sync"
	"time"

	"profile-visibility/internal/domain/grants"
	"profile-visibility/internal/domain/policies"
)

type grantRepo struct {
	mu   sync.RWMutex
	byID map[string]grants.Grant
}

func NewGrantRepo() grants.Repository {
	return &grantRepo{
		byID: make(map[string]grants.Grant),
	}
}

func (r *grantRepo) Create(ctx context.Context, g grants.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[g.ID] = g
	return nil
}

func (r *grantRepo) GetByID(ctx context.Context, id string) (grants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return grants.Grant{}, grants.ErrNotFound
	}
	return g, nil
}

func (r *grantRepo) Active(ctx context.Context, owner string, resource policies.Resource, grantee string) (grants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.byID {
		if !g.Superseded && g.Owner == owner && g.Resource == resource && g.Grantee == grantee {
			return g, nil
		}
	}
	return grants.Grant{}, grants.ErrNotFound
}

func (r *grantRepo) Update(ctx context.Context, g grants.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[g.ID]; !ok {
		return grants.ErrNotFound
	}
	r.byID[g.ID] = g
	return nil
}

// ConsumeOnce es el compare-and-set de one-time-views: bajo el lock de
// escritura solo un caller puede observar consumed=false.
func (r *grantRepo) ConsumeOnce(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.byID[id]
	if !ok {
		return false, grants.ErrNotFound
	}
	if g.Consumed || g.Revoked || g.Superseded {
		return false, nil
	}
	g.Consumed = true
	r.byID[id] = g
	return true, nil
}

func (r *grantRepo) ListByOwner(ctx context.Context, owner string) ([]grants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []grants.Grant
	for _, g := range r.byID {
		if g.Owner == owner {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *grantRepo) ListByGrantee(ctx context.Context, grantee string) ([]grants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []grants.Grant
	for _, g := range r.byID {
		if g.Grantee == grantee {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *grantRepo) ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]grants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// ventana simétrica: lo vencido hace más de una ventana ya fue avisado
	upper := now.Add(window)
	lower := now.Add(-window)
	var out []grants.Grant
	for _, g := range r.byID {
		if g.Revoked || g.Superseded || g.ExpiresAt == nil {
			continue
		}
		if g.ExpiresAt.Before(upper) && g.ExpiresAt.After(lower) {
			out = append(out, g)
		}
	}
	return out, nil
}
