package memory

import (
	"context"
	"sync"

	"profile-visibility/internal/domain/policies"
)

type policyRepo struct {
	mu      sync.RWMutex
	byOwner map[string]map[policies.Resource]policies.Policy
}

func NewPolicyRepo() policies.Repository {
	return &policyRepo{
		byOwner: make(map[string]map[policies.Resource]policies.Policy),
	}
}

func (r *policyRepo) Get(ctx context.Context, owner string, resource policies.Resource) (policies.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byOwner[owner][resource]
	if !ok {
		return policies.Policy{}, policies.ErrNotFound
	}
	return p, nil
}

func (r *policyRepo) Set(ctx context.Context, owner string, resource policies.Resource, p policies.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byOwner[owner] == nil {
		r.byOwner[owner] = make(map[policies.Resource]policies.Policy)
	}
	r.byOwner[owner][resource] = p
	return nil
}

func (r *policyRepo) ListByOwner(ctx context.Context, owner string) (map[policies.Resource]policies.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[policies.Resource]policies.Policy, len(r.byOwner[owner]))
	for res, p := range r.byOwner[owner] {
		out[res] = p
	}
	return out, nil
}
