package memory

import (
	"context"
	"sync"

	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/domain/requests"
)

type requestRepo struct {
	mu   sync.RWMutex
	byID map[string]requests.AccessRequest
}

func NewRequestRepo() requests.Repository {
	return &requestRepo{
		byID: make(map[string]requests.AccessRequest),
	}
}

func (r *requestRepo) Create(ctx context.Context, req requests.AccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[req.ID] = req
	return nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (requests.AccessRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return requests.AccessRequest{}, requests.ErrNotFound
	}
	return req, nil
}

func (r *requestRepo) Update(ctx context.Context, req requests.AccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID]; !ok {
		return requests.ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}

func (r *requestRepo) ListByOwner(ctx context.Context, owner string) ([]requests.AccessRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []requests.AccessRequest
	for _, req := range r.byID {
		if req.Owner == owner {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *requestRepo) ListByRequester(ctx context.Context, requester string) ([]requests.AccessRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []requests.AccessRequest
	for _, req := range r.byID {
		if req.Requester == requester {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *requestRepo) HasPending(ctx context.Context, requester, owner string, resource policies.Resource) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.byID {
		if req.Requester != requester || req.Owner != owner || req.Status != requests.StatusPending {
			continue
		}
		for _, res := range req.Resources {
			if res == resource {
				return true, nil
			}
		}
	}
	return false, nil
}
