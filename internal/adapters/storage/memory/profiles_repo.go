package memory

import (
	"context"
	"sort"
	"sync"

	"profile-visibility/internal/domain/profiles"
)

type profileRepo struct {
	mu     sync.RWMutex
	byName map[string]profiles.Profile
	photos map[string][]profiles.Photo
}

func NewProfileRepo() profiles.Repository {
	return &profileRepo{
		byName: make(map[string]profiles.Profile),
		photos: make(map[string][]profiles.Photo),
	}
}

func (r *profileRepo) Create(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[p.Username]; exists {
		return profiles.ErrAlreadyExists
	}
	r.byName[p.Username] = p
	return nil
}

func (r *profileRepo) Get(ctx context.Context, username string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[username]
	if !ok {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return p, nil
}

func (r *profileRepo) AddPhoto(ctx context.Context, ph profiles.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.photos[ph.Owner] = append(r.photos[ph.Owner], ph)
	return nil
}

func (r *profileRepo) ListPhotos(ctx context.Context, owner string) ([]profiles.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profiles.Photo, len(r.photos[owner]))
	copy(out, r.photos[owner])
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *profileRepo) UpdatePhotoOrder(ctx context.Context, owner string, ordered []profiles.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.photos[owner] = append([]profiles.Photo(nil), ordered...)
	return nil
}
