package relationships

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type Service struct {
	idx Index
}

func NewService(idx Index) *Service {
	return &Service{idx: idx}
}

func (s *Service) Favorite(ctx context.Context, viewer, owner string) error {
	return s.add(ctx, KindFavorited, viewer, owner)
}

func (s *Service) Unfavorite(ctx context.Context, viewer, owner string) error {
	return s.remove(ctx, KindFavorited, viewer, owner)
}

func (s *Service) Shortlist(ctx context.Context, viewer, owner string) error {
	return s.add(ctx, KindShortlisted, viewer, owner)
}

func (s *Service) Unshortlist(ctx context.Context, viewer, owner string) error {
	return s.remove(ctx, KindShortlisted, viewer, owner)
}

// IsFavorited responde si viewer marcó a owner como favorito. Lectura
// directa del índice: sin cache, el resolver exige que el flip sea
// inmediato.
func (s *Service) IsFavorited(ctx context.Context, viewer, owner string) (bool, error) {
	return s.has(ctx, KindFavorited, viewer, owner)
}

func (s *Service) IsShortlisted(ctx context.Context, viewer, owner string) (bool, error) {
	return s.has(ctx, KindShortlisted, viewer, owner)
}

func (s *Service) add(ctx context.Context, kind Kind, viewer, owner string) error {
	viewer = strings.TrimSpace(viewer)
	owner = strings.TrimSpace(owner)
	if viewer == "" || owner == "" || viewer == owner {
		return ErrInvalidInput
	}
	if err := s.idx.Add(ctx, kind, viewer, owner); err != nil {
		return ErrStorageUnavailable
	}
	return nil
}

func (s *Service) remove(ctx context.Context, kind Kind, viewer, owner string) error {
	viewer = strings.TrimSpace(viewer)
	owner = strings.TrimSpace(owner)
	if viewer == "" || owner == "" {
		return ErrInvalidInput
	}
	if err := s.idx.Remove(ctx, kind, viewer, owner); err != nil {
		return ErrStorageUnavailable
	}
	return nil
}

func (s *Service) has(ctx context.Context, kind Kind, viewer, owner string) (bool, error) {
	viewer = strings.TrimSpace(viewer)
	owner = strings.TrimSpace(owner)
	if viewer == "" || owner == "" {
		return false, nil
	}
	ok, err := s.idx.Has(ctx, kind, viewer, owner)
	if err != nil {
		return false, ErrStorageUnavailable
	}
	return ok, nil
}
