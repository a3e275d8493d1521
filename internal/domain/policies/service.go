package policies

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotOwner           = errors.New("not owner")
	ErrUnknownResource    = errors.New("unknown resource")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// PhotoDirectory evita importar el paquete profiles (rompe ciclos).
type PhotoDirectory interface {
	HasPhoto(ctx context.Context, owner, photoID string) (bool, error)
	PrimaryPhotoID(ctx context.Context, owner string) (string, error)
}

type Service struct {
	repo   Repository
	photos PhotoDirectory
	now    func() time.Time
}

func NewService(repo Repository, photos PhotoDirectory) *Service {
	return &Service{
		repo:   repo,
		photos: photos,
		now:    time.Now,
	}
}

// Get devuelve la policy vigente para (owner, resource): la explícita si
// existe, sino el default. Nunca evalúa la identidad del viewer.
func (s *Service) Get(ctx context.Context, owner string, resource Resource) (Policy, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" || !resource.Valid() {
		return Policy{}, ErrUnknownResource
	}

	p, err := s.repo.Get(ctx, owner, resource)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Policy{}, ErrStorageUnavailable
	}

	isPrimary := false
	if resource.IsPhoto() {
		primary, err := s.photos.PrimaryPhotoID(ctx, owner)
		if err != nil {
			return Policy{}, ErrStorageUnavailable
		}
		isPrimary = primary != "" && primary == resource.PhotoID()
	}
	return DefaultFor(resource, isPrimary), nil
}

// Set sobreescribe la policy. Solo el owner puede hacerlo; no toca grants
// ya emitidos.
func (s *Service) Set(ctx context.Context, actor, owner string, resource Resource, p Policy) error {
	if strings.TrimSpace(actor) == "" || strings.TrimSpace(owner) == "" {
		return ErrInvalidInput
	}
	if actor != owner {
		return ErrNotOwner
	}
	if !p.Validate() {
		return ErrInvalidInput
	}

	known, err := s.Knows(ctx, owner, resource)
	if err != nil {
		return err
	}
	if !known {
		return ErrUnknownResource
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Set(ctx, owner, resource, p); err != nil {
		return ErrStorageUnavailable
	}
	return nil
}

// Knows responde si el recurso pertenece al conjunto conocido del owner.
// Las categorías de PII existen siempre; las fotos se validan contra el
// registro de fotos.
func (s *Service) Knows(ctx context.Context, owner string, resource Resource) (bool, error) {
	if !resource.Valid() {
		return false, nil
	}
	if resource.IsPII() {
		return true, nil
	}
	has, err := s.photos.HasPhoto(ctx, owner, resource.PhotoID())
	if err != nil {
		return false, ErrStorageUnavailable
	}
	return has, nil
}

// ListByOwner devuelve las policies explícitas del owner.
func (s *Service) ListByOwner(ctx context.Context, owner string) (map[Resource]Policy, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrInvalidInput
	}
	out, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	return out, nil
}

// ReassignPrimary se invoca al reordenar fotos: la nueva primaria queda
// clear y la anterior deja de serlo, de modo que siempre exista exactamente
// una foto primaria clear.
func (s *Service) ReassignPrimary(ctx context.Context, owner, oldPrimaryID, newPrimaryID string) error {
	owner = strings.TrimSpace(owner)
	newPrimaryID = strings.TrimSpace(newPrimaryID)
	if owner == "" || newPrimaryID == "" {
		return ErrInvalidInput
	}
	if oldPrimaryID == newPrimaryID {
		return nil
	}

	now := s.now()

	newPolicy := Clear()
	newPolicy.UpdatedAt = now
	if err := s.repo.Set(ctx, owner, PhotoResource(newPrimaryID), newPolicy); err != nil {
		return ErrStorageUnavailable
	}

	if oldPrimaryID == "" {
		return nil
	}

	// La anterior solo pierde su clear implícito/explícito; si el owner ya
	// la tenía con una policy distinta, se respeta.
	oldRes := PhotoResource(oldPrimaryID)
	stored, err := s.repo.Get(ctx, owner, oldRes)
	switch {
	case errors.Is(err, ErrNotFound):
		// era clear por default de primaria
	case err != nil:
		return ErrStorageUnavailable
	case stored.Type != PolicyClear:
		return nil
	}

	demoted := Blurred(BlurMedium)
	demoted.UpdatedAt = now
	if err := s.repo.Set(ctx, owner, oldRes, demoted); err != nil {
		return ErrStorageUnavailable
	}
	return nil
}
