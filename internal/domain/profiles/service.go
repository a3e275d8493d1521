package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("profile already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// PolicySync evita importar el paquete policies (rompe ciclos). El reorden
// de fotos puede cambiar cuál es la primaria y eso exige reasignar la
// policy para que exista exactamente una primaria clear.
type PolicySync interface {
	ReassignPrimary(ctx context.Context, owner, oldPrimaryID, newPrimaryID string) error
}

type Service struct {
	repo     Repository
	policies PolicySync
	now      func() time.Time
	newID    func() string
}

func NewService(repo Repository, policies PolicySync) *Service {
	return &Service{
		repo:     repo,
		policies: policies,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type CreateInput struct {
	Username      string
	DisplayName   string
	ContactEmail  string
	ContactNumber string
	Location      string
	Workplace     string
	DateOfBirth   *time.Time
	LinkedInURL   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Profile, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return Profile{}, ErrInvalidInput
	}

	p := Profile{
		Username:      username,
		DisplayName:   strings.TrimSpace(in.DisplayName),
		ContactEmail:  strings.TrimSpace(in.ContactEmail),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Location:      strings.TrimSpace(in.Location),
		Workplace:     strings.TrimSpace(in.Workplace),
		DateOfBirth:   in.DateOfBirth,
		LinkedInURL:   strings.TrimSpace(in.LinkedInURL),
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return Profile{}, ErrAlreadyExists
		}
		return Profile{}, ErrStorageUnavailable
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, username string) (Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, ErrStorageUnavailable
	}
	return p, nil
}

// AddPhoto registra una foto al final del orden. La primera foto de un
// perfil queda como primaria.
func (s *Service) AddPhoto(ctx context.Context, owner, url string) (Photo, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return Photo{}, ErrInvalidInput
	}

	existing, err := s.repo.ListPhotos(ctx, owner)
	if err != nil {
		return Photo{}, ErrStorageUnavailable
	}

	ph := Photo{
		ID:        s.newID(),
		Owner:     owner,
		URL:       strings.TrimSpace(url),
		Position:  len(existing),
		IsPrimary: len(existing) == 0,
		CreatedAt: s.now(),
	}

	if err := s.repo.AddPhoto(ctx, ph); err != nil {
		return Photo{}, ErrStorageUnavailable
	}
	return ph, nil
}

func (s *Service) ListPhotos(ctx context.Context, owner string) ([]Photo, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListPhotos(ctx, owner)
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	return items, nil
}

// ReorderPhotos aplica el nuevo orden (debe ser una permutación del set
// actual). Si cambia la primaria, dispara la reasignación de policy.
func (s *Service) ReorderPhotos(ctx context.Context, owner string, orderedIDs []string) error {
	owner = strings.TrimSpace(owner)
	if owner == "" || len(orderedIDs) == 0 {
		return ErrInvalidInput
	}

	current, err := s.repo.ListPhotos(ctx, owner)
	if err != nil {
		return ErrStorageUnavailable
	}
	if len(current) != len(orderedIDs) {
		return ErrInvalidInput
	}

	byID := make(map[string]Photo, len(current))
	oldPrimary := ""
	for _, ph := range current {
		byID[ph.ID] = ph
		if ph.IsPrimary {
			oldPrimary = ph.ID
		}
	}

	ordered := make([]Photo, 0, len(orderedIDs))
	seen := map[string]struct{}{}
	for i, id := range orderedIDs {
		ph, ok := byID[id]
		if !ok {
			return ErrInvalidInput
		}
		if _, dup := seen[id]; dup {
			return ErrInvalidInput
		}
		seen[id] = struct{}{}

		ph.Position = i
		ph.IsPrimary = i == 0
		ordered = append(ordered, ph)
	}

	if err := s.repo.UpdatePhotoOrder(ctx, owner, ordered); err != nil {
		return ErrStorageUnavailable
	}

	newPrimary := orderedIDs[0]
	if newPrimary != oldPrimary && s.policies != nil {
		if err := s.policies.ReassignPrimary(ctx, owner, oldPrimary, newPrimary); err != nil {
			return err
		}
	}
	return nil
}

// HasPhoto y PrimaryPhotoID implementan el directorio de fotos que consume
// el policy store.
func (s *Service) HasPhoto(ctx context.Context, owner, photoID string) (bool, error) {
	items, err := s.repo.ListPhotos(ctx, owner)
	if err != nil {
		return false, ErrStorageUnavailable
	}
	for _, ph := range items {
		if ph.ID == photoID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) PrimaryPhotoID(ctx context.Context, owner string) (string, error) {
	items, err := s.repo.ListPhotos(ctx, owner)
	if err != nil {
		return "", ErrStorageUnavailable
	}
	for _, ph := range items {
		if ph.IsPrimary {
			return ph.ID, nil
		}
	}
	return "", nil
}
