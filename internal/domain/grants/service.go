package grants

import (
	"context"
	"errors"
	"strings"
	"time"

	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotOwner           = errors.New("caller does not own this grant")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type Service struct {
	repo     Repository
	notifier notify.Notifier

	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type CreateInput struct {
	Owner           string
	Grantee         string
	Resource        policies.Resource
	Rule            DurationRule
	RequestID       string
	ResponseMessage string
}

// Create emite un grant nuevo para el triple (owner, resource, grantee).
// Si ya existía uno vivo para ese triple lo marca superseded: nunca hay
// dos grants activos para el mismo triple.
func (s *Service) Create(ctx context.Context, in CreateInput) (Grant, error) {
	in.Owner = strings.TrimSpace(in.Owner)
	in.Grantee = strings.TrimSpace(in.Grantee)
	if in.Owner == "" || in.Grantee == "" || in.Owner == in.Grantee {
		return Grant{}, ErrInvalidInput
	}
	if !in.Resource.Valid() {
		return Grant{}, ErrInvalidInput
	}
	if !in.Rule.Valid() {
		return Grant{}, ErrInvalidInput
	}

	now := s.now()

	prev, err := s.repo.Active(ctx, in.Owner, in.Resource, in.Grantee)
	switch {
	case err == nil:
		prev.Superseded = true
		if err := s.repo.Update(ctx, prev); err != nil {
			return Grant{}, ErrStorageUnavailable
		}
	case errors.Is(err, ErrNotFound):
		// primer grant del triple
	default:
		return Grant{}, ErrStorageUnavailable
	}

	g := Grant{
		ID:              s.newID(),
		Owner:           in.Owner,
		Grantee:         in.Grantee,
		Resource:        in.Resource,
		Rule:            in.Rule,
		RequestID:       in.RequestID,
		ResponseMessage: in.ResponseMessage,
		GrantedAt:       now,
	}
	if in.Rule.Type == RuleDays {
		exp := now.Add(time.Duration(in.Rule.Days) * 24 * time.Hour)
		g.ExpiresAt = &exp
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, ErrStorageUnavailable
	}
	return g, nil
}

// Revoke corta el acceso de inmediato. Solo el owner del grant puede
// revocarlo, y revocar dos veces es un no-op.
func (s *Service) Revoke(ctx context.Context, caller, grantID string) (Grant, error) {
	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Grant{}, ErrNotFound
		}
		return Grant{}, ErrStorageUnavailable
	}
	if g.Owner != caller {
		return Grant{}, ErrNotOwner
	}
	if g.Revoked {
		return g, nil
	}

	now := s.now()
	g.Revoked = true
	g.RevokedAt = &now
	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, ErrStorageUnavailable
	}

	_ = s.notifier.Publish(ctx, notify.Event{
		Type:        notify.EventGrantRevoked,
		Owner:       g.Owner,
		Counterpart: g.Grantee,
		Resource:    string(g.Resource),
		GrantID:     g.ID,
		OccurredAt:  now,
	})
	return g, nil
}

// Active devuelve el grant usable del triple, o ErrNotFound si no hay
// ninguno o el que hay ya no otorga acceso.
func (s *Service) Active(ctx context.Context, owner string, resource policies.Resource, grantee string) (Grant, error) {
	g, err := s.repo.Active(ctx, owner, resource, grantee)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Grant{}, ErrNotFound
		}
		return Grant{}, ErrStorageUnavailable
	}
	if !g.Usable(s.now()) {
		return Grant{}, ErrNotFound
	}
	return g, nil
}

// Latest devuelve el grant no-superseded del triple sin filtrar por
// usabilidad; el resolver lo necesita para distinguir caducado de ausente.
func (s *Service) Latest(ctx context.Context, owner string, resource policies.Resource, grantee string) (Grant, error) {
	g, err := s.repo.Active(ctx, owner, resource, grantee)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Grant{}, ErrNotFound
		}
		return Grant{}, ErrStorageUnavailable
	}
	return g, nil
}

// ConsumeOnce quema un one-time-view. Solo un caller concurrente recibe
// true; el resto ve el grant ya consumido.
func (s *Service) ConsumeOnce(ctx context.Context, grantID string) (bool, error) {
	won, err := s.repo.ConsumeOnce(ctx, grantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotFound
		}
		return false, ErrStorageUnavailable
	}
	return won, nil
}

func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Grant, error) {
	out, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	return out, nil
}

func (s *Service) ListByGrantee(ctx context.Context, grantee string) ([]Grant, error) {
	out, err := s.repo.ListByGrantee(ctx, grantee)
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	return out, nil
}

func (s *Service) ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]Grant, error) {
	out, err := s.repo.ListExpiring(ctx, now, window)
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	return out, nil
}
