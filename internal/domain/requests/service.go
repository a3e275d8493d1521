package requests

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"profile-visibility/internal/domain/grants"
	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotOwner           = errors.New("caller is not the owner of this request")
	ErrAlreadyDecided     = errors.New("request already decided")
	ErrNothingToRequest   = errors.New("nothing to request")
	ErrUnknownResource    = errors.New("unknown resource")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const maxMessageLen = 500

// ResourceDirectory responde si un recurso pertenece al owner. Interfaz
// angosta para no importar el service de policies completo.
type ResourceDirectory interface {
	Knows(ctx context.Context, owner string, resource policies.Resource) (bool, error)
}

// GrantBook es lo que el módulo de requests necesita del de grants:
// saber si el triple ya tiene acceso vigente, y emitir grants al aprobar.
type GrantBook interface {
	Active(ctx context.Context, owner string, resource policies.Resource, grantee string) (grants.Grant, error)
	Create(ctx context.Context, in grants.CreateInput) (grants.Grant, error)
}

type Service struct {
	repo      Repository
	resources ResourceDirectory
	grantBook GrantBook
	notifier  notify.Notifier

	now   func() time.Time
	newID func() string

	// serializa Submit/Decide por par (requester, owner) para que dos
	// submissions simultáneas no dupliquen pendientes.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository, resources ResourceDirectory, grantBook GrantBook, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{
		repo:      repo,
		resources: resources,
		grantBook: grantBook,
		notifier:  notifier,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     map[string]*sync.Mutex{},
	}
}

func (s *Service) pairLock(requester, owner string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := requester + "|" + owner
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

type SubmitInput struct {
	Requester string
	Owner     string
	Resources []policies.Resource
	Message   string
}

// Submit registra una petición de acceso. Los recursos que ya tienen una
// pendiente o un grant vigente se descartan en silencio; si se descartan
// todos, la submission falla con ErrNothingToRequest. Una request rechazada
// no bloquea volver a pedir.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (AccessRequest, error) {
	in.Requester = strings.TrimSpace(in.Requester)
	in.Owner = strings.TrimSpace(in.Owner)
	if in.Requester == "" || in.Owner == "" || in.Requester == in.Owner {
		return AccessRequest{}, ErrInvalidInput
	}
	if len(in.Resources) == 0 {
		return AccessRequest{}, ErrInvalidInput
	}
	if len(in.Message) > maxMessageLen {
		return AccessRequest{}, ErrInvalidInput
	}

	seen := map[policies.Resource]bool{}
	for _, r := range in.Resources {
		if seen[r] {
			return AccessRequest{}, ErrInvalidInput
		}
		seen[r] = true
		known, err := s.resources.Knows(ctx, in.Owner, r)
		if err != nil {
			return AccessRequest{}, ErrStorageUnavailable
		}
		if !known {
			return AccessRequest{}, ErrUnknownResource
		}
	}

	l := s.pairLock(in.Requester, in.Owner)
	l.Lock()
	defer l.Unlock()

	var wanted []policies.Resource
	for _, r := range in.Resources {
		pending, err := s.repo.HasPending(ctx, in.Requester, in.Owner, r)
		if err != nil {
			return AccessRequest{}, ErrStorageUnavailable
		}
		if pending {
			continue
		}
		_, err = s.grantBook.Active(ctx, in.Owner, r, in.Requester)
		switch {
		case err == nil:
			continue // ya tiene acceso
		case errors.Is(err, grants.ErrNotFound):
		default:
			return AccessRequest{}, ErrStorageUnavailable
		}
		wanted = append(wanted, r)
	}
	if len(wanted) == 0 {
		return AccessRequest{}, ErrNothingToRequest
	}

	now := s.now()
	req := AccessRequest{
		ID:        s.newID(),
		Requester: in.Requester,
		Owner:     in.Owner,
		Resources: wanted,
		Message:   strings.TrimSpace(in.Message),
		Status:    StatusPending,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return AccessRequest{}, ErrStorageUnavailable
	}

	_ = s.notifier.Publish(ctx, notify.Event{
		Type:        notify.EventRequestSubmitted,
		Owner:       req.Owner,
		Counterpart: req.Requester,
		RequestID:   req.ID,
		Message:     req.Message,
		OccurredAt:  now,
	})
	return req, nil
}

type DecisionInput struct {
	Caller    string
	RequestID string
	Approve   bool

	// Rule aplica a todos los recursos sin entrada en Rules; nil => default.
	Rule *grants.DurationRule
	// Rules fija la duración recurso por recurso. Cada key debe pertenecer
	// a la request.
	Rules map[policies.Resource]grants.DurationRule

	ResponseMessage string
}

// Decide resuelve una request pendiente. Aprobar emite un grant por cada
// recurso del lote, cada uno con su propia regla de duración si el owner
// la especificó; sin regla aplica la default. La decisión es terminal:
// una request decidida no se reabre.
func (s *Service) Decide(ctx context.Context, in DecisionInput) (AccessRequest, error) {
	if len(in.ResponseMessage) > maxMessageLen {
		return AccessRequest{}, ErrInvalidInput
	}

	req, err := s.repo.GetByID(ctx, in.RequestID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AccessRequest{}, ErrNotFound
		}
		return AccessRequest{}, ErrStorageUnavailable
	}
	if req.Owner != in.Caller {
		return AccessRequest{}, ErrNotOwner
	}

	l := s.pairLock(req.Requester, req.Owner)
	l.Lock()
	defer l.Unlock()

	// releer bajo el lock: otra decisión pudo ganar la carrera
	req, err = s.repo.GetByID(ctx, in.RequestID)
	if err != nil {
		return AccessRequest{}, ErrStorageUnavailable
	}
	if req.Status != StatusPending {
		return AccessRequest{}, ErrAlreadyDecided
	}

	fallback := grants.DefaultRule()
	if in.Rule != nil {
		fallback = *in.Rule
	}
	if in.Approve {
		if !fallback.Valid() {
			return AccessRequest{}, ErrInvalidInput
		}
		for res, rule := range in.Rules {
			if !rule.Valid() || !req.includes(res) {
				return AccessRequest{}, ErrInvalidInput
			}
		}
	}

	now := s.now()
	eventType := notify.EventRequestRejected
	if in.Approve {
		eventType = notify.EventRequestApproved
		for _, r := range req.Resources {
			rule := fallback
			if chosen, ok := in.Rules[r]; ok {
				rule = chosen
			}
			if _, err := s.grantBook.Create(ctx, grants.CreateInput{
				Owner:           req.Owner,
				Grantee:         req.Requester,
				Resource:        r,
				Rule:            rule,
				RequestID:       req.ID,
				ResponseMessage: strings.TrimSpace(in.ResponseMessage),
			}); err != nil {
				return AccessRequest{}, ErrStorageUnavailable
			}
		}
		req.Status = StatusApproved
	} else {
		req.Status = StatusRejected
	}
	req.ResponseMessage = strings.TrimSpace(in.ResponseMessage)
	req.DecidedAt = &now

	if err := s.repo.Update(ctx, req); err != nil {
		return AccessRequest{}, ErrStorageUnavailable
	}

	_ = s.notifier.Publish(ctx, notify.Event{
		Type:        eventType,
		Owner:       req.Owner,
		Counterpart: req.Requester,
		RequestID:   req.ID,
		Message:     req.ResponseMessage,
		OccurredAt:  now,
	})
	return req, nil
}

// ListIncoming devuelve las requests recibidas por el owner, más recientes
// primero. status vacío lista todas.
func (s *Service) ListIncoming(ctx context.Context, owner string, status Status) ([]AccessRequest, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	return filterSort(items, status), nil
}

func (s *Service) ListOutgoing(ctx context.Context, requester string, status Status) ([]AccessRequest, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByRequester(ctx, requester)
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	return filterSort(items, status), nil
}

// HasPending expone el chequeo de pendiente para el resolver de visibilidad.
func (s *Service) HasPending(ctx context.Context, requester, owner string, resource policies.Resource) (bool, error) {
	ok, err := s.repo.HasPending(ctx, requester, owner, resource)
	if err != nil {
		return false, ErrStorageUnavailable
	}
	return ok, nil
}

func filterSort(items []AccessRequest, status Status) []AccessRequest {
	out := make([]AccessRequest, 0, len(items))
	for _, it := range items {
		if status == "" || it.Status == status {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
