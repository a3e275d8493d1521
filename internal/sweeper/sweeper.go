// Package sweeper recorre periódicamente los grants por vencer y emite
// notificaciones. Es puramente informativo: nunca muta un grant, la
// visibilidad se recalcula en cada lectura del resolver.
package sweeper

import (
	"context"
	"sync"
	"time"

	"profile-visibility/internal/domain/grants"
	"profile-visibility/internal/platform/logger"
	"profile-visibility/internal/ports/notify"
)

// expiringWindow define qué tan cerca del vencimiento avisamos.
const expiringWindow = 24 * time.Hour

type GrantLister interface {
	ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]grants.Grant, error)
}

type Sweeper struct {
	lister   GrantLister
	notifier notify.Notifier
	log      logger.Logger
	interval time.Duration

	now func() time.Time

	mu       sync.Mutex
	notified map[string]notify.EventType // último aviso por grant
}

func New(lister GrantLister, notifier notify.Notifier, log logger.Logger, interval time.Duration) *Sweeper {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		lister:   lister,
		notifier: notifier,
		log:      log,
		interval: interval,
		now:      time.Now,
		notified: map[string]notify.EventType{},
	}
}

// Run barre en loop hasta que el contexto se cancele.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error("sweep failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// Sweep hace una pasada: grant.expiring para los que vencen dentro de la
// ventana, grant.expired para los ya vencidos. Cada transición se avisa a
// lo sumo una vez por grant; la entrega duplicada tras un reinicio es
// aceptable para el colaborador.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now()

	items, err := s.lister.ListExpiring(ctx, now, expiringWindow)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(items))
	for _, g := range items {
		seen[g.ID] = struct{}{}
	}

	for _, g := range items {
		if g.ExpiresAt == nil || g.Revoked || g.Superseded {
			continue
		}

		eventType := notify.EventGrantExpiring
		if g.Expired(now) {
			eventType = notify.EventGrantExpired
		}

		s.mu.Lock()
		already := s.notified[g.ID] == eventType
		if !already {
			s.notified[g.ID] = eventType
		}
		s.mu.Unlock()
		if already {
			continue
		}

		ev := notify.Event{
			Type:        eventType,
			Owner:       g.Owner,
			Counterpart: g.Grantee,
			Resource:    string(g.Resource),
			GrantID:     g.ID,
			OccurredAt:  now,
		}
		if err := s.notifier.Publish(ctx, ev); err != nil {
			s.log.Warn("notify failed", map[string]any{
				"grant_id": g.ID,
				"type":     string(eventType),
				"error":    err.Error(),
			})
			// reintentar en la próxima pasada
			s.mu.Lock()
			delete(s.notified, g.ID)
			s.mu.Unlock()
		}
	}

	// los grants que salieron del listado (avisados y envejecidos, o
	// revocados/superseded después) ya no necesitan dedup
	s.mu.Lock()
	for id := range s.notified {
		if _, ok := seen[id]; !ok {
			delete(s.notified, id)
		}
	}
	s.mu.Unlock()
	return nil
}
