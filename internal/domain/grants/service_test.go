package grants

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/ports/notify"
)

type testRepo struct {
	mu     sync.Mutex
	grants map[string]Grant
}

func newTestRepo() *testRepo {
	return &testRepo{grants: map[string]Grant{}}
}

func (r *testRepo) Create(ctx context.Context, g Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[g.ID] = g
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grants[id]
	if !ok {
		return Grant{}, ErrNotFound
	}
	return g, nil
}

func (r *testRepo) Active(ctx context.Context, owner string, resource policies.Resource, grantee string) (Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grants {
		if !g.Superseded && g.Owner == owner && g.Resource == resource && g.Grantee == grantee {
			return g, nil
		}
	}
	return Grant{}, ErrNotFound
}

func (r *testRepo) Update(ctx context.Context, g Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.grants[g.ID]; !ok {
		return ErrNotFound
	}
	r.grants[g.ID] = g
	return nil
}

func (r *testRepo) ConsumeOnce(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grants[id]
	if !ok {
		return false, ErrNotFound
	}
	if g.Consumed || g.Revoked || g.Superseded {
		return false, nil
	}
	g.Consumed = true
	r.grants[id] = g
	return true, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, owner string) ([]Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Grant
	for _, g := range r.grants {
		if g.Owner == owner {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListByGrantee(ctx context.Context, grantee string) ([]Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Grant
	for _, g := range r.grants {
		if g.Grantee == grantee {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Grant
	for _, g := range r.grants {
		if g.Revoked || g.Superseded || g.ExpiresAt == nil {
			continue
		}
		if g.ExpiresAt.Before(now.Add(window)) && g.ExpiresAt.After(now.Add(-window)) {
			out = append(out, g)
		}
	}
	return out, nil
}

type testNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *testNotifier) Publish(ctx context.Context, ev notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func newTestService(repo *testRepo, n notify.Notifier, at time.Time) *Service {
	svc := NewService(repo, n)
	svc.now = func() time.Time { return at }
	seq := 0
	svc.newID = func() string { seq++; return fmt.Sprintf("g%d", seq) }
	return svc
}

func TestService_Create_DaysRuleDerivesExpiry(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newTestRepo(), nil, at)

	g, err := svc.Create(context.Background(), CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourcePhotos, Rule: Days(3),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	want := at.Add(72 * time.Hour)
	if g.ExpiresAt == nil || !g.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, g.ExpiresAt)
	}
}

func TestService_Create_PermanentAndOneTimeHaveNoExpiry(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newTestRepo(), nil, at)
	ctx := context.Background()

	perm, _ := svc.Create(ctx, CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourceContactInfo, Rule: Permanent(),
	})
	if perm.ExpiresAt != nil {
		t.Fatalf("permanent grant should not expire, got %v", perm.ExpiresAt)
	}

	once, _ := svc.Create(ctx, CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourceDateOfBirth, Rule: OneTimeView(),
	})
	if once.ExpiresAt != nil {
		t.Fatalf("one-time grant should not expire by clock, got %v", once.ExpiresAt)
	}
}

func TestService_Create_SupersedesSameTriple(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newTestRepo()
	svc := newTestService(repo, nil, at)
	ctx := context.Background()

	first, _ := svc.Create(ctx, CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourcePhotos, Rule: Days(1),
	})
	second, err := svc.Create(ctx, CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourcePhotos, Rule: Permanent(),
	})
	if err != nil {
		t.Fatalf("second Create error: %v", err)
	}

	stored, _ := repo.GetByID(ctx, first.ID)
	if !stored.Superseded {
		t.Fatalf("first grant should be superseded")
	}
	active, err := svc.Active(ctx, "sarah", policies.ResourcePhotos, "john")
	if err != nil {
		t.Fatalf("Active error: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected active grant %s, got %s", second.ID, active.ID)
	}
}

func TestService_Revoke_OnlyOwnerAndEmitsEvent(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newTestRepo()
	n := &testNotifier{}
	svc := newTestService(repo, n, at)
	ctx := context.Background()

	g, _ := svc.Create(ctx, CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourcePhotos, Rule: Permanent(),
	})

	if _, err := svc.Revoke(ctx, "john", g.ID); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	revoked, err := svc.Revoke(ctx, "sarah", g.ID)
	if err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if !revoked.Revoked || revoked.RevokedAt == nil {
		t.Fatalf("expected revoked grant, got %+v", revoked)
	}

	if _, err := svc.Active(ctx, "sarah", policies.ResourcePhotos, "john"); err != ErrNotFound {
		t.Fatalf("revoked grant must not be active, got %v", err)
	}

	if len(n.events) != 1 || n.events[0].Type != notify.EventGrantRevoked {
		t.Fatalf("expected one grant.revoked event, got %+v", n.events)
	}

	// revocar de nuevo es no-op, sin segundo evento
	if _, err := svc.Revoke(ctx, "sarah", g.ID); err != nil {
		t.Fatalf("second Revoke error: %v", err)
	}
	if len(n.events) != 1 {
		t.Fatalf("double revoke must not emit again, got %d events", len(n.events))
	}
}

func TestService_Active_ExpiredIsNotFound(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newTestRepo()
	svc := newTestService(repo, nil, at)
	ctx := context.Background()

	g, _ := svc.Create(ctx, CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourcePhotos, Rule: Days(1),
	})

	svc.now = func() time.Time { return at.Add(25 * time.Hour) }
	if _, err := svc.Active(ctx, "sarah", policies.ResourcePhotos, "john"); err != ErrNotFound {
		t.Fatalf("expired grant must not be active, got %v", err)
	}

	// Latest sí lo devuelve: el resolver distingue caducado de ausente
	latest, err := svc.Latest(ctx, "sarah", policies.ResourcePhotos, "john")
	if err != nil || latest.ID != g.ID {
		t.Fatalf("Latest should return expired grant, got %+v err=%v", latest, err)
	}
}

func TestService_ConsumeOnce_SingleWinner(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newTestRepo()
	svc := newTestService(repo, nil, at)
	ctx := context.Background()

	g, _ := svc.Create(ctx, CreateInput{
		Owner: "sarah", Grantee: "john",
		Resource: policies.ResourceDateOfBirth, Rule: OneTimeView(),
	})

	const viewers = 16
	wins := make(chan bool, viewers)
	var wg sync.WaitGroup
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := svc.ConsumeOnce(ctx, g.ID)
			if err != nil {
				t.Errorf("ConsumeOnce error: %v", err)
				return
			}
			wins <- won
		}()
	}
	wg.Wait()
	close(wins)

	total := 0
	for won := range wins {
		if won {
			total++
		}
	}
	if total != 1 {
		t.Fatalf("expected exactly one winner, got %d", total)
	}

	if _, err := svc.Active(ctx, "sarah", policies.ResourceDateOfBirth, "john"); err != ErrNotFound {
		t.Fatalf("consumed one-time grant must not be active, got %v", err)
	}
}

func TestService_Create_RejectsBadInput(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newTestRepo(), nil, at)
	ctx := context.Background()

	cases := []CreateInput{
		{Owner: "sarah", Grantee: "sarah", Resource: policies.ResourcePhotos, Rule: Permanent()},
		{Owner: "", Grantee: "john", Resource: policies.ResourcePhotos, Rule: Permanent()},
		{Owner: "sarah", Grantee: "john", Resource: "pii:nope", Rule: Permanent()},
		{Owner: "sarah", Grantee: "john", Resource: policies.ResourcePhotos, Rule: Days(0)},
		{Owner: "sarah", Grantee: "john", Resource: policies.ResourcePhotos, Rule: DurationRule{Type: "weeks"}},
	}
	for i, in := range cases {
		if _, err := svc.Create(ctx, in); err != ErrInvalidInput {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}
