package policies

import (
	"context"
	"testing"
	"time"
)

// -------------------------
// Test repo + photo directory (in-memory)
// -------------------------

type testRepo struct {
	byKey map[string]Policy
}

func newTestRepo() *testRepo {
	return &testRepo{byKey: map[string]Policy{}}
}

func key(owner string, res Resource) string { return owner + "|" + string(res) }

func (r *testRepo) Get(ctx context.Context, owner string, res Resource) (Policy, error) {
	p, ok := r.byKey[key(owner, res)]
	if !ok {
		return Policy{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Set(ctx context.Context, owner string, res Resource, p Policy) error {
	r.byKey[key(owner, res)] = p
	return nil
}

func (r *testRepo) ListByOwner(ctx context.Context, owner string) (map[Resource]Policy, error) {
	out := map[Resource]Policy{}
	for k, p := range r.byKey {
		if len(k) > len(owner) && k[:len(owner)+1] == owner+"|" {
			out[Resource(k[len(owner)+1:])] = p
		}
	}
	return out, nil
}

type testPhotos struct {
	photos  map[string][]string // owner -> photo IDs in order
	primary map[string]string
}

func newTestPhotos() *testPhotos {
	return &testPhotos{photos: map[string][]string{}, primary: map[string]string{}}
}

func (d *testPhotos) add(owner, id string) {
	d.photos[owner] = append(d.photos[owner], id)
	if d.primary[owner] == "" {
		d.primary[owner] = id
	}
}

func (d *testPhotos) HasPhoto(ctx context.Context, owner, photoID string) (bool, error) {
	for _, id := range d.photos[owner] {
		if id == photoID {
			return true, nil
		}
	}
	return false, nil
}

func (d *testPhotos) PrimaryPhotoID(ctx context.Context, owner string) (string, error) {
	return d.primary[owner], nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Get_Defaults(t *testing.T) {
	repo := newTestRepo()
	photos := newTestPhotos()
	photos.add("sarah", "p1")
	photos.add("sarah", "p2")

	svc := NewService(repo, photos)
	ctx := context.Background()

	p, err := svc.Get(ctx, "sarah", PhotoResource("p1"))
	if err != nil {
		t.Fatalf("Get primary photo error: %v", err)
	}
	if p.Type != PolicyClear {
		t.Fatalf("expected primary photo clear by default, got %s", p.Type)
	}

	p, err = svc.Get(ctx, "sarah", PhotoResource("p2"))
	if err != nil {
		t.Fatalf("Get secondary photo error: %v", err)
	}
	if p.Type != PolicyBlurred || p.Blur != BlurMedium {
		t.Fatalf("expected blurred medium default for secondary photo, got %+v", p)
	}

	p, err = svc.Get(ctx, "sarah", ResourceContactInfo)
	if err != nil {
		t.Fatalf("Get pii error: %v", err)
	}
	if p.Type != PolicyHidden || p.Placeholder != PlaceholderLock {
		t.Fatalf("expected hidden lock default for pii, got %+v", p)
	}
}

func TestService_Get_ExplicitOverridesDefault(t *testing.T) {
	repo := newTestRepo()
	photos := newTestPhotos()
	photos.add("sarah", "p1")

	svc := NewService(repo, photos)
	ctx := context.Background()

	if err := svc.Set(ctx, "sarah", "sarah", PhotoResource("p1"), Hidden(PlaceholderFrame)); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	p, err := svc.Get(ctx, "sarah", PhotoResource("p1"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if p.Type != PolicyHidden || p.Placeholder != PlaceholderFrame {
		t.Fatalf("expected explicit hidden frame, got %+v", p)
	}
}

func TestService_Set_OnlyOwner(t *testing.T) {
	repo := newTestRepo()
	photos := newTestPhotos()
	photos.add("sarah", "p1")

	svc := NewService(repo, photos)

	err := svc.Set(context.Background(), "john", "sarah", PhotoResource("p1"), Clear())
	if err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestService_Set_UnknownResource(t *testing.T) {
	repo := newTestRepo()
	photos := newTestPhotos()

	svc := NewService(repo, photos)

	err := svc.Set(context.Background(), "sarah", "sarah", PhotoResource("ghost"), Clear())
	if err != ErrUnknownResource {
		t.Fatalf("expected ErrUnknownResource for missing photo, got %v", err)
	}

	err = svc.Set(context.Background(), "sarah", "sarah", Resource("pii:favorite_color"), Clear())
	if err != ErrUnknownResource {
		t.Fatalf("expected ErrUnknownResource for bad category, got %v", err)
	}
}

func TestService_Set_RejectsMalformedPolicy(t *testing.T) {
	repo := newTestRepo()
	photos := newTestPhotos()
	photos.add("sarah", "p1")

	svc := NewService(repo, photos)

	bad := Policy{Type: PolicyBlurred, Blur: BlurLevel("extreme")}
	if err := svc.Set(context.Background(), "sarah", "sarah", PhotoResource("p1"), bad); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// conditional sin condición no dice nada
	bad = Conditional(false, false)
	if err := svc.Set(context.Background(), "sarah", "sarah", PhotoResource("p1"), bad); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty conditional, got %v", err)
	}
}

func TestService_ReassignPrimary(t *testing.T) {
	repo := newTestRepo()
	photos := newTestPhotos()
	photos.add("sarah", "p1")
	photos.add("sarah", "p2")

	svc := NewService(repo, photos)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	if err := svc.ReassignPrimary(ctx, "sarah", "p1", "p2"); err != nil {
		t.Fatalf("ReassignPrimary error: %v", err)
	}

	p, err := repo.Get(ctx, "sarah", PhotoResource("p2"))
	if err != nil || p.Type != PolicyClear {
		t.Fatalf("expected new primary explicit clear, got %+v err=%v", p, err)
	}

	p, err = repo.Get(ctx, "sarah", PhotoResource("p1"))
	if err != nil || p.Type != PolicyBlurred || p.Blur != BlurMedium {
		t.Fatalf("expected old primary demoted to blurred medium, got %+v err=%v", p, err)
	}
}

func TestService_ReassignPrimary_KeepsExplicitNonClear(t *testing.T) {
	repo := newTestRepo()
	photos := newTestPhotos()
	photos.add("sarah", "p1")
	photos.add("sarah", "p2")

	svc := NewService(repo, photos)
	ctx := context.Background()

	if err := svc.Set(ctx, "sarah", "sarah", PhotoResource("p1"), Hidden(PlaceholderSilhouette)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := svc.ReassignPrimary(ctx, "sarah", "p1", "p2"); err != nil {
		t.Fatalf("ReassignPrimary error: %v", err)
	}

	p, err := repo.Get(ctx, "sarah", PhotoResource("p1"))
	if err != nil || p.Type != PolicyHidden {
		t.Fatalf("expected old primary to keep hidden policy, got %+v err=%v", p, err)
	}
}

func TestResource_Parsing(t *testing.T) {
	if !PhotoResource("abc").IsPhoto() {
		t.Fatalf("expected photo resource")
	}
	if PhotoResource("abc").PhotoID() != "abc" {
		t.Fatalf("unexpected photo id")
	}
	if !ResourceLinkedIn.IsPII() {
		t.Fatalf("expected pii resource")
	}
	if Resource("pii:other").Valid() {
		t.Fatalf("unknown category must be invalid")
	}
	if Resource("photo:").Valid() {
		t.Fatalf("empty photo id must be invalid")
	}
}
