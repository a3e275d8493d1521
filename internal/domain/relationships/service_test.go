package relationships

import (
	"context"
	"testing"
)

type testIndex struct {
	sets map[string]map[string]bool
}

func newTestIndex() *testIndex {
	return &testIndex{sets: map[string]map[string]bool{}}
}

func (i *testIndex) key(kind Kind, owner string) string {
	return string(kind) + ":" + owner
}

func (i *testIndex) Add(ctx context.Context, kind Kind, viewer, owner string) error {
	k := i.key(kind, owner)
	if i.sets[k] == nil {
		i.sets[k] = map[string]bool{}
	}
	i.sets[k][viewer] = true
	return nil
}

func (i *testIndex) Remove(ctx context.Context, kind Kind, viewer, owner string) error {
	delete(i.sets[i.key(kind, owner)], viewer)
	return nil
}

func (i *testIndex) Has(ctx context.Context, kind Kind, viewer, owner string) (bool, error) {
	return i.sets[i.key(kind, owner)][viewer], nil
}

func TestService_FavoriteRoundTrip(t *testing.T) {
	svc := NewService(newTestIndex())
	ctx := context.Background()

	if err := svc.Favorite(ctx, "john", "sarah"); err != nil {
		t.Fatalf("Favorite error: %v", err)
	}

	ok, err := svc.IsFavorited(ctx, "john", "sarah")
	if err != nil || !ok {
		t.Fatalf("expected favorited, got ok=%v err=%v", ok, err)
	}

	// la relación es dirigida
	ok, _ = svc.IsFavorited(ctx, "sarah", "john")
	if ok {
		t.Fatalf("reverse direction should not be favorited")
	}

	if err := svc.Unfavorite(ctx, "john", "sarah"); err != nil {
		t.Fatalf("Unfavorite error: %v", err)
	}
	ok, _ = svc.IsFavorited(ctx, "john", "sarah")
	if ok {
		t.Fatalf("expected unfavorited after removal")
	}
}

func TestService_ShortlistIndependentOfFavorite(t *testing.T) {
	svc := NewService(newTestIndex())
	ctx := context.Background()

	if err := svc.Shortlist(ctx, "john", "sarah"); err != nil {
		t.Fatalf("Shortlist error: %v", err)
	}

	ok, _ := svc.IsShortlisted(ctx, "john", "sarah")
	if !ok {
		t.Fatalf("expected shortlisted")
	}
	ok, _ = svc.IsFavorited(ctx, "john", "sarah")
	if ok {
		t.Fatalf("shortlist must not imply favorite")
	}
}

func TestService_RejectsSelfRelation(t *testing.T) {
	svc := NewService(newTestIndex())
	ctx := context.Background()

	if err := svc.Favorite(ctx, "sarah", "sarah"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for self-favorite, got %v", err)
	}
	if err := svc.Shortlist(ctx, "", "sarah"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty viewer, got %v", err)
	}
}
