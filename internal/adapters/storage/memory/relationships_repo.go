package memory

import (
	"context"
	"sync"

	"profile-visibility/internal/domain/relationships"
)

type relationshipIndex struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{} // kind:owner -> viewers
}

func NewRelationshipIndex() relationships.Index {
	return &relationshipIndex{
		sets: make(map[string]map[string]struct{}),
	}
}

func relKey(kind relationships.Kind, owner string) string {
	return string(kind) + ":" + owner
}

func (i *relationshipIndex) Add(ctx context.Context, kind relationships.Kind, viewer, owner string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	k := relKey(kind, owner)
	if i.sets[k] == nil {
		i.sets[k] = make(map[string]struct{})
	}
	i.sets[k][viewer] = struct{}{}
	return nil
}

func (i *relationshipIndex) Remove(ctx context.Context, kind relationships.Kind, viewer, owner string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.sets[relKey(kind, owner)], viewer)
	return nil
}

func (i *relationshipIndex) Has(ctx context.Context, kind relationships.Kind, viewer, owner string) (bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	_, ok := i.sets[relKey(kind, owner)][viewer]
	return ok, nil
}
