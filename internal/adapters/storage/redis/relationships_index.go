// Package redis implementa el índice de relaciones sobre sets de Redis:
// lecturas O(1) para el resolver y escrituras idempotentes.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"profile-visibility/internal/domain/relationships"
)

type RelationshipIndex struct {
	client *redis.Client
}

func NewRelationshipIndex(client *redis.Client) *RelationshipIndex {
	return &RelationshipIndex{client: client}
}

// key: rel:<kind>:<owner> -> set de viewers
func relKey(kind relationships.Kind, owner string) string {
	return "rel:" + string(kind) + ":" + owner
}

func (i *RelationshipIndex) Add(ctx context.Context, kind relationships.Kind, viewer, owner string) error {
	return i.client.SAdd(ctx, relKey(kind, owner), viewer).Err()
}

func (i *RelationshipIndex) Remove(ctx context.Context, kind relationships.Kind, viewer, owner string) error {
	return i.client.SRem(ctx, relKey(kind, owner), viewer).Err()
}

func (i *RelationshipIndex) Has(ctx context.Context, kind relationships.Kind, viewer, owner string) (bool, error) {
	return i.client.SIsMember(ctx, relKey(kind, owner), viewer).Result()
}
