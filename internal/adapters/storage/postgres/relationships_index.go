package postgres

import (
	"context"
	"database/sql"
	"time"

	"profile-visibility/internal/domain/relationships"
)

type RelationshipIndex struct {
	db *sql.DB
}

func NewRelationshipIndex(db *sql.DB) *RelationshipIndex {
	return &RelationshipIndex{db: db}
}

func (i *RelationshipIndex) Add(ctx context.Context, kind relationships.Kind, viewer, owner string) error {
	_, err := i.db.ExecContext(ctx, `
		INSERT INTO relationships (kind, viewer_username, owner_username, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, viewer_username, owner_username) DO NOTHING
	`, string(kind), viewer, owner, time.Now().UTC())
	return err
}

func (i *RelationshipIndex) Remove(ctx context.Context, kind relationships.Kind, viewer, owner string) error {
	_, err := i.db.ExecContext(ctx, `
		DELETE FROM relationships
		WHERE kind = $1 AND viewer_username = $2 AND owner_username = $3
	`, string(kind), viewer, owner)
	return err
}

func (i *RelationshipIndex) Has(ctx context.Context, kind relationships.Kind, viewer, owner string) (bool, error) {
	var count int
	err := i.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM relationships
		WHERE kind = $1 AND viewer_username = $2 AND owner_username = $3
	`, string(kind), viewer, owner).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
