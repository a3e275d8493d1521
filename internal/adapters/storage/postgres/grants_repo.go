package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"profile-visibility/internal/domain/grants"
	"profile-visibility/internal/domain/policies"
)

type GrantsRepo struct {
	db *sql.DB
}

func NewGrantsRepo(db *sql.DB) *GrantsRepo {
	return &GrantsRepo{db: db}
}

const grantColumns = `
	id, owner_username, grantee_username, resource,
	rule_type, rule_days, request_id,
	granted_at, expires_at, consumed,
	revoked, revoked_at, superseded, response_message`

func (r *GrantsRepo) Create(ctx context.Context, g grants.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_grants (`+grantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		g.ID,
		g.Owner,
		g.Grantee,
		string(g.Resource),
		string(g.Rule.Type),
		g.Rule.Days,
		g.RequestID,
		g.GrantedAt,
		toNullTime(g.ExpiresAt),
		g.Consumed,
		g.Revoked,
		toNullTime(g.RevokedAt),
		g.Superseded,
		g.ResponseMessage,
	)
	return err
}

func (r *GrantsRepo) GetByID(ctx context.Context, id string) (grants.Grant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE id = $1
	`, id)
	return scanGrant(row)
}

func (r *GrantsRepo) Active(ctx context.Context, owner string, resource policies.Resource, grantee string) (grants.Grant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE owner_username = $1 AND resource = $2 AND grantee_username = $3
		  AND NOT superseded
	`, owner, string(resource), grantee)
	return scanGrant(row)
}

func (r *GrantsRepo) Update(ctx context.Context, g grants.Grant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_grants
		SET
			consumed         = $2,
			revoked          = $3,
			revoked_at       = $4,
			superseded       = $5,
			response_message = $6
		WHERE id = $1
	`,
		g.ID,
		g.Consumed,
		g.Revoked,
		toNullTime(g.RevokedAt),
		g.Superseded,
		g.ResponseMessage,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return grants.ErrNotFound
	}
	return nil
}

// ConsumeOnce es el compare-and-set de one-time-views: el WHERE garantiza
// que a lo sumo un UPDATE concurrente afecte la fila.
func (r *GrantsRepo) ConsumeOnce(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_grants
		SET consumed = TRUE
		WHERE id = $1 AND NOT consumed AND NOT revoked AND NOT superseded
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *GrantsRepo) ListByOwner(ctx context.Context, owner string) ([]grants.Grant, error) {
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE owner_username = $1
		ORDER BY granted_at DESC
	`, owner)
}

func (r *GrantsRepo) ListByGrantee(ctx context.Context, grantee string) ([]grants.Grant, error) {
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE grantee_username = $1
		ORDER BY granted_at DESC
	`, grantee)
}

// ListExpiring devuelve los grants cuyo vencimiento cae dentro de la
// ventana alrededor de now: los que ya vencieron hace más de una ventana
// salen del listado (su aviso ya se emitió).
func (r *GrantsRepo) ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]grants.Grant, error) {
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE expires_at IS NOT NULL
		  AND expires_at < $1
		  AND expires_at > $2
		  AND NOT revoked AND NOT superseded
	`, now.Add(window), now.Add(-window))
}

func (r *GrantsRepo) list(ctx context.Context, query string, args ...any) ([]grants.Grant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []grants.Grant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrant(row rowScanner) (grants.Grant, error) {
	var g grants.Grant
	var resource, ruleType string
	var expiresAt, revokedAt sql.NullTime

	err := row.Scan(
		&g.ID,
		&g.Owner,
		&g.Grantee,
		&resource,
		&ruleType,
		&g.Rule.Days,
		&g.RequestID,
		&g.GrantedAt,
		&expiresAt,
		&g.Consumed,
		&g.Revoked,
		&revokedAt,
		&g.Superseded,
		&g.ResponseMessage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return grants.Grant{}, grants.ErrNotFound
	}
	if err != nil {
		return grants.Grant{}, err
	}

	g.Resource = policies.Resource(resource)
	g.Rule.Type = grants.RuleType(ruleType)
	g.ExpiresAt = fromNullTime(expiresAt)
	g.RevokedAt = fromNullTime(revokedAt)
	return g, nil
}
