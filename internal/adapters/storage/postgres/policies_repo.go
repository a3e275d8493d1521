package postgres

import (
	"context"
	"database/sql"
	"errors"

	"profile-visibility/internal/domain/policies"
)

type PoliciesRepo struct {
	db *sql.DB
}

func NewPoliciesRepo(db *sql.DB) *PoliciesRepo {
	return &PoliciesRepo{db: db}
}

func (r *PoliciesRepo) Get(ctx context.Context, owner string, resource policies.Resource) (policies.Policy, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT policy_type, blur_level, placeholder,
		       clear_if_favorited, clear_if_shortlisted, updated_at
		FROM visibility_policies
		WHERE owner_username = $1 AND resource = $2
	`, owner, string(resource))

	var p policies.Policy
	var policyType, blurLevel, placeholder string
	err := row.Scan(
		&policyType,
		&blurLevel,
		&placeholder,
		&p.ClearIfFavorited,
		&p.ClearIfShortlisted,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return policies.Policy{}, policies.ErrNotFound
	}
	if err != nil {
		return policies.Policy{}, err
	}

	p.Type = policies.PolicyType(policyType)
	p.Blur = policies.BlurLevel(blurLevel)
	p.Placeholder = policies.Placeholder(placeholder)
	return p, nil
}

func (r *PoliciesRepo) Set(ctx context.Context, owner string, resource policies.Resource, p policies.Policy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visibility_policies (
			owner_username, resource, policy_type, blur_level, placeholder,
			clear_if_favorited, clear_if_shortlisted, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (owner_username, resource) DO UPDATE SET
			policy_type          = EXCLUDED.policy_type,
			blur_level           = EXCLUDED.blur_level,
			placeholder          = EXCLUDED.placeholder,
			clear_if_favorited   = EXCLUDED.clear_if_favorited,
			clear_if_shortlisted = EXCLUDED.clear_if_shortlisted,
			updated_at           = EXCLUDED.updated_at
	`,
		owner,
		string(resource),
		string(p.Type),
		string(p.Blur),
		string(p.Placeholder),
		p.ClearIfFavorited,
		p.ClearIfShortlisted,
		p.UpdatedAt,
	)
	return err
}

func (r *PoliciesRepo) ListByOwner(ctx context.Context, owner string) (map[policies.Resource]policies.Policy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT resource, policy_type, blur_level, placeholder,
		       clear_if_favorited, clear_if_shortlisted, updated_at
		FROM visibility_policies
		WHERE owner_username = $1
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[policies.Resource]policies.Policy{}
	for rows.Next() {
		var resource, policyType, blurLevel, placeholder string
		var p policies.Policy
		if err := rows.Scan(
			&resource,
			&policyType,
			&blurLevel,
			&placeholder,
			&p.ClearIfFavorited,
			&p.ClearIfShortlisted,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Type = policies.PolicyType(policyType)
		p.Blur = policies.BlurLevel(blurLevel)
		p.Placeholder = policies.Placeholder(placeholder)
		out[policies.Resource(resource)] = p
	}
	return out, rows.Err()
}
