package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/domain/requests"
)

type RequestsRepo struct {
	db *sql.DB
}

func NewRequestsRepo(db *sql.DB) *RequestsRepo {
	return &RequestsRepo{db: db}
}

// resources se guarda como lista separada por comas: los IDs de recurso
// nunca contienen comas y así el scan no depende de arrays del driver.
func joinResources(rs []policies.Resource) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

func splitResources(s string) []policies.Resource {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]policies.Resource, 0, len(parts))
	for _, p := range parts {
		out = append(out, policies.Resource(p))
	}
	return out
}

func (r *RequestsRepo) Create(ctx context.Context, req requests.AccessRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_requests (
			id, requester_username, owner_username, resources,
			message, status, response_message, created_at, decided_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		req.ID,
		req.Requester,
		req.Owner,
		joinResources(req.Resources),
		req.Message,
		string(req.Status),
		req.ResponseMessage,
		req.CreatedAt,
		toNullTime(req.DecidedAt),
	)
	return err
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (requests.AccessRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, requester_username, owner_username, resources,
		       message, status, response_message, created_at, decided_at
		FROM access_requests
		WHERE id = $1
	`, id)
	return scanRequest(row)
}

func (r *RequestsRepo) Update(ctx context.Context, req requests.AccessRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_requests
		SET status = $2, response_message = $3, decided_at = $4
		WHERE id = $1
	`,
		req.ID,
		string(req.Status),
		req.ResponseMessage,
		toNullTime(req.DecidedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return requests.ErrNotFound
	}
	return nil
}

func (r *RequestsRepo) ListByOwner(ctx context.Context, owner string) ([]requests.AccessRequest, error) {
	return r.list(ctx, `
		SELECT id, requester_username, owner_username, resources,
		       message, status, response_message, created_at, decided_at
		FROM access_requests
		WHERE owner_username = $1
		ORDER BY created_at DESC
	`, owner)
}

func (r *RequestsRepo) ListByRequester(ctx context.Context, requester string) ([]requests.AccessRequest, error) {
	return r.list(ctx, `
		SELECT id, requester_username, owner_username, resources,
		       message, status, response_message, created_at, decided_at
		FROM access_requests
		WHERE requester_username = $1
		ORDER BY created_at DESC
	`, requester)
}

func (r *RequestsRepo) HasPending(ctx context.Context, requester, owner string, resource policies.Resource) (bool, error) {
	// el recurso se busca dentro de la lista con delimitadores para no
	// matchear prefijos (photo:1 vs photo:12)
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1)
		FROM access_requests
		WHERE requester_username = $1
		  AND owner_username = $2
		  AND status = 'pending'
		  AND (',' || resources || ',') LIKE ('%,' || $3 || ',%')
	`, requester, owner, string(resource))

	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RequestsRepo) list(ctx context.Context, query string, args ...any) ([]requests.AccessRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []requests.AccessRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (requests.AccessRequest, error) {
	var req requests.AccessRequest
	var resources, status string
	var decidedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.Requester,
		&req.Owner,
		&resources,
		&req.Message,
		&status,
		&req.ResponseMessage,
		&req.CreatedAt,
		&decidedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return requests.AccessRequest{}, requests.ErrNotFound
	}
	if err != nil {
		return requests.AccessRequest{}, err
	}

	req.Resources = splitResources(resources)
	req.Status = requests.Status(status)
	req.DecidedAt = fromNullTime(decidedAt)
	return req, nil
}
