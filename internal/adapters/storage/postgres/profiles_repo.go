package postgres

import (
	"context"
	"database/sql"
	"errors"

	"profile-visibility/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			username, display_name,
			contact_email, contact_number, location, workplace,
			date_of_birth, linkedin_url, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (username) DO NOTHING
	`,
		p.Username,
		p.DisplayName,
		p.ContactEmail,
		p.ContactNumber,
		p.Location,
		p.Workplace,
		toNullTime(p.DateOfBirth),
		p.LinkedInURL,
		p.CreatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return profiles.ErrAlreadyExists
	}
	return nil
}

func (r *ProfilesRepo) Get(ctx context.Context, username string) (profiles.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			username, display_name,
			contact_email, contact_number, location, workplace,
			date_of_birth, linkedin_url, created_at
		FROM profiles
		WHERE username = $1
	`, username)

	var p profiles.Profile
	var dob sql.NullTime
	err := row.Scan(
		&p.Username,
		&p.DisplayName,
		&p.ContactEmail,
		&p.ContactNumber,
		&p.Location,
		&p.Workplace,
		&dob,
		&p.LinkedInURL,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	if err != nil {
		return profiles.Profile{}, err
	}
	p.DateOfBirth = fromNullTime(dob)
	return p, nil
}

func (r *ProfilesRepo) AddPhoto(ctx context.Context, ph profiles.Photo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO photos (id, owner_username, url, position, is_primary, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		ph.ID,
		ph.Owner,
		ph.URL,
		ph.Position,
		ph.IsPrimary,
		ph.CreatedAt,
	)
	return err
}

func (r *ProfilesRepo) ListPhotos(ctx context.Context, owner string) ([]profiles.Photo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_username, url, position, is_primary, created_at
		FROM photos
		WHERE owner_username = $1
		ORDER BY position ASC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []profiles.Photo
	for rows.Next() {
		var ph profiles.Photo
		if err := rows.Scan(&ph.ID, &ph.Owner, &ph.URL, &ph.Position, &ph.IsPrimary, &ph.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ph)
	}
	return out, rows.Err()
}

func (r *ProfilesRepo) UpdatePhotoOrder(ctx context.Context, owner string, ordered []profiles.Photo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ph := range ordered {
		if _, err := tx.ExecContext(ctx, `
			UPDATE photos
			SET position = $3, is_primary = $4
			WHERE id = $1 AND owner_username = $2
		`, ph.ID, owner, ph.Position, ph.IsPrimary); err != nil {
			return err
		}
	}
	return tx.Commit()
}
