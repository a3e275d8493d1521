package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/domain/requests"
)

var requestColumns = []string{
	"id", "requester_username", "owner_username", "resources",
	"message", "status", "response_message", "created_at", "decided_at",
}

func TestRequestsRepo_GetByID_SplitsResources(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT(.|\n)+FROM access_requests").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(requestColumns).AddRow(
			"r1", "john", "sarah", "photo:p1,pii:contact_info",
			"hi", "pending", "", t0, nil,
		))

	repo := NewRequestsRepo(db)
	req, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, []policies.Resource{
		policies.PhotoResource("p1"),
		policies.ResourceContactInfo,
	}, req.Resources)
	assert.Equal(t, requests.StatusPending, req.Status)
	assert.Nil(t, req.DecidedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestsRepo_Create_JoinsResources(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := requests.AccessRequest{
		ID: "r1", Requester: "john", Owner: "sarah",
		Resources: []policies.Resource{policies.PhotoResource("p1"), policies.ResourceDateOfBirth},
		Message:   "hi", Status: requests.StatusPending, CreatedAt: t0,
	}

	mock.ExpectExec("INSERT INTO access_requests").
		WithArgs(
			"r1", "john", "sarah", "photo:p1,pii:date_of_birth",
			"hi", "pending", "", t0, toNullTime(nil),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRequestsRepo(db)
	require.NoError(t, repo.Create(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestsRepo_HasPending_MatchesWholeResource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT(.|\n)+status = 'pending'").
		WithArgs("john", "sarah", "photo:p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT(.|\n)+status = 'pending'").
		WithArgs("john", "sarah", "photo:p12").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	repo := NewRequestsRepo(db)

	ok, err := repo.HasPending(context.Background(), "john", "sarah", policies.PhotoResource("p1"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasPending(context.Background(), "john", "sarah", policies.PhotoResource("p12"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestsRepo_Update_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE access_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRequestsRepo(db)
	err = repo.Update(context.Background(), requests.AccessRequest{ID: "missing"})
	assert.ErrorIs(t, err, requests.ErrNotFound)
}
