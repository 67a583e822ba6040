package tenants

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now())
	mock.ExpectQuery(`INSERT\s+INTO\s+tenants`).
		WithArgs(sqlmock.AnyArg(), "acme").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Tenant{Name: "acme"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := "1f4f2bd2-58d8-44a7-bb09-84b01b1b4a07"
	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow(id, "acme", time.Now())
	mock.ExpectQuery(`FROM\s+tenants`).
		WithArgs(id).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "acme" {
		t.Fatalf("unexpected tenant: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := "1f4f2bd2-58d8-44a7-bb09-84b01b1b4a07"
	mock.ExpectQuery(`FROM\s+tenants`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_MalformedID(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	// No query expected: a non-uuid id short-circuits to not found.
	_, err := repo.GetByID(context.Background(), "unknown-tenant")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
