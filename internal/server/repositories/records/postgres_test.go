package records

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/qrfoundry/qrfoundry/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetField_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(data ->> \$3, ''\) FROM records WHERE record_type = \$1 AND record_id = \$2`).
		WithArgs("Asset", "AST-001", "serial_no").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("SN-12345"))

	v, err := repo.GetField(context.Background(), "Asset", "AST-001", "serial_no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "SN-12345" {
		t.Fatalf("unexpected value: %q", v)
	}
}

func TestGetField_MissingFieldYieldsEmpty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE`).
		WithArgs("Asset", "AST-001", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(""))

	v, err := repo.GetField(context.Background(), "Asset", "AST-001", "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "" {
		t.Fatalf("want empty value, got %q", v)
	}
}

func TestGetField_RecordNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE`).
		WithArgs("Asset", "missing", "serial_no").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetField(context.Background(), "Asset", "missing", "serial_no")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("Asset", "AST-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "Asset", "AST-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected record to exist")
	}
}
