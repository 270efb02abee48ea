package entries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func entryRows(e *models.Entry) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "mode", "link_type", "custom_route", "target_url",
		"target_type", "target_id", "target_action",
		"source_type", "source_id", "source_field",
		"manual_content", "label_text", "computed_content",
		"created_at", "updated_at",
	}).AddRow(
		e.ID, string(e.Mode), string(e.LinkType), e.CustomRoute, e.TargetURL,
		e.TargetType, e.TargetID, e.TargetAction,
		e.SourceType, e.SourceID, e.SourceField,
		e.ManualContent, e.LabelText, e.ComputedContent,
		e.CreatedAt, e.UpdatedAt,
	)
}

func TestCreate_ReturnsTimestamps(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO entries .* RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("e1", created, created))

	e, err := repo.Create(context.Background(), &models.Entry{
		Mode:      models.ModeURL,
		LinkType:  models.LinkToken,
		TargetURL: "https://docs.example.com/a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != "e1" || !e.CreatedAt.Equal(created) {
		t.Fatalf("returned values not applied: %+v", e)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := &models.Entry{
		ID: "e1", Mode: models.ModeURL, LinkType: models.LinkToken,
		TargetURL: "https://docs.example.com/a",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	mock.ExpectQuery(`SELECT .* FROM entries WHERE id = \$1`).
		WithArgs("e1").
		WillReturnRows(entryRows(want))

	got, err := repo.Get(context.Background(), "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "e1" || got.Mode != models.ModeURL {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestFindByTarget_ScopesToURLMode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := &models.Entry{
		ID: "e1", Mode: models.ModeURL, LinkType: models.LinkDirect,
		TargetType: "Invoice", TargetID: "INV-001",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	mock.ExpectQuery(`SELECT .* FROM entries\s+WHERE mode = 'URL' AND target_type = \$1 AND target_id = \$2\s+ORDER BY created_at LIMIT 1`).
		WithArgs("Invoice", "INV-001").
		WillReturnRows(entryRows(want))

	got, err := repo.FindByTarget(context.Background(), "Invoice", "INV-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "e1" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestUpdateComputedContent_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE entries SET computed_content = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs("missing", "content", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateComputedContent(context.Background(), "missing", "content")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
