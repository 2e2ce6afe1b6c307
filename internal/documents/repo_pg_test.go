package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"lexibox-backend/internal/shared/apperr"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func documentRows(docs ...Document) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "filename", "file_path", "content", "upload_date", "user_id"})
	for _, doc := range docs {
		rows.AddRow(doc.ID, doc.Filename, doc.StoragePath, doc.Content, doc.UploadedAt, doc.UserID)
	}
	return rows
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := Document{
		ID:          "d1",
		Filename:    "cv.pdf",
		StoragePath: "cv.pdf",
		Content:     "text",
		UploadedAt:  time.Now().UTC(),
		UserID:      "u1",
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.Filename, doc.StoragePath, doc.Content, doc.UploadedAt, doc.UserID).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSearchScopesToUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := Document{ID: "d1", Filename: "resume.pdf", UserID: "u1", UploadedAt: time.Now().UTC()}

	mock.ExpectQuery("FROM documents").
		WithArgs("u1", "resume").
		WillReturnRows(documentRows(doc))

	found, err := repo.Search(context.Background(), "u1", "resume")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != "d1" {
		t.Fatalf("expected [d1], got %+v", found)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScopesToUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM documents WHERE id").
		WithArgs("d1", "other-user").
		WillReturnRows(documentRows())

	_, err := repo.GetByID(context.Background(), "other-user", "d1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM documents WHERE id").
		WithArgs("d1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u2", "d1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPGRepoDeleteByUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM documents WHERE user_id").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	removed, err := repo.DeleteByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if removed != 4 {
		t.Fatalf("expected 4 removed, got %d", removed)
	}
}
