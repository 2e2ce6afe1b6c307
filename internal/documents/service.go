package documents

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lexibox-backend/internal/extract"
	"lexibox-backend/internal/shared/apperr"
	"lexibox-backend/internal/shared/storage/object"
	"lexibox-backend/internal/shared/telemetry"
	"lexibox-backend/internal/shared/util"
	"lexibox-backend/internal/users"
)

// Service contains document upload, retrieval and search logic.
type Service struct {
	Repo  Repo
	Store object.ObjectStore

	// Extract produces the text content of a PDF. Defaults to extract.PDFText.
	Extract func(ctx context.Context, data []byte) (string, error)
}

func (s *Service) extractText(ctx context.Context, data []byte) (string, error) {
	if s.Extract != nil {
		return s.Extract(ctx, data)
	}
	return extract.PDFText(ctx, data)
}

// Upload stores a PDF and its extracted text for the actor. When extraction
// fails the stored file is removed and no record is kept, so a failed upload
// leaves no trace.
func (s *Service) Upload(ctx context.Context, actor users.User, fileName string, data []byte) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Document{}, apperr.Wrap(apperr.ErrValidation, "a file name is required")
	}
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return Document{}, apperr.Wrap(apperr.ErrValidation, "only PDF files are accepted")
	}
	safeName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, apperr.Wrap(apperr.ErrValidation, "invalid file name")
	}
	if len(data) == 0 {
		return Document{}, apperr.Wrap(apperr.ErrValidation, "uploaded file is empty")
	}

	storagePath, size, err := s.Store.Save(ctx, safeName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	content, err := s.extractText(ctx, data)
	if err != nil {
		if removeErr := s.Store.Remove(ctx, storagePath); removeErr != nil {
			telemetry.Error("documents.cleanup_failed", map[string]any{
				"storage_path": storagePath,
				"error":        removeErr.Error(),
			})
		}
		return Document{}, apperr.Wrap(apperr.ErrExtraction, "could not extract text from PDF")
	}

	doc := Document{
		ID:          uuid.NewString(),
		Filename:    safeName,
		StoragePath: storagePath,
		Content:     content,
		UploadedAt:  time.Now().UTC(),
		UserID:      actor.ID,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if removeErr := s.Store.Remove(ctx, storagePath); removeErr != nil {
			telemetry.Error("documents.cleanup_failed", map[string]any{
				"storage_path": storagePath,
				"error":        removeErr.Error(),
			})
		}
		return Document{}, err
	}

	telemetry.Info("documents.uploaded", map[string]any{
		"document_id": doc.ID,
		"user_id":     actor.ID,
		"size_bytes":  size,
	})
	return doc, nil
}

// List returns the actor's documents, newest first.
func (s *Service) List(ctx context.Context, actor users.User) ([]Document, error) {
	return s.Repo.ListByUser(ctx, actor.ID)
}

// Get returns one of the actor's documents. Documents owned by other users
// read as missing.
func (s *Service) Get(ctx context.Context, actor users.User, docID string) (Document, error) {
	return s.Repo.GetByID(ctx, actor.ID, docID)
}

// Delete removes one of the actor's documents.
func (s *Service) Delete(ctx context.Context, actor users.User, docID string) error {
	doc, err := s.Repo.GetByID(ctx, actor.ID, docID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, actor.ID, docID); err != nil {
		return err
	}
	if err := s.Store.Remove(ctx, doc.StoragePath); err != nil {
		telemetry.Error("documents.cleanup_failed", map[string]any{
			"storage_path": doc.StoragePath,
			"error":        err.Error(),
		})
	}
	return nil
}

// Search finds the actor's documents whose filename or content contains the
// query, case-insensitively.
func (s *Service) Search(ctx context.Context, actor users.User, query string) ([]Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "search query is required")
	}
	return s.Repo.Search(ctx, actor.ID, query)
}
