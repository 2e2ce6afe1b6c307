package documents

import "context"

// Repo defines persistence for documents. Read and delete operations are
// scoped to the owning user; a document outside that scope reads as missing.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, docID string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	Search(ctx context.Context, userID, query string) ([]Document, error)
	Delete(ctx context.Context, userID, docID string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
	ListAll(ctx context.Context) ([]Document, error)
	Count(ctx context.Context) (int, error)
}
