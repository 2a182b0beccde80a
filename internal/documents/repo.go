package documents

import "context"

// Repo persists document metadata. Every operation is scoped to the owning
// user; a fileId belonging to another user behaves as if it does not exist.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByFileID(ctx context.Context, userID, fileID string) (Document, error)
	List(ctx context.Context, userID string, q ListQuery) ([]Document, error)
	SaveAnalysis(ctx context.Context, userID, fileID string, analysis Analysis) error
	DeleteByFileID(ctx context.Context, userID, fileID string) error
}
