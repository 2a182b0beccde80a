package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // userId -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create stores a new document for a user.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return nil
}

// GetByFileID returns a document by blob key for a user.
func (r *MemoryRepo) GetByFileID(ctx context.Context, userID, fileID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].FileID == fileID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// List returns the user's documents matching the query.
func (r *MemoryRepo) List(ctx context.Context, userID string, q ListQuery) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	userDocs := r.data[userID]
	r.mu.RUnlock()

	docs := make([]Document, 0, len(userDocs))
	for _, doc := range userDocs {
		if q.Search != "" && !strings.Contains(strings.ToLower(doc.FileName), strings.ToLower(q.Search)) {
			continue
		}
		if q.StartDate != nil && doc.UploadedAt.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && doc.UploadedAt.After(*q.EndDate) {
			continue
		}
		docs = append(docs, doc)
	}

	asc := strings.EqualFold(q.SortOrder, "asc")
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if !asc {
			a, b = b, a
		}
		switch q.SortBy {
		case "fileName":
			return a.FileName < b.FileName
		case "size":
			return a.Size < b.Size
		default:
			return a.UploadedAt.Before(b.UploadedAt)
		}
	})

	return docs, nil
}

// SaveAnalysis caches the structured analysis on the stored document.
func (r *MemoryRepo) SaveAnalysis(ctx context.Context, userID, fileID string, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].FileID == fileID {
			copied := analysis
			docs[i].Analysis = &copied
			return nil
		}
	}
	return ErrNotFound
}

// DeleteByFileID removes the document for a user.
func (r *MemoryRepo) DeleteByFileID(ctx context.Context, userID, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].FileID == fileID {
			r.data[userID] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
