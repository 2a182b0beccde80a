package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"findoc-backend/internal/extract"
	"findoc-backend/internal/llm"
	"findoc-backend/internal/shared/storage/object"
	"findoc-backend/internal/shared/telemetry"
)

const (
	// MaxUploadSize caps both the declared and actual upload size.
	MaxUploadSize = 10 << 20 // 10MiB
	// AcceptedContentType is the only MIME type uploads may carry.
	AcceptedContentType = "application/pdf"
)

// TextExtractor converts PDF bytes into plain text.
type TextExtractor interface {
	Text(ctx context.Context, data []byte) (string, error)
}

// Service orchestrates the document lifecycle: upload, listing, on-demand
// summarization with a write-once cache, and deletion. All operations are
// scoped to the calling user.
type Service struct {
	Blobs      object.BlobStore
	Repo       Repo
	Extractor  TextExtractor
	Summarizer llm.Summarizer
}

// Upload validates the file, writes the blob, then records the document.
// If the metadata write fails after the blob write succeeded, the orphaned
// blob is deleted best-effort and the caller sees the persistence failure.
func (s *Service) Upload(ctx context.Context, userID, fileName, contentType string, declaredSize int64, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if contentType != AcceptedContentType {
		return Document{}, fmt.Errorf("%w: only PDF files are allowed", ErrInvalidInput)
	}
	if declaredSize > MaxUploadSize {
		return Document{}, fmt.Errorf("%w: file too large, maximum size is 10MB", ErrInvalidInput)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("%w: unable to read file", ErrInvalidInput)
	}
	if int64(len(data)) > MaxUploadSize {
		return Document{}, fmt.Errorf("%w: file too large, maximum size is 10MB", ErrInvalidInput)
	}

	key, url, size, err := s.Blobs.Put(ctx, fileName, contentType, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("%w: store file: %v", ErrPersistence, err)
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		FileID:     key,
		FileURL:    url,
		Size:       size,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// Compensate: the blob would otherwise be orphaned. A failed
		// compensation is logged, not surfaced, so the root cause stays visible.
		if delErr := s.Blobs.Delete(ctx, key); delErr != nil && !errors.Is(delErr, object.ErrNotFound) {
			telemetry.Warn("upload.compensation_failed", map[string]any{
				"file_id": key,
				"user_id": userID,
				"error":   delErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("%w: record document: %v", ErrPersistence, err)
	}

	return doc, nil
}

// List returns the user's documents matching the filter and sort.
func (s *Service) List(ctx context.Context, userID string, q ListQuery) ([]Document, error) {
	docs, err := s.Repo.List(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrPersistence, err)
	}
	return docs, nil
}

// Get returns one document by blob key, scoped to the user.
func (s *Service) Get(ctx context.Context, userID, fileID string) (Document, error) {
	doc, err := s.Repo.GetByFileID(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("%w: get document: %v", ErrPersistence, err)
	}
	return doc, nil
}

// Summarize returns the document's structured analysis, producing and caching
// it on first request. Pipeline failures are not cached, so a retry re-runs
// the failed stage; an obtained-but-malformed model reply is cached in
// degraded form to avoid repeated wasted calls.
func (s *Service) Summarize(ctx context.Context, userID, fileID string) (Analysis, error) {
	doc, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return Analysis{}, err
	}
	if doc.Analysis != nil {
		return *doc.Analysis, nil
	}

	rc, err := s.Blobs.Open(ctx, doc.FileID)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: fetch blob %s: %v", ErrFetch, doc.FileID, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: read blob %s: %v", ErrFetch, doc.FileID, err)
	}

	text, err := s.Extractor.Text(ctx, data)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			telemetry.Warn("summarize.no_extractable_text", map[string]any{"file_id": fileID, "user_id": userID})
		} else {
			telemetry.Warn("summarize.pdf_parse_failed", map[string]any{"file_id": fileID, "user_id": userID, "error": err.Error()})
		}
		return Analysis{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if strings.TrimSpace(text) == "" {
		return Analysis{}, fmt.Errorf("%w: %v", ErrExtraction, extract.ErrNoText)
	}

	reply, err := s.Summarizer.Summarize(ctx, llm.Truncate(text))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrSummarization, err)
	}

	analysis := parseAnalysis(reply)
	if err := s.Repo.SaveAnalysis(ctx, userID, fileID, analysis); err != nil {
		return Analysis{}, fmt.Errorf("%w: cache analysis: %v", ErrPersistence, err)
	}
	return analysis, nil
}

// Delete removes the document row and then its blob. Once the row is gone,
// the operation reports success even if the blob delete fails or the blob
// was already absent; row deletion is the authoritative signal.
func (s *Service) Delete(ctx context.Context, userID, fileID string) error {
	if _, err := s.Get(ctx, userID, fileID); err != nil {
		return err
	}

	if err := s.Repo.DeleteByFileID(ctx, userID, fileID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: delete document: %v", ErrPersistence, err)
	}

	if err := s.Blobs.Delete(ctx, fileID); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Warn("delete.blob_delete_failed", map[string]any{
			"file_id": fileID,
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	return nil
}

// parseAnalysis interprets the model reply as the expected JSON shape,
// falling back to a degraded result carrying the raw text when the reply
// isn't valid JSON.
func parseAnalysis(reply string) Analysis {
	cleaned := stripCodeFences(reply)

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		telemetry.Warn("summarize.malformed_model_reply", map[string]any{"error": err.Error()})
		return Analysis{
			Summary:    reply,
			KeyFigures: []string{},
			Dates:      []string{},
			Topics:     []string{},
		}
	}
	if analysis.KeyFigures == nil {
		analysis.KeyFigures = []string{}
	}
	if analysis.Dates == nil {
		analysis.Dates = []string{}
	}
	if analysis.Topics == nil {
		analysis.Topics = []string{}
	}
	return analysis
}

// stripCodeFences unwraps replies the model insists on wrapping in markdown
// fences despite the prompt.
func stripCodeFences(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
