package documents

import "time"

// Document represents one uploaded PDF owned by a user.
type Document struct {
	ID         string
	UserID     string
	FileName   string
	FileID     string // blob storage key, unique across all documents
	FileURL    string
	Size       int64
	UploadedAt time.Time
	Analysis   *Analysis // nil until summarized; write-once cache
}

// Analysis is the structured summary produced by the summarization client.
type Analysis struct {
	Summary    string   `json:"summary"`
	KeyFigures []string `json:"key_figures"`
	Dates      []string `json:"dates"`
	Topics     []string `json:"topics"`
}

// ListQuery narrows and orders a user's documents.
type ListQuery struct {
	Search    string
	StartDate *time.Time
	EndDate   *time.Time // inclusive, treated as end-of-day by the handler
	SortBy    string
	SortOrder string
}
