package documents

import "errors"

var (
	// ErrInvalidInput means the upload failed validation before any store was touched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers both absent documents and documents owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("document not found")
	// ErrPersistence means a metadata store read or write failed.
	ErrPersistence = errors.New("persistence failure")
	// ErrFetch means the stored blob could not be retrieved.
	ErrFetch = errors.New("fetch failure")
	// ErrExtraction means the PDF yielded no usable text.
	ErrExtraction = errors.New("extraction failure")
	// ErrSummarization means the remote summarization call failed.
	ErrSummarization = errors.New("summarization failure")
)
