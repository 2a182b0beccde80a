package llm

import (
	"context"
	"errors"
)

// MaxInputChars is the hard cap on text sent to the remote model. Longer
// documents are truncated, not chunked.
const MaxInputChars = 30000

// Summarizer turns document text into the model's raw reply. The caller is
// responsible for interpreting the reply as structured JSON.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Placeholder stands in when no API key is configured.
type Placeholder struct{}

func (Placeholder) Summarize(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", errors.New("summarization client not configured")
}

// Truncate enforces MaxInputChars on the input text.
func Truncate(text string) string {
	if len(text) > MaxInputChars {
		return text[:MaxInputChars]
	}
	return text
}
