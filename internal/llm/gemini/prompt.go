package gemini

import "fmt"

const promptTemplate = `You are a financial document analyst. Analyze the following document and respond with ONLY a valid JSON object, no markdown and no commentary, in exactly this shape:
{"summary": "a concise executive summary of the document", "key_figures": ["notable amounts, totals and metrics"], "dates": ["important dates mentioned"], "topics": ["main topics covered"]}

Document text:
%s`

// BuildPrompt wraps the extracted document text in the summarization
// instructions. The text must already be capped by the caller.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
