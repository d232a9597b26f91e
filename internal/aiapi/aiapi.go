// Package aiapi defines the JSON contract between the CLI and the AI server.
package aiapi

const (
	SummarizePath = "/api/ai/summarize"
	TagsPath      = "/api/ai/tags"
	TranslatePath = "/api/ai/translate"
)

type SummarizeRequest struct {
	Content string `json:"content"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type TagsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}

type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type TranslateResponse struct {
	Translation string `json:"translation"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
