package llm

import "context"

// Adapter defines the contract for LLM backends.
type Adapter interface {
	Name() string
	Compare(ctx context.Context, req CompareRequest) (string, error)
}

// CompareRequest is the per-call snapshot handed to an adapter. Prompt and
// model fields are copied out of the TypeConfig at request time so an edit to
// the config never changes an in-flight comparison.
type CompareRequest struct {
	SystemPrompt  string
	UserPrompt    string
	ReferenceText string
	CandidateText string
	Model         string
	APIKey        string
}

// SimilarityReport is the normalized comparison result returned to callers.
type SimilarityReport struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Report   string `json:"report"`
}
