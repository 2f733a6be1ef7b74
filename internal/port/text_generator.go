package port

import "context"

// GenerateRequest carries one prompt to the external text-generation service.
type GenerateRequest struct {
	// System is the fixed role-setting instruction.
	System string
	// Prompt is the user message embedding the section template and input texts.
	Prompt string
	// MaxTokens bounds the length of the generated output.
	MaxTokens int
}

// TextGenerator abstracts the external text-generation service. The returned
// text is the service's response verbatim; no post-validation is performed.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
