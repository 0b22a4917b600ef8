package generation

import (
	"context"

	"github.com/phrazzld/studio-api/internal/domain"
)

// BriefParser extracts the structured brief fields from free-form
// campaign text. This interface serves as a boundary between the
// application core and external AI/LLM services.
type BriefParser interface {
	// ParseBrief analyzes the source text and returns the structured
	// brief fields. Fields the model cannot determine are left empty;
	// Channels is never nil.
	ParseBrief(ctx context.Context, sourceText string) (domain.BriefFields, error)
}

// CopyGenerator produces marketing copy from a parsed brief and a
// user-supplied prompt.
type CopyGenerator interface {
	// GenerateCopy returns the generated marketing copy text.
	GenerateCopy(ctx context.Context, brief *domain.CreativeBrief, prompt string) (string, error)
}

// ImageGenerator produces hosted marketing images.
type ImageGenerator interface {
	// GenerateImage returns the URL of the generated image.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Finding is a single compliance issue flagged in generated copy.
// The service layer converts findings into persisted violations tied
// to a content row.
type Finding struct {
	Rule     string                   `json:"rule"`
	Severity domain.ViolationSeverity `json:"severity"`
	Excerpt  string                   `json:"excerpt"`
}

// ComplianceReviewer checks generated copy against content rules
// (unsubstantiated claims, missing disclaimers, restricted wording).
type ComplianceReviewer interface {
	// ReviewCopy returns the findings for the given copy, or an empty
	// slice when the copy is clean.
	ReviewCopy(ctx context.Context, copy string) ([]Finding, error)
}

// ChatResponder produces the assistant's next turn in a conversation.
type ChatResponder interface {
	// Respond returns the assistant reply for the given message history,
	// oldest message first.
	Respond(ctx context.Context, messages []*domain.ChatMessage) (string, error)
}
