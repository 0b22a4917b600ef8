package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for CreativeBrief
var (
	ErrEmptyBriefID         = errors.New("brief ID cannot be empty")
	ErrEmptyBriefUserID     = errors.New("brief user ID cannot be empty")
	ErrEmptyBriefSourceText = errors.New("brief source text cannot be empty")
)

// BriefFields holds the nine structured fields extracted from a free-text
// campaign description. Fields the model could not determine are empty
// strings (or an empty slice for Channels), never absent, so the JSON
// shape is stable for clients.
type BriefFields struct {
	CampaignName   string   `json:"campaign_name"`
	ProductName    string   `json:"product_name"`
	TargetAudience string   `json:"target_audience"`
	KeyMessage     string   `json:"key_message"`
	Tone           string   `json:"tone"`
	Channels       []string `json:"channels"`
	Budget         string   `json:"budget"`
	Timeline       string   `json:"timeline"`
	CallToAction   string   `json:"call_to_action"`
}

// CreativeBrief represents structured marketing campaign requirements
// parsed from free text. It keeps the original text alongside the
// extracted fields so a parse can be audited or re-run.
type CreativeBrief struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	SourceText string      `json:"source_text"`
	Fields     BriefFields `json:"fields"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewCreativeBrief creates a new CreativeBrief for the given user from the
// source text and extracted fields. It generates a new UUID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewCreativeBrief(userID uuid.UUID, sourceText string, fields BriefFields) (*CreativeBrief, error) {
	if fields.Channels == nil {
		fields.Channels = []string{}
	}

	brief := &CreativeBrief{
		ID:         uuid.New(),
		UserID:     userID,
		SourceText: sourceText,
		Fields:     fields,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := brief.Validate(); err != nil {
		return nil, err
	}

	return brief, nil
}

// Validate checks if the CreativeBrief has valid data.
// Returns an error if any field fails validation.
func (b *CreativeBrief) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBriefID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyBriefUserID
	}

	if b.SourceText == "" {
		return ErrEmptyBriefSourceText
	}

	return nil
}
