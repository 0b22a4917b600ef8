package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ViolationSeverity grades how serious a flagged claim is
type ViolationSeverity string

// Possible violation severities
const (
	SeverityInfo     ViolationSeverity = "info"
	SeverityWarning  ViolationSeverity = "warning"
	SeverityCritical ViolationSeverity = "critical"
)

// Common validation errors for ComplianceViolation
var (
	ErrEmptyViolationID        = errors.New("violation ID cannot be empty")
	ErrEmptyViolationContentID = errors.New("violation content ID cannot be empty")
	ErrEmptyViolationRule      = errors.New("violation rule cannot be empty")
)

// ComplianceViolation records a claim in generated copy that the
// compliance review flagged against a rule (e.g. unsubstantiated health
// claims, missing disclaimers). Violations never block generation; they
// are attached to the content for the user to resolve.
type ComplianceViolation struct {
	ID        uuid.UUID         `json:"id"`
	ContentID uuid.UUID         `json:"content_id"`
	Rule      string            `json:"rule"`
	Severity  ViolationSeverity `json:"severity"`
	Excerpt   string            `json:"excerpt"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewComplianceViolation creates a new ComplianceViolation for the given
// content. Returns an error if validation fails.
func NewComplianceViolation(
	contentID uuid.UUID,
	rule string,
	severity ViolationSeverity,
	excerpt string,
) (*ComplianceViolation, error) {
	violation := &ComplianceViolation{
		ID:        uuid.New(),
		ContentID: contentID,
		Rule:      rule,
		Severity:  severity,
		Excerpt:   excerpt,
		CreatedAt: time.Now().UTC(),
	}

	if err := violation.Validate(); err != nil {
		return nil, err
	}

	return violation, nil
}

// Validate checks if the ComplianceViolation has valid data.
// Returns an error if any field fails validation.
func (v *ComplianceViolation) Validate() error {
	if v.ID == uuid.Nil {
		return ErrEmptyViolationID
	}

	if v.ContentID == uuid.Nil {
		return ErrEmptyViolationContentID
	}

	if v.Rule == "" {
		return ErrEmptyViolationRule
	}

	if !isValidSeverity(v.Severity) {
		return ErrInvalidSeverity
	}

	return nil
}

// isValidSeverity checks if the given severity is a valid ViolationSeverity.
func isValidSeverity(severity ViolationSeverity) bool {
	switch severity {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	default:
		return false
	}
}
