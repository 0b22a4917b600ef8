package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/generation"
	"github.com/phrazzld/studio-api/internal/task"
)

// ComplianceAdapter bridges the provider-level compliance review (raw
// findings with no persistence identity) to the task-level interface,
// which deals in domain violations bound to a content row.
type ComplianceAdapter struct {
	reviewer generation.ComplianceReviewer
	logger   *slog.Logger
}

var _ task.ComplianceReviewer = (*ComplianceAdapter)(nil)

// NewComplianceAdapter creates a new ComplianceAdapter.
func NewComplianceAdapter(reviewer generation.ComplianceReviewer, logger *slog.Logger) *ComplianceAdapter {
	return &ComplianceAdapter{
		reviewer: reviewer,
		logger:   logger.With("component", "compliance_adapter"),
	}
}

// ReviewCopy implements task.ComplianceReviewer. Findings that fail
// domain validation are dropped with a warning rather than failing the
// whole review.
func (a *ComplianceAdapter) ReviewCopy(
	ctx context.Context,
	contentID uuid.UUID,
	copy string,
) ([]*domain.ComplianceViolation, error) {
	findings, err := a.reviewer.ReviewCopy(ctx, copy)
	if err != nil {
		return nil, err
	}

	violations := make([]*domain.ComplianceViolation, 0, len(findings))
	for _, f := range findings {
		violation, err := domain.NewComplianceViolation(contentID, f.Rule, f.Severity, f.Excerpt)
		if err != nil {
			a.logger.WarnContext(ctx, "dropping invalid compliance finding",
				"content_id", contentID,
				"rule", f.Rule,
				"error", err)
			continue
		}
		violations = append(violations, violation)
	}

	return violations, nil
}
