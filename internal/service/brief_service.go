package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/generation"
	"github.com/phrazzld/studio-api/internal/store"
)

// BriefService turns free-form campaign descriptions into structured
// creative briefs and manages their persistence. Parsing runs
// synchronously: a brief is small enough that the caller waits for the
// LLM round trip.
type BriefService struct {
	briefStore store.BriefStore
	parser     generation.BriefParser
	logger     *slog.Logger
}

// NewBriefService creates a new BriefService.
func NewBriefService(
	briefStore store.BriefStore,
	parser generation.BriefParser,
	logger *slog.Logger,
) *BriefService {
	return &BriefService{
		briefStore: briefStore,
		parser:     parser,
		logger:     logger.With("component", "brief_service"),
	}
}

// ParseBrief extracts structured campaign fields from the source text
// and stores the resulting brief for the user. Generation-layer errors
// (generation.ErrContentBlocked and friends) pass through for the
// handler to map.
func (s *BriefService) ParseBrief(ctx context.Context, userID uuid.UUID, sourceText string) (*domain.CreativeBrief, error) {
	fields, err := s.parser.ParseBrief(ctx, sourceText)
	if err != nil {
		return nil, err
	}

	brief, err := domain.NewCreativeBrief(userID, sourceText, fields)
	if err != nil {
		return nil, err
	}

	if err := s.briefStore.Create(ctx, brief); err != nil {
		return nil, newServiceError("parse_brief", "failed to store brief", err)
	}

	s.logger.InfoContext(ctx, "brief parsed and stored",
		"brief_id", brief.ID,
		"user_id", userID,
		"campaign_name", brief.Fields.CampaignName)
	return brief, nil
}

// GetBrief retrieves a brief owned by the given user.
// Returns ErrBriefNotFound when the brief is missing or belongs to
// another user; ownership failures are not distinguishable to callers.
func (s *BriefService) GetBrief(ctx context.Context, userID, briefID uuid.UUID) (*domain.CreativeBrief, error) {
	brief, err := s.briefStore.GetByID(ctx, briefID)
	if err != nil {
		if errors.Is(err, store.ErrBriefNotFound) {
			return nil, ErrBriefNotFound
		}
		return nil, newServiceError("get_brief", "failed to retrieve brief", err)
	}

	if brief.UserID != userID {
		return nil, ErrBriefNotFound
	}

	return brief, nil
}

// ListBriefs retrieves the user's briefs, newest first.
func (s *BriefService) ListBriefs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.CreativeBrief, error) {
	briefs, err := s.briefStore.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, newServiceError("list_briefs", "failed to list briefs", err)
	}
	return briefs, nil
}
