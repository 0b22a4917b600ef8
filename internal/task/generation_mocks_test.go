package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func testTaskLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeContentService implements ContentService with function fields so
// tests can script each callback and record what was stored.
type fakeContentService struct {
	GetContentFn     func(ctx context.Context, contentID uuid.UUID) (*domain.GeneratedContent, error)
	MarkProcessingFn func(ctx context.Context, contentID uuid.UUID) error
	CompleteFn       func(ctx context.Context, contentID uuid.UUID, body string, violations []*domain.ComplianceViolation) error
	FailFn           func(ctx context.Context, contentID uuid.UUID) error

	markedProcessing bool
	failed           bool
	completedBody    string
	violations       []*domain.ComplianceViolation
}

func newFakeContentService(content *domain.GeneratedContent) *fakeContentService {
	svc := &fakeContentService{}
	svc.GetContentFn = func(ctx context.Context, contentID uuid.UUID) (*domain.GeneratedContent, error) {
		return content, nil
	}
	svc.MarkProcessingFn = func(ctx context.Context, contentID uuid.UUID) error {
		svc.markedProcessing = true
		return nil
	}
	svc.CompleteFn = func(ctx context.Context, contentID uuid.UUID, body string, violations []*domain.ComplianceViolation) error {
		svc.completedBody = body
		svc.violations = violations
		return nil
	}
	svc.FailFn = func(ctx context.Context, contentID uuid.UUID) error {
		svc.failed = true
		return nil
	}
	return svc
}

func (s *fakeContentService) GetContent(ctx context.Context, contentID uuid.UUID) (*domain.GeneratedContent, error) {
	return s.GetContentFn(ctx, contentID)
}

func (s *fakeContentService) MarkContentProcessing(ctx context.Context, contentID uuid.UUID) error {
	return s.MarkProcessingFn(ctx, contentID)
}

func (s *fakeContentService) CompleteContent(ctx context.Context, contentID uuid.UUID, body string, violations []*domain.ComplianceViolation) error {
	return s.CompleteFn(ctx, contentID, body, violations)
}

func (s *fakeContentService) FailContent(ctx context.Context, contentID uuid.UUID) error {
	return s.FailFn(ctx, contentID)
}

type fakeBriefReader struct {
	brief *domain.CreativeBrief
	err   error
}

func (r *fakeBriefReader) GetBrief(ctx context.Context, briefID uuid.UUID) (*domain.CreativeBrief, error) {
	return r.brief, r.err
}

type fakeCopyGenerator struct {
	copyText string
	err      error
}

func (g *fakeCopyGenerator) GenerateCopy(ctx context.Context, brief *domain.CreativeBrief, prompt string) (string, error) {
	return g.copyText, g.err
}

type fakeImageGenerator struct {
	url string
	err error
}

func (g *fakeImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return g.url, g.err
}

type fakeReviewer struct {
	violations []*domain.ComplianceViolation
	err        error
}

func (r *fakeReviewer) ReviewCopy(ctx context.Context, contentID uuid.UUID, copy string) ([]*domain.ComplianceViolation, error) {
	return r.violations, r.err
}

var errGenerationDown = errors.New("generation backend unavailable")

func testContent(t *testing.T, kind domain.ContentKind) *domain.GeneratedContent {
	t.Helper()
	content, err := domain.NewGeneratedContent(
		uuid.New(), uuid.New(), uuid.NullUUID{}, kind, "promote the fall launch")
	require.NoError(t, err)
	return content
}

func testBrief(t *testing.T) *domain.CreativeBrief {
	t.Helper()
	brief, err := domain.NewCreativeBrief(uuid.New(), "launch campaign for the new espresso maker", domain.BriefFields{
		CampaignName: "Fall Launch",
		ProductName:  "Espresso Maker",
		Tone:         "energetic",
		Channels:     []string{"email"},
	})
	require.NoError(t, err)
	return brief
}
