package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/generation"
	"github.com/phrazzld/studio-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseBriefStoresResult(t *testing.T) {
	t.Parallel()

	briefStore := new(MockBriefStore)
	parser := new(MockBriefParser)
	svc := NewBriefService(briefStore, parser, testLogger())

	userID := uuid.New()
	fields := domain.BriefFields{CampaignName: "Spring Sale", Channels: []string{"email"}}

	parser.On("ParseBrief", mock.Anything, "run a spring sale").Return(fields, nil)
	briefStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.CreativeBrief")).Return(nil)

	brief, err := svc.ParseBrief(context.Background(), userID, "run a spring sale")
	require.NoError(t, err)
	assert.Equal(t, userID, brief.UserID)
	assert.Equal(t, "run a spring sale", brief.SourceText)
	assert.Equal(t, "Spring Sale", brief.Fields.CampaignName)
	briefStore.AssertExpectations(t)
}

func TestParseBriefGenerationErrorPassesThrough(t *testing.T) {
	t.Parallel()

	parser := new(MockBriefParser)
	svc := NewBriefService(new(MockBriefStore), parser, testLogger())

	parser.On("ParseBrief", mock.Anything, mock.Anything).
		Return(domain.BriefFields{}, generation.ErrContentBlocked)

	_, err := svc.ParseBrief(context.Background(), uuid.New(), "blocked text")
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
}

func TestParseBriefStoreFailure(t *testing.T) {
	t.Parallel()

	briefStore := new(MockBriefStore)
	parser := new(MockBriefParser)
	svc := NewBriefService(briefStore, parser, testLogger())

	parser.On("ParseBrief", mock.Anything, mock.Anything).Return(domain.BriefFields{}, nil)
	briefStore.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.ParseBrief(context.Background(), uuid.New(), "some campaign")
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "parse_brief", svcErr.Operation)
}

func TestGetBriefOwnership(t *testing.T) {
	t.Parallel()

	briefStore := new(MockBriefStore)
	svc := NewBriefService(briefStore, new(MockBriefParser), testLogger())

	owner := uuid.New()
	brief, err := domain.NewCreativeBrief(owner, "text", domain.BriefFields{})
	require.NoError(t, err)

	briefStore.On("GetByID", mock.Anything, brief.ID).Return(brief, nil)

	got, err := svc.GetBrief(context.Background(), owner, brief.ID)
	require.NoError(t, err)
	assert.Equal(t, brief.ID, got.ID)

	// Another user cannot see the brief, and cannot tell it exists.
	_, err = svc.GetBrief(context.Background(), uuid.New(), brief.ID)
	assert.ErrorIs(t, err, ErrBriefNotFound)
}

func TestGetBriefNotFound(t *testing.T) {
	t.Parallel()

	briefStore := new(MockBriefStore)
	svc := NewBriefService(briefStore, new(MockBriefParser), testLogger())

	briefID := uuid.New()
	briefStore.On("GetByID", mock.Anything, briefID).Return(nil, store.ErrBriefNotFound)

	_, err := svc.GetBrief(context.Background(), uuid.New(), briefID)
	assert.ErrorIs(t, err, ErrBriefNotFound)
}

func TestListBriefs(t *testing.T) {
	t.Parallel()

	briefStore := new(MockBriefStore)
	svc := NewBriefService(briefStore, new(MockBriefParser), testLogger())

	userID := uuid.New()
	briefStore.On("ListByUser", mock.Anything, userID, 20, 0).
		Return([]*domain.CreativeBrief{}, nil)

	briefs, err := svc.ListBriefs(context.Background(), userID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, briefs)
	assert.NotNil(t, briefs)
}
