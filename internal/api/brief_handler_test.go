package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/service"
	"github.com/phrazzld/studio-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBriefHandler(briefs *fakeBriefStore, parser *fakeBriefParser) *BriefHandler {
	briefService := service.NewBriefService(briefs, parser, testLogger())
	return NewBriefHandler(briefService)
}

func TestBriefHandler_ParseBrief(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns the stored brief with parsed fields", func(t *testing.T) {
		t.Parallel()

		parser := &fakeBriefParser{fields: domain.BriefFields{
			CampaignName:   "Fall Launch",
			ProductName:    "Espresso Maker",
			TargetAudience: "home baristas",
			KeyMessage:     "cafe quality at home",
			Tone:           "energetic",
			Channels:       []string{"email", "social"},
			Budget:         "$50k",
			Timeline:       "Q4",
			CallToAction:   "Pre-order now",
		}}
		handler := newBriefHandler(&fakeBriefStore{}, parser)

		body, _ := json.Marshal(ParseBriefRequest{
			SourceText: "Launch campaign for our new espresso maker this fall.",
		})
		req := authedRequest(http.MethodPost, "/api/brief/parse", bytes.NewReader(body), userID)
		rec := httptest.NewRecorder()
		handler.ParseBrief(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp BriefResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID.String(), resp.UserID)
		assert.Equal(t, "Fall Launch", resp.Fields.CampaignName)
		assert.Equal(t, []string{"email", "social"}, resp.Fields.Channels)
	})

	t.Run("empty source text is rejected", func(t *testing.T) {
		t.Parallel()

		handler := newBriefHandler(&fakeBriefStore{}, &fakeBriefParser{})

		req := authedRequest(http.MethodPost, "/api/brief/parse",
			bytes.NewReader([]byte(`{"source_text":""}`)), userID)
		rec := httptest.NewRecorder()
		handler.ParseBrief(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		handler := newBriefHandler(&fakeBriefStore{}, &fakeBriefParser{})

		req := httptest.NewRequest(http.MethodPost, "/api/brief/parse",
			bytes.NewReader([]byte(`{"source_text":"some text"}`)))
		rec := httptest.NewRecorder()
		handler.ParseBrief(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBriefHandler_GetBrief(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	brief, err := domain.NewCreativeBrief(owner, "launch text", domain.BriefFields{Channels: []string{}})
	require.NoError(t, err)

	briefs := &fakeBriefStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.CreativeBrief, error) {
			if id == brief.ID {
				return brief, nil
			}
			return nil, store.ErrBriefNotFound
		},
	}
	handler := newBriefHandler(briefs, &fakeBriefParser{})

	t.Run("owner can fetch the brief", func(t *testing.T) {
		t.Parallel()

		req := authedRequest(http.MethodGet, "/api/briefs/"+brief.ID.String(), nil, owner)
		rec := serve("/api/briefs/{id}", handler.GetBrief, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp BriefResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, brief.ID.String(), resp.ID)
	})

	t.Run("other users get not found", func(t *testing.T) {
		t.Parallel()

		req := authedRequest(http.MethodGet, "/api/briefs/"+brief.ID.String(), nil, uuid.New())
		rec := serve("/api/briefs/{id}", handler.GetBrief, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed IDs are rejected", func(t *testing.T) {
		t.Parallel()

		req := authedRequest(http.MethodGet, "/api/briefs/not-a-uuid", nil, owner)
		rec := serve("/api/briefs/{id}", handler.GetBrief, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBriefHandler_ListBriefs(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	first, err := domain.NewCreativeBrief(userID, "first brief", domain.BriefFields{Channels: []string{}})
	require.NoError(t, err)

	briefs := &fakeBriefStore{
		ListByUserFn: func(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*domain.CreativeBrief, error) {
			assert.Equal(t, userID, uid)
			return []*domain.CreativeBrief{first}, nil
		},
	}
	handler := newBriefHandler(briefs, &fakeBriefParser{})

	req := authedRequest(http.MethodGet, "/api/briefs", nil, userID)
	rec := httptest.NewRecorder()
	handler.ListBriefs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []BriefResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, first.ID.String(), resp[0].ID)
}
