package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/api/shared"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/platform/logger"
	"github.com/phrazzld/studio-api/internal/service"
)

// GenerateContentRequest represents the request body for requesting
// copy or image generation against a brief.
type GenerateContentRequest struct {
	BriefID   string `json:"brief_id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"omitempty,uuid"`
	Prompt    string `json:"prompt" validate:"required,min=1"`
}

// Default SSE timing for the status stream.
const (
	ssePollInterval      = 2 * time.Second
	sseHeartbeatInterval = 15 * time.Second
)

// ContentHandler handles content generation API requests.
type ContentHandler struct {
	contentService *service.ContentService
	validator      *validator.Validate

	// SSE stream timing, overridable in tests.
	pollInterval      time.Duration
	heartbeatInterval time.Duration
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService:    contentService,
		validator:         validator.New(),
		pollInterval:      ssePollInterval,
		heartbeatInterval: sseHeartbeatInterval,
	}
}

// GenerateCopy handles POST /content/generate. The generation runs in
// a background task; the response is the pending content row with 202
// Accepted.
func (h *ContentHandler) GenerateCopy(w http.ResponseWriter, r *http.Request) {
	h.requestGeneration(w, r, h.contentService.RequestCopyGeneration)
}

// GenerateImage handles POST /images/generate, same contract as copy
// generation but the finished body holds a hosted image URL.
func (h *ContentHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	h.requestGeneration(w, r, h.contentService.RequestImageGeneration)
}

// generationFn matches the content service's request methods.
type generationFn func(
	ctx context.Context,
	userID, briefID uuid.UUID,
	productID uuid.NullUUID,
	prompt string,
) (*domain.GeneratedContent, error)

func (h *ContentHandler) requestGeneration(w http.ResponseWriter, r *http.Request, request generationFn) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	briefID, err := uuid.Parse(req.BriefID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid brief_id")
		return
	}

	var productID uuid.NullUUID
	if req.ProductID != "" {
		parsed, err := uuid.Parse(req.ProductID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid product_id")
			return
		}
		productID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	content, err := request(r.Context(), userID, briefID, productID, req.Prompt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, contentToResponse(content, nil))
}

// GetContent handles GET /content/{id}, returning the content row with
// any compliance violations attached.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	contentID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	content, violations, err := h.contentService.GetContentForUser(r.Context(), userID, contentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contentToResponse(content, violations))
}

// ListContent handles GET /content.
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, offset := getPagination(r)
	contents, err := h.contentService.ListContentForUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	responses := make([]ContentResponse, 0, len(contents))
	for _, content := range contents {
		responses = append(responses, contentToResponse(content, nil))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// StreamContentEvents handles GET /content/{id}/events as a
// Server-Sent Events stream. Each status change produces a "status"
// event carrying the content row as JSON; the stream closes after a
// terminal status is sent. Heartbeat comments keep intermediaries from
// timing out idle connections.
func (h *ContentHandler) StreamContentEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	contentID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	// Ownership check before switching to the event stream; after the
	// first write the response can no longer carry a JSON error.
	content, violations, err := h.contentService.GetContentForUser(r.Context(), userID, contentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	log := logger.FromContext(r.Context())
	lastStatus := content.Status

	writeStatusEvent(w, contentToResponse(content, violations))
	flusher.Flush()

	if content.IsTerminal() {
		return
	}

	pollTicker := time.NewTicker(h.pollInterval)
	defer pollTicker.Stop()
	heartbeatTicker := time.NewTicker(h.heartbeatInterval)
	defer heartbeatTicker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("content event stream closed by client", "content_id", contentID)
			return

		case <-heartbeatTicker.C:
			// Comment line per the SSE spec; clients ignore it.
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case <-pollTicker.C:
			content, violations, err := h.contentService.GetContentForUser(r.Context(), userID, contentID)
			if err != nil {
				log.Warn("content event stream poll failed",
					"content_id", contentID,
					"error", err)
				return
			}

			if content.Status == lastStatus {
				continue
			}
			lastStatus = content.Status

			writeStatusEvent(w, contentToResponse(content, violations))
			flusher.Flush()

			if content.IsTerminal() {
				return
			}
		}
	}
}

// writeStatusEvent writes a single SSE "status" event.
func writeStatusEvent(w http.ResponseWriter, resp ContentResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
}
