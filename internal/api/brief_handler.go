package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/studio-api/internal/api/shared"
	"github.com/phrazzld/studio-api/internal/service"
)

// ParseBriefRequest represents the request body for parsing a brief.
type ParseBriefRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1"`
}

// BriefHandler handles creative-brief API requests.
type BriefHandler struct {
	briefService *service.BriefService
	validator    *validator.Validate
}

// NewBriefHandler creates a new BriefHandler.
func NewBriefHandler(briefService *service.BriefService) *BriefHandler {
	return &BriefHandler{
		briefService: briefService,
		validator:    validator.New(),
	}
}

// ParseBrief handles POST /brief/parse. The LLM round trip runs
// synchronously; the parsed and stored brief comes back in the response.
func (h *BriefHandler) ParseBrief(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ParseBriefRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	brief, err := h.briefService.ParseBrief(r.Context(), userID, req.SourceText)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, briefToResponse(brief))
}

// GetBrief handles GET /briefs/{id}.
func (h *BriefHandler) GetBrief(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	briefID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	brief, err := h.briefService.GetBrief(r.Context(), userID, briefID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, briefToResponse(brief))
}

// ListBriefs handles GET /briefs.
func (h *BriefHandler) ListBriefs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, offset := getPagination(r)
	briefs, err := h.briefService.ListBriefs(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	responses := make([]BriefResponse, 0, len(briefs))
	for _, brief := range briefs {
		responses = append(responses, briefToResponse(brief))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
