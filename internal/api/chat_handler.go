package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/studio-api/internal/api/shared"
	"github.com/phrazzld/studio-api/internal/service"
)

// StartConversationRequest represents the request body for starting a
// conversation.
type StartConversationRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// SendMessageRequest represents the request body for a chat turn.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// ChatTurnResponse carries both sides of a completed chat turn.
type ChatTurnResponse struct {
	UserMessage      MessageResponse `json:"user_message"`
	AssistantMessage MessageResponse `json:"assistant_message"`
}

// ChatHandler handles conversation API requests.
type ChatHandler struct {
	chatService *service.ChatService
	validator   *validator.Validate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validator.New(),
	}
}

// StartConversation handles POST /conversations.
func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req StartConversationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	conv, err := h.chatService.StartConversation(r.Context(), userID, req.Title)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, conversationToResponse(conv))
}

// GetConversation handles GET /conversations/{id}.
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	conversationID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	conv, err := h.chatService.GetConversation(r.Context(), userID, conversationID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, conversationToResponse(conv))
}

// ListMessages handles GET /conversations/{id}/messages.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	conversationID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), userID, conversationID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, messageToResponse(msg))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// SendMessage handles POST /conversations/{id}/messages. The assistant
// reply is generated synchronously over the conversation history.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	conversationID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userMsg, assistantMsg, err := h.chatService.SendMessage(r.Context(), userID, conversationID, req.Text)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ChatTurnResponse{
		UserMessage:      messageToResponse(userMsg),
		AssistantMessage: messageToResponse(assistantMsg),
	})
}
