package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/phrazzld/studio-api/internal/config"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/generation"
)

// Provider implements the full set of generation interfaces using the
// OpenAI-compatible chat completions and image generation endpoints.
type Provider struct {
	logger     *slog.Logger
	tp         transport
	chatModel  string
	imageModel string
	retry      generation.RetryConfig
}

// NewProvider creates a new OpenAI provider from the LLM configuration.
// With UseAzureIdentity set, requests authenticate through the Azure
// default credential chain instead of the API key; Endpoint should then
// point at the Azure OpenAI deployment.
func NewProvider(logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.ChatModel == "" {
		return nil, fmt.Errorf("%w: chat model cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ImageModel == "" {
		return nil, fmt.Errorf("%w: image model cannot be empty", generation.ErrInvalidConfig)
	}

	var tp transport
	if cfg.UseAzureIdentity {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to build azure credential: %v",
				generation.ErrInvalidConfig, err)
		}
		tp = newHTTPTransport("", cfg.Endpoint, cred, nil)
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: API key cannot be empty without azure identity",
				generation.ErrInvalidConfig)
		}
		tp = newHTTPTransport(cfg.APIKey, cfg.Endpoint, nil, nil)
	}

	return &Provider{
		logger:     logger.With("component", "openai_provider"),
		tp:         tp,
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		retry: generation.RetryConfig{
			MaxRetries:       cfg.MaxRetries,
			BaseDelaySeconds: cfg.RetryDelaySeconds,
		},
	}, nil
}

// newWithTransport creates a Provider with a custom transport (for testing).
func newWithTransport(tp transport, logger *slog.Logger, chatModel, imageModel string) *Provider {
	return &Provider{
		logger:     logger,
		tp:         tp,
		chatModel:  chatModel,
		imageModel: imageModel,
		retry:      generation.RetryConfig{MaxRetries: 0, BaseDelaySeconds: 1},
	}
}

// Compile-time interface checks
var (
	_ generation.BriefParser        = (*Provider)(nil)
	_ generation.CopyGenerator      = (*Provider)(nil)
	_ generation.ImageGenerator     = (*Provider)(nil)
	_ generation.ComplianceReviewer = (*Provider)(nil)
	_ generation.ChatResponder      = (*Provider)(nil)
)

// chatMessage is a single turn in a chat completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat constrains the model output shape.
type responseFormat struct {
	Type string `json:"type"`
}

// chatRequest is the body for POST /chat/completions.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatResponse is the relevant subset of a chat completions response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// imageRequest is the body for POST /images/generations.
type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

// imageResponse is the relevant subset of an image generation response.
type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// ParseBrief implements generation.BriefParser.
func (p *Provider) ParseBrief(ctx context.Context, sourceText string) (domain.BriefFields, error) {
	if strings.TrimSpace(sourceText) == "" {
		return domain.BriefFields{}, generation.ErrEmptySourceText
	}

	text, err := p.complete(ctx, []chatMessage{
		{Role: "user", Content: generation.BuildBriefParsePrompt(sourceText)},
	}, true)
	if err != nil {
		return domain.BriefFields{}, err
	}

	fields, err := generation.DecodeBriefFields(text)
	if err != nil {
		return domain.BriefFields{}, err
	}

	p.logger.InfoContext(ctx, "brief parsed",
		"campaign_name", fields.CampaignName,
		"channel_count", len(fields.Channels))
	return fields, nil
}

// GenerateCopy implements generation.CopyGenerator.
func (p *Provider) GenerateCopy(ctx context.Context, brief *domain.CreativeBrief, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", generation.ErrEmptyPrompt
	}

	text, err := p.complete(ctx, []chatMessage{
		{Role: "user", Content: generation.BuildCopyPrompt(brief, prompt)},
	}, false)
	if err != nil {
		return "", err
	}

	copyText := strings.TrimSpace(text)
	if copyText == "" {
		return "", fmt.Errorf("%w: empty copy in response", generation.ErrInvalidResponse)
	}

	return copyText, nil
}

// ReviewCopy implements generation.ComplianceReviewer.
func (p *Provider) ReviewCopy(ctx context.Context, copy string) ([]generation.Finding, error) {
	if strings.TrimSpace(copy) == "" {
		return []generation.Finding{}, nil
	}

	text, err := p.complete(ctx, []chatMessage{
		{Role: "user", Content: generation.BuildCompliancePrompt(copy)},
	}, true)
	if err != nil {
		return nil, err
	}

	findings, err := generation.DecodeFindings(text)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "compliance review completed",
		"finding_count", len(findings))
	return findings, nil
}

// Respond implements generation.ChatResponder.
func (p *Provider) Respond(ctx context.Context, messages []*domain.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", generation.ErrEmptyPrompt
	}

	chat := make([]chatMessage, 0, len(messages)+1)
	chat = append(chat, chatMessage{Role: "system", Content: generation.ChatSystemPrompt})
	for _, msg := range messages {
		role := "user"
		if msg.Role == domain.RoleAssistant {
			role = "assistant"
		}
		chat = append(chat, chatMessage{Role: role, Content: msg.Text})
	}

	text, err := p.complete(ctx, chat, false)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// GenerateImage implements generation.ImageGenerator.
func (p *Provider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", generation.ErrEmptyPrompt
	}

	req := imageRequest{
		Model:          p.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "url",
	}

	var url string
	err := generation.WithRetry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		resp, err := p.tp.do(ctx, http.MethodPost, "/images/generations", req)
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read response body: %v", generation.ErrTransientFailure, err)
		}

		var parsed imageResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("%w: parse response: %v", generation.ErrInvalidResponse, err)
		}

		if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
			return fmt.Errorf("%w: no image in response", generation.ErrInvalidResponse)
		}

		url = parsed.Data[0].URL
		return nil
	})
	if err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "image generated", "model", p.imageModel)
	return url, nil
}

// complete runs a chat completion with retry. When wantJSON is set,
// the model is constrained to a JSON object response.
func (p *Provider) complete(ctx context.Context, messages []chatMessage, wantJSON bool) (string, error) {
	req := chatRequest{
		Model:    p.chatModel,
		Messages: messages,
	}
	if wantJSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out string
	err := generation.WithRetry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		resp, err := p.tp.do(ctx, http.MethodPost, "/chat/completions", req)
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read response body: %v", generation.ErrTransientFailure, err)
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("%w: parse response: %v", generation.ErrInvalidResponse, err)
		}

		if len(parsed.Choices) == 0 {
			return fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
		}

		choice := parsed.Choices[0]
		if choice.FinishReason == "content_filter" {
			return fmt.Errorf("%w: response stopped by content filter", generation.ErrContentBlocked)
		}

		if choice.Message.Content == "" {
			return fmt.Errorf("%w: empty message content", generation.ErrInvalidResponse)
		}

		out = choice.Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}

	return out, nil
}
