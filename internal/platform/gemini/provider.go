package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/studio-api/internal/config"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/generation"
	"google.golang.org/genai"
)

// Provider implements the generation text interfaces (BriefParser,
// CopyGenerator, ComplianceReviewer, ChatResponder) using Google's
// Gemini API.
type Provider struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
	retry  generation.RetryConfig
}

// NewProvider creates a new Gemini provider from the LLM configuration.
func NewProvider(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ChatModel == "" {
		return nil, fmt.Errorf("%w: chat model cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Provider{
		logger: logger.With("component", "gemini_provider"),
		config: cfg,
		client: client,
		model:  cfg.ChatModel,
		retry: generation.RetryConfig{
			MaxRetries:       cfg.MaxRetries,
			BaseDelaySeconds: cfg.RetryDelaySeconds,
		},
	}, nil
}

// Compile-time interface checks
var (
	_ generation.BriefParser        = (*Provider)(nil)
	_ generation.CopyGenerator      = (*Provider)(nil)
	_ generation.ComplianceReviewer = (*Provider)(nil)
	_ generation.ChatResponder      = (*Provider)(nil)
)

// ParseBrief implements generation.BriefParser.
func (p *Provider) ParseBrief(ctx context.Context, sourceText string) (domain.BriefFields, error) {
	if strings.TrimSpace(sourceText) == "" {
		return domain.BriefFields{}, generation.ErrEmptySourceText
	}

	text, err := p.generateText(ctx, generation.BuildBriefParsePrompt(sourceText), true)
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

	text, err := p.generateText(ctx, generation.BuildCopyPrompt(brief, prompt), false)
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

	text, err := p.generateText(ctx, generation.BuildCompliancePrompt(copy), true)
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

	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(generation.ChatSystemPrompt, genai.RoleUser),
	}

	var reply string
	err := generation.WithRetry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
		if err != nil {
			return err
		}
		text, err := extractText(resp)
		if err != nil {
			return err
		}
		reply = text
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(reply), nil
}

// generateText runs a single-prompt completion with retry. When
// wantJSON is set, the model is constrained to a JSON response.
func (p *Provider) generateText(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	contents := genai.Text(prompt)

	var cfg *genai.GenerateContentConfig
	if wantJSON {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		}
	}

	var out string
	err := generation.WithRetry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
		if err != nil {
			return err
		}
		text, err := extractText(resp)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}

	return out, nil
}

// extractText pulls the generated text out of a response, mapping
// safety blocks and empty candidates onto the generation error taxonomy.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response stopped by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}

	return sb.String(), nil
}
