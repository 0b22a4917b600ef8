package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/studio-api/internal/domain"
)

// Prompt templates shared by the provider implementations. Structured
// prompts demand a bare JSON document so responses can be decoded
// without scraping.

const briefParseTemplate = `You are a marketing strategist. Extract the creative brief from the campaign text below.

Respond with a single JSON object using exactly these keys:
"campaign_name", "product_name", "target_audience", "key_message", "tone", "channels", "budget", "timeline", "call_to_action".

"channels" is an array of strings. Use an empty string (or empty array for channels) for anything the text does not state. Do not invent details. Respond with JSON only, no prose and no code fences.

Campaign text:
%s`

const copyGenerationTemplate = `You are a senior copywriter. Write marketing copy for the campaign described by this creative brief:

Campaign: %s
Product: %s
Target audience: %s
Key message: %s
Tone: %s
Channels: %s
Call to action: %s

Request from the user:
%s

Write the copy only. No preamble, no commentary.`

const complianceReviewTemplate = `You are a marketing compliance reviewer. Review the copy below for problematic claims: unsubstantiated superlatives, health or financial claims without evidence, missing disclaimers, guarantees, or misleading urgency.

Respond with a single JSON object of the form:
{"findings": [{"rule": "<short rule name>", "severity": "info"|"warning"|"critical", "excerpt": "<the offending phrase>"}]}

Return an empty findings array if the copy is clean. Respond with JSON only, no prose and no code fences.

Copy to review:
%s`

// ChatSystemPrompt frames the assistant persona for conversation turns.
const ChatSystemPrompt = `You are a helpful marketing assistant for a creative studio. You help users shape campaign ideas, refine briefs, and discuss their products and generated content. Keep answers concise and practical.`

// BuildBriefParsePrompt returns the prompt for extracting brief fields
// from free-form campaign text.
func BuildBriefParsePrompt(sourceText string) string {
	return fmt.Sprintf(briefParseTemplate, sourceText)
}

// BuildCopyPrompt returns the prompt for generating marketing copy
// from a brief and a user request.
func BuildCopyPrompt(brief *domain.CreativeBrief, userPrompt string) string {
	return fmt.Sprintf(copyGenerationTemplate,
		brief.Fields.CampaignName,
		brief.Fields.ProductName,
		brief.Fields.TargetAudience,
		brief.Fields.KeyMessage,
		brief.Fields.Tone,
		strings.Join(brief.Fields.Channels, ", "),
		brief.Fields.CallToAction,
		userPrompt,
	)
}

// BuildCompliancePrompt returns the prompt for reviewing generated copy.
func BuildCompliancePrompt(copy string) string {
	return fmt.Sprintf(complianceReviewTemplate, copy)
}

// briefFieldsSchema mirrors the JSON document the model is asked to
// produce when parsing a brief.
type briefFieldsSchema struct {
	CampaignName   string   `json:"campaign_name"`
	ProductName    string   `json:"product_name"`
	TargetAudience string   `json:"target_audience"`
	KeyMessage     string   `json:"key_message"`
	Tone           string   `json:"tone"`
	Channels       []string `json:"channels"`
	Budget         string   `json:"budget"`
	Timeline       string   `json:"timeline"`
	CallToAction   string   `json:"call_to_action"`
}

// DecodeBriefFields decodes the model's JSON into brief fields.
// Models occasionally wrap JSON in code fences despite instructions,
// so fences are stripped before decoding.
func DecodeBriefFields(text string) (domain.BriefFields, error) {
	var schema briefFieldsSchema
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &schema); err != nil {
		return domain.BriefFields{}, fmt.Errorf("%w: failed to parse JSON response: %v",
			ErrInvalidResponse, err)
	}

	fields := domain.BriefFields{
		CampaignName:   schema.CampaignName,
		ProductName:    schema.ProductName,
		TargetAudience: schema.TargetAudience,
		KeyMessage:     schema.KeyMessage,
		Tone:           schema.Tone,
		Channels:       schema.Channels,
		Budget:         schema.Budget,
		Timeline:       schema.Timeline,
		CallToAction:   schema.CallToAction,
	}
	if fields.Channels == nil {
		fields.Channels = []string{}
	}

	return fields, nil
}

// findingsSchema mirrors the JSON document the model is asked to
// produce when reviewing copy.
type findingsSchema struct {
	Findings []struct {
		Rule     string `json:"rule"`
		Severity string `json:"severity"`
		Excerpt  string `json:"excerpt"`
	} `json:"findings"`
}

// DecodeFindings decodes the model's review JSON into findings.
// Unknown severities are downgraded to info rather than rejected;
// findings without a rule name are dropped.
func DecodeFindings(text string) ([]Finding, error) {
	var schema findingsSchema
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &schema); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			ErrInvalidResponse, err)
	}

	findings := make([]Finding, 0, len(schema.Findings))
	for _, f := range schema.Findings {
		if f.Rule == "" {
			continue
		}

		severity := domain.ViolationSeverity(f.Severity)
		switch severity {
		case domain.SeverityInfo, domain.SeverityWarning, domain.SeverityCritical:
		default:
			severity = domain.SeverityInfo
		}

		findings = append(findings, Finding{
			Rule:     f.Rule,
			Severity: severity,
			Excerpt:  f.Excerpt,
		})
	}

	return findings, nil
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
