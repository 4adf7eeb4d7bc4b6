package triage

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TextGenerator is the single-shot completion dependency. The production
// implementation talks to Gemini; tests substitute a deterministic stub.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client issues one completion request per symptom check and always returns
// a usable Result. Service failures are absorbed here and never propagate
// to the caller; there is deliberately no retry, caching or deduplication.
type Client struct {
	gen     TextGenerator
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a triage client around the given generator. A zero
// timeout defaults to 12 seconds.
func NewClient(gen TextGenerator, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{gen: gen, timeout: timeout, logger: logger}
}

const promptTemplate = `You are a medical triage assistant. A patient describes their symptoms below.
Respond with a single JSON object, no markdown, with these fields:
"severity_score" (number 1-10), "urgency" (one of "Routine", "Non-Urgent", "Same Day", "Urgent", "Emergency"),
"assessment" (short plain-language summary), "possible_conditions" (array of strings),
"self_care_tips" (array of strings), "warning_signs" (array of strings),
"recommended_action" (one sentence), "disclaimer" (one sentence).

Patient symptoms: %SYMPTOMS%`

// AnalyzeSymptoms runs the one-shot triage call and normalizes the output.
// It never returns an error: parse failures and service failures both
// degrade to the fixed fallback values with an explanatory report.
func (c *Client) AnalyzeSymptoms(ctx context.Context, symptoms string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := strings.ReplaceAll(promptTemplate, "%SYMPTOMS%", symptoms)
	raw, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		reason := classifyServiceError(err)
		c.logger.Warn("symptom analysis degraded to fallback",
			zap.String("reason", reason),
			zap.Error(err))
		return serviceFailureResult(symptoms, reason)
	}

	return ParseResponse(symptoms, raw)
}

// classifyServiceError picks the user-visible message for an AI service
// failure. Matching is substring-based on the provider error text because the
// SDK does not expose a stable typed taxonomy for all of these. Priority
// order: quota, model not found, authentication, then generic.
func classifyServiceError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource exhausted"):
		return "AI service quota exceeded"
	case strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return "AI model temporarily unavailable"
	case strings.Contains(msg, "api key") || strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") || strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission"):
		return "AI service authentication failed"
	default:
		return "AI service temporarily unavailable"
	}
}

// serviceFailureResult is the canned result for a failed AI call: the same
// fixed numeric/urgency values as the parser fallback, with a report that
// embeds the classified failure message instead of model output.
func serviceFailureResult(query, reason string) Result {
	var sb strings.Builder
	sb.WriteString("Symptom Assessment\n\n")
	sb.WriteString("Your symptoms: " + query + "\n\n")
	sb.WriteString(reason + " - we could not run an automated assessment right now.\n\n")
	sb.WriteString("Recommendation: " + FallbackRecommendedAction + ".\n")
	sb.WriteString("If your symptoms worsen, seek medical care immediately.")

	return Result{
		SeverityScore:     FallbackSeverityScore,
		Urgency:           FallbackUrgency,
		RecommendedAction: FallbackRecommendedAction,
		FormattedMessage:  sb.String(),
	}
}
