package triage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestAnalyzeSymptomsSuccess(t *testing.T) {
	gen := &stubGenerator{reply: `{"severity_score": 4, "urgency": "Non-Urgent", "recommended_action": "Rest"}`}
	client := NewClient(gen, 0, zap.NewNop())

	result := client.AnalyzeSymptoms(context.Background(), "sore throat")

	assert.Equal(t, float64(4), result.SeverityScore)
	assert.Equal(t, "Non-Urgent", result.Urgency)
	assert.Equal(t, "Rest", result.RecommendedAction)
	assert.True(t, strings.Contains(gen.prompt, "sore throat"), "prompt should embed the symptoms")
}

func TestAnalyzeSymptomsQuotaError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("googleapi: Error 429: quota exceeded for quota metric")}
	client := NewClient(gen, 0, zap.NewNop())

	result := client.AnalyzeSymptoms(context.Background(), "mild headache since this morning")

	require.Equal(t, float64(FallbackSeverityScore), result.SeverityScore)
	require.Equal(t, FallbackUrgency, result.Urgency)
	require.Equal(t, FallbackRecommendedAction, result.RecommendedAction)
	assert.Contains(t, result.FormattedMessage, "quota")
	assert.Contains(t, result.FormattedMessage, "mild headache since this morning")
}

func TestClassifyServiceError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"quota", errors.New("Error 429: resource exhausted"), "AI service quota exceeded"},
		{"model not found", errors.New("Error 404: model gemini-x not found"), "AI model temporarily unavailable"},
		{"auth", errors.New("API key not valid"), "AI service authentication failed"},
		{"permission", errors.New("Error 403: permission denied"), "AI service authentication failed"},
		{"generic", errors.New("connection reset by peer"), "AI service temporarily unavailable"},
		// Quota wins when multiple signals are present.
		{"priority", errors.New("quota exceeded for API key"), "AI service quota exceeded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyServiceError(tc.err))
		})
	}
}

func TestAnalyzeSymptomsNeverFails(t *testing.T) {
	// Garbage model output still yields a well-formed result.
	gen := &stubGenerator{reply: "```json\nnot even close\n```"}
	client := NewClient(gen, 5*time.Second, zap.NewNop())

	result := client.AnalyzeSymptoms(context.Background(), "chest tightness")

	assert.Equal(t, float64(FallbackSeverityScore), result.SeverityScore)
	assert.Equal(t, FallbackUrgency, result.Urgency)
	assert.NotEmpty(t, result.FormattedMessage)
}
