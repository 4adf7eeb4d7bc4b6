package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseValidJSON(t *testing.T) {
	raw := "Here is my assessment:\n" +
		`{"severity_score": 7, "urgency": "Urgent", "assessment": "Likely migraine",` +
		`"possible_conditions": ["Migraine", "Tension headache"],` +
		`"self_care_tips": ["Rest in a dark room"],` +
		`"warning_signs": ["Sudden severe headache"],` +
		`"recommended_action": "See a doctor within 24 hours",` +
		`"disclaimer": "Not a diagnosis."}` +
		"\nTake care!"

	result := ParseResponse("bad headache", raw)

	assert.Equal(t, float64(7), result.SeverityScore)
	assert.Equal(t, "Urgent", result.Urgency)
	assert.Equal(t, "See a doctor within 24 hours", result.RecommendedAction)
	assert.Contains(t, result.FormattedMessage, "bad headache")
	assert.Contains(t, result.FormattedMessage, "Likely migraine")
	assert.Contains(t, result.FormattedMessage, "Migraine")
	assert.Contains(t, result.FormattedMessage, "Rest in a dark room")
	assert.Contains(t, result.FormattedMessage, "Sudden severe headache")
	assert.Contains(t, result.FormattedMessage, "Not a diagnosis.")
}

func TestParseResponseSeverityIsExact(t *testing.T) {
	// The numeric field passes through untouched, no rounding or clamping.
	raw := `{"severity_score": 3.5, "urgency": "Non-Urgent"}`
	result := ParseResponse("cough", raw)
	assert.Equal(t, 3.5, result.SeverityScore)
}

func TestParseResponseDefaultsMissingFields(t *testing.T) {
	result := ParseResponse("cough", `{"assessment": "Mild viral infection"}`)

	assert.Equal(t, float64(0), result.SeverityScore)
	assert.Equal(t, "Routine", result.Urgency)
	assert.Equal(t, "", result.RecommendedAction)
	assert.Contains(t, result.FormattedMessage, "Mild viral infection")
}

func TestParseResponseFallback(t *testing.T) {
	cases := map[string]string{
		"empty string":     "",
		"plain prose":      "I am sorry, I cannot assess these symptoms.",
		"malformed braces": "{severity_score: not json}",
		"only open brace":  "text with { and no close",
		"only close brace": "} text",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			result := ParseResponse("dizzy spells", raw)

			require.Equal(t, float64(FallbackSeverityScore), result.SeverityScore)
			require.Equal(t, FallbackUrgency, result.Urgency)
			require.Equal(t, FallbackRecommendedAction, result.RecommendedAction)
			assert.Contains(t, result.FormattedMessage, "dizzy spells")
			if raw != "" {
				assert.Contains(t, result.FormattedMessage, raw)
			}
		})
	}
}

func TestParseResponseGreedySpan(t *testing.T) {
	// The span runs from the first "{" to the last "}". Two separate objects
	// therefore form one invalid span and degrade to the fallback.
	raw := `{"severity_score": 2} noise {"severity_score": 9}`
	result := ParseResponse("rash", raw)
	assert.Equal(t, float64(FallbackSeverityScore), result.SeverityScore)
	assert.Equal(t, FallbackUrgency, result.Urgency)
}
