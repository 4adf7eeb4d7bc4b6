// Package triage converts free-text symptom descriptions into an urgency
// classification and a recommended next action, using an external AI text
// model. The model's output is untrusted free text that is expected, but not
// guaranteed, to contain a JSON object; everything here degrades to a fixed
// fallback instead of failing.
package triage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the normalized outcome of a symptom analysis. It is always
// well-formed, whatever the AI service returned.
type Result struct {
	SeverityScore     float64 `json:"severityScore"`
	Urgency           string  `json:"urgency"`
	RecommendedAction string  `json:"recommendedAction"`
	FormattedMessage  string  `json:"formattedMessage"`
}

// Fixed fallback values used whenever the AI output cannot be parsed or the
// service call fails. "Same Day" errs on the cautious side without paging
// anyone at 3am.
const (
	FallbackSeverityScore     = 5
	FallbackUrgency           = "Same Day"
	FallbackRecommendedAction = "Book an appointment soon"
)

// assessment mirrors the JSON object the model is asked to produce. Every
// field is optional; absent fields get defaults at the mapping step.
type assessment struct {
	SeverityScore      *float64 `json:"severity_score"`
	Urgency            string   `json:"urgency"`
	Assessment         string   `json:"assessment"`
	PossibleConditions []string `json:"possible_conditions"`
	SelfCareTips       []string `json:"self_care_tips"`
	WarningSigns       []string `json:"warning_signs"`
	RecommendedAction  string   `json:"recommended_action"`
	Disclaimer         string   `json:"disclaimer"`
}

// ParseResponse extracts the first {...} span from the raw model output and
// maps it into a Result. Malformed input never raises: no brace span or a
// JSON parse failure yields the fixed fallback result, with the original
// query and raw text echoed in the report.
func ParseResponse(query, raw string) Result {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return fallbackResult(query, raw)
	}

	var a assessment
	if err := json.Unmarshal([]byte(raw[start:end+1]), &a); err != nil {
		return fallbackResult(query, raw)
	}

	score := float64(0)
	if a.SeverityScore != nil {
		score = *a.SeverityScore
	}
	urgency := a.Urgency
	if urgency == "" {
		urgency = "Routine"
	}

	return Result{
		SeverityScore:     score,
		Urgency:           urgency,
		RecommendedAction: a.RecommendedAction,
		FormattedMessage:  formatReport(query, score, urgency, a),
	}
}

func fallbackResult(query, raw string) Result {
	var sb strings.Builder
	sb.WriteString("Symptom Assessment\n\n")
	sb.WriteString("Your symptoms: " + query + "\n\n")
	if strings.TrimSpace(raw) != "" {
		sb.WriteString(raw + "\n\n")
	}
	sb.WriteString("Recommendation: " + FallbackRecommendedAction + ".\n")
	sb.WriteString("If your symptoms worsen, seek medical care immediately.")

	return Result{
		SeverityScore:     FallbackSeverityScore,
		Urgency:           FallbackUrgency,
		RecommendedAction: FallbackRecommendedAction,
		FormattedMessage:  sb.String(),
	}
}

// formatReport builds the human-readable multi-section report from whatever
// fields the model actually filled in.
func formatReport(query string, score float64, urgency string, a assessment) string {
	var sb strings.Builder
	sb.WriteString("Symptom Assessment\n\n")
	sb.WriteString("Your symptoms: " + query + "\n\n")
	sb.WriteString(fmt.Sprintf("Severity: %g/10 (%s)\n\n", score, urgency))

	if a.Assessment != "" {
		sb.WriteString("Assessment:\n" + a.Assessment + "\n\n")
	}
	writeSection(&sb, "Possible conditions", a.PossibleConditions)
	writeSection(&sb, "Self-care tips", a.SelfCareTips)
	writeSection(&sb, "Warning signs - seek urgent care if you notice", a.WarningSigns)
	if a.RecommendedAction != "" {
		sb.WriteString("Recommended action: " + a.RecommendedAction + "\n\n")
	}
	if a.Disclaimer != "" {
		sb.WriteString(a.Disclaimer)
	} else {
		sb.WriteString("This is not a medical diagnosis. Always consult a qualified doctor.")
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")
}
