package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"healthconnect-server/internal/triage"
	"healthconnect-server/internal/utils"
)

// Analyzer is the triage dependency. It never fails: degraded results are
// still valid results.
type Analyzer interface {
	AnalyzeSymptoms(ctx context.Context, symptoms string) triage.Result
}

// SymptomHandler handles symptom-check requests.
type SymptomHandler struct {
	Analyzer Analyzer
}

// NewSymptomHandler creates a new SymptomHandler.
func NewSymptomHandler(analyzer Analyzer) *SymptomHandler {
	return &SymptomHandler{Analyzer: analyzer}
}

// SymptomCheckRequest represents the request body for a symptom check.
type SymptomCheckRequest struct {
	Symptoms string `json:"symptoms" binding:"required,max=2000"`
}

// SymptomCheckResponse is the triage outcome returned to the client. The
// urgency and score are valid inputs for booking with fromSymptomChecker set.
type SymptomCheckResponse struct {
	Message           string  `json:"message"`
	SeverityScore     float64 `json:"severityScore"`
	Urgency           string  `json:"urgency"`
	RecommendedAction string  `json:"recommendedAction"`
}

// CheckSymptoms runs the one-shot triage call for the submitted symptoms.
func (h *SymptomHandler) CheckSymptoms(c *gin.Context) {
	var req SymptomCheckRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result := h.Analyzer.AnalyzeSymptoms(c.Request.Context(), req.Symptoms)

	utils.Success(c, "Symptom check completed", SymptomCheckResponse{
		Message:           result.FormattedMessage,
		SeverityScore:     result.SeverityScore,
		Urgency:           result.Urgency,
		RecommendedAction: result.RecommendedAction,
	})
}
