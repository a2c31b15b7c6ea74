// internal/loan/decision/engine.go
package decision

import (
	"context"
	"fmt"
	"math"

	"lending-workers/internal/common/metrics"
	"lending-workers/internal/loan/product"
	"lending-workers/internal/models"
)

// DefaultRequestedAmount applies when the profile somehow lacks the
// requested-amount field at decision time.
const DefaultRequestedAmount = 500000

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type Engine struct {
	scorer Scorer
	logger Logger
}

func NewEngine(scorer Scorer, logger Logger) *Engine {
	return &Engine{scorer: scorer, logger: logger}
}

// Decide scores a completed profile and compares the predicted eligible
// amount against what the applicant asked for. The eligible ceiling is never
// revealed: a full approval is granted at exactly the requested amount.
func (e *Engine) Decide(ctx context.Context, def *product.Definition, profile map[string]interface{}) (*models.Verdict, error) {
	vals := FieldValues(def, profile)
	features := def.BuildFeatures(vals)

	predicted, rate, err := e.scorer.Predict(ctx, def.Type, features)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("scoring failed", map[string]interface{}{
				"loanType": def.Type,
				"error":    err.Error(),
			})
		}
		return nil, fmt.Errorf("scoring %s application: %w", def.Type, err)
	}

	predicted, rate = def.Clamp(predicted, rate, vals)

	requested := product.CoerceNumeric(profile[def.AmountField])
	if requested <= 0 {
		requested = DefaultRequestedAmount
	}

	verdict := &models.Verdict{
		RequestedAmount: int64(math.Round(requested)),
		InterestRate:    math.Round(rate*100) / 100,
	}
	if predicted >= requested {
		verdict.Status = models.StatusApproved
		verdict.ApprovedAmount = verdict.RequestedAmount
	} else {
		verdict.Status = models.StatusPartialApproval
		verdict.ApprovedAmount = int64(math.Round(predicted))
	}
	verdict.Message = offerMessage(def, verdict)

	metrics.DecisionsIssued.WithLabelValues(def.Type, verdict.Status).Inc()
	if e.logger != nil {
		e.logger.Info("decision issued", map[string]interface{}{
			"loanType":       def.Type,
			"status":         verdict.Status,
			"approvedAmount": verdict.ApprovedAmount,
			"interestRate":   verdict.InterestRate,
		})
	}
	return verdict, nil
}

func offerMessage(def *product.Definition, v *models.Verdict) string {
	if v.Status == models.StatusApproved {
		return fmt.Sprintf(
			"Congratulations! Your %s of ₹%s has been approved at an interest rate of %.2f%% per annum.",
			def.DisplayName, formatINR(v.ApprovedAmount), v.InterestRate)
	}
	return fmt.Sprintf(
		"Based on your profile we can offer a %s of ₹%s against the requested ₹%s, at an interest rate of %.2f%% per annum.",
		def.DisplayName, formatINR(v.ApprovedAmount), formatINR(v.RequestedAmount), v.InterestRate)
}

// formatINR groups digits the Indian way: 12,34,567.
func formatINR(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	out := "," + s[len(s)-3:]
	s = s[:len(s)-3]
	for len(s) > 2 {
		out = "," + s[len(s)-2:] + out
		s = s[:len(s)-2]
	}
	return s + out
}
