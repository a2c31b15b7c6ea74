// internal/workers/decision/compute-loan-decision/handler.go
package computeloandecision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"lending-workers/internal/loan/decision"
	"lending-workers/internal/loan/product"
)

const (
	TaskType = "compute-loan-decision"
)

var (
	ErrUnknownProduct    = errors.New("UNKNOWN_PRODUCT")
	ErrIncompleteProfile = errors.New("INCOMPLETE_PROFILE")
	ErrScoringFailed     = errors.New("SCORING_FAILED")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	engine *decision.Engine
	logger Logger
}

func NewHandler(config *Config, engine *decision.Engine, log Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Errorf("parse input: %w", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		retries := int32(0)
		if errors.Is(err, ErrScoringFailed) {
			retries = 2
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	def, err := product.Get(input.LoanType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownProduct, err)
	}

	// Decisioning must never run on a partial profile.
	if missing := def.MissingFields(input.Profile); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteProfile, strings.Join(missing, ", "))
	}

	verdict, err := h.engine.Decide(ctx, def, input.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}

	h.logger.Info("decision computed", map[string]interface{}{
		"sessionId":      input.SessionID,
		"loanType":       def.Type,
		"status":         verdict.Status,
		"approvedAmount": verdict.ApprovedAmount,
	})

	return &Output{
		Status:          verdict.Status,
		ApprovedAmount:  verdict.ApprovedAmount,
		RequestedAmount: verdict.RequestedAmount,
		InterestRate:    verdict.InterestRate,
		Message:         verdict.Message,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, retries int32) {
	errorCode := "UNKNOWN_ERROR"
	switch {
	case errors.Is(err, ErrUnknownProduct):
		errorCode = "UNKNOWN_PRODUCT"
	case errors.Is(err, ErrIncompleteProfile):
		errorCode = "INCOMPLETE_PROFILE"
	case errors.Is(err, ErrScoringFailed):
		errorCode = "SCORING_FAILED"
	}

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
		"retries":   retries,
	})

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(err.Error()).
		Send(context.Background())
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
