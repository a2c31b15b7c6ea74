// internal/workers/conversation/generate-greeting/handler.go
package generategreeting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"lending-workers/internal/loan/engine"
	"lending-workers/internal/loan/product"
)

const (
	TaskType = "generate-greeting"
)

var (
	ErrUnknownProduct     = errors.New("UNKNOWN_PRODUCT")
	ErrSessionStoreFailed = errors.New("SESSION_STORE_FAILED")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config     *Config
	controller *engine.Controller
	logger     Logger
}

func NewHandler(config *Config, controller *engine.Controller, log Logger) *Handler {
	return &Handler{
		config:     config,
		controller: controller,
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
		if errors.Is(err, ErrSessionStoreFailed) {
			retries = 2
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	loanType := strings.TrimSpace(input.LoanType)
	if loanType == "" {
		return nil, fmt.Errorf("%w: loanType is required", ErrUnknownProduct)
	}

	sess, greeting, err := h.controller.StartSession(ctx, loanType)
	if err != nil {
		if errors.Is(err, product.ErrUnknownProduct) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownProduct, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
	}

	h.logger.Info("session opened", map[string]interface{}{
		"sessionId": sess.ID,
		"loanType":  sess.LoanType,
	})

	return &Output{
		SessionID: sess.ID,
		LoanType:  sess.LoanType,
		Greeting:  greeting,
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
	if errors.Is(err, ErrUnknownProduct) {
		errorCode = "UNKNOWN_PRODUCT"
	} else if errors.Is(err, ErrSessionStoreFailed) {
		errorCode = "SESSION_STORE_FAILED"
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
