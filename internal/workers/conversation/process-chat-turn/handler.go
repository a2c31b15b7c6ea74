// internal/workers/conversation/process-chat-turn/handler.go
package processchatturn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"lending-workers/internal/loan/engine"
	"lending-workers/internal/loan/session"
)

const (
	TaskType = "process-chat-turn"
)

var (
	ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")
	ErrEmptyMessage    = errors.New("EMPTY_MESSAGE")
	ErrTurnFailed      = errors.New("TURN_FAILED")
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
		if errors.Is(err, ErrTurnFailed) {
			retries = 2
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrSessionNotFound)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrEmptyMessage)
	}

	result, err := h.controller.HandleTurn(ctx, input.SessionID, input.Message)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, input.SessionID)
		}
		return nil, fmt.Errorf("%w: %v", ErrTurnFailed, err)
	}

	h.logger.Info("turn processed", map[string]interface{}{
		"sessionId":    result.SessionID,
		"status":       result.Status,
		"missingCount": len(result.MissingFields),
	})

	return &Output{
		SessionID:     result.SessionID,
		Reply:         result.Reply,
		Status:        result.Status,
		MissingFields: result.MissingFields,
		Verdict:       result.Verdict,
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
	case errors.Is(err, ErrSessionNotFound):
		errorCode = "SESSION_NOT_FOUND"
	case errors.Is(err, ErrEmptyMessage):
		errorCode = "EMPTY_MESSAGE"
	case errors.Is(err, ErrTurnFailed):
		errorCode = "TURN_FAILED"
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
