// internal/workers/application/persist-application/handler.go
package persistapplication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"lending-workers/internal/models"
)

const (
	TaskType = "persist-application"
)

var (
	ErrInvalidInput  = errors.New("INVALID_INPUT")
	ErrStorageFailed = errors.New("STORAGE_FAILED")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Indexer mirrors a stored application into the analytics index.
type Indexer interface {
	IndexDecision(ctx context.Context, app *models.LoanApplication) error
}

type Handler struct {
	config  *Config
	repo    models.ApplicationRepository
	indexer Indexer // nil disables indexing
	logger  Logger
}

func NewHandler(config *Config, repo models.ApplicationRepository, indexer Indexer, log Logger) *Handler {
	return &Handler{
		config:  config,
		repo:    repo,
		indexer: indexer,
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
		if errors.Is(err, ErrStorageFailed) {
			retries = 3
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.LoanType) == "" || strings.TrimSpace(input.SessionID) == "" {
		return nil, fmt.Errorf("%w: loanType and sessionId are required", ErrInvalidInput)
	}
	if input.Status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrInvalidInput)
	}

	app := &models.LoanApplication{
		LoanType:  input.LoanType,
		SessionID: input.SessionID,
		Customer: models.CustomerInfo{
			Name:  input.CustomerName,
			Email: input.CustomerEmail,
			Phone: input.CustomerPhone,
		},
		LoanData:        input.LoanData,
		Status:          input.Status,
		ApprovedAmount:  input.ApprovedAmount,
		RequestedAmount: input.RequestedAmount,
		InterestRate:    input.InterestRate,
	}

	id, err := h.repo.SaveApplication(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	// Indexing is best effort: the row is the record, the index is a copy.
	indexed := false
	if h.indexer != nil {
		if err := h.indexer.IndexDecision(ctx, app); err != nil {
			h.logger.Warn("indexing failed", map[string]interface{}{
				"applicationId": id,
				"error":         err.Error(),
			})
		} else {
			indexed = true
		}
	}

	h.logger.Info("application persisted", map[string]interface{}{
		"applicationId": id,
		"loanType":      input.LoanType,
		"indexed":       indexed,
	})

	return &Output{ApplicationID: id, Indexed: indexed}, nil
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
	case errors.Is(err, ErrInvalidInput):
		errorCode = "INVALID_INPUT"
	case errors.Is(err, ErrStorageFailed):
		errorCode = "STORAGE_FAILED"
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
