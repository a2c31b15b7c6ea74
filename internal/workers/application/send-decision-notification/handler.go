// internal/workers/application/send-decision-notification/handler.go
package senddecisionnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"lending-workers/internal/models"
)

const (
	TaskType = "send-decision-notification"
)

var (
	ErrInvalidInput       = errors.New("INVALID_INPUT")
	ErrNotificationFailed = errors.New("NOTIFICATION_FAILED")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// EmailAPI and SMSAPI match the thin AWS client wrappers so tests can fake
// the transport.
type EmailAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SMSAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	email  EmailAPI
	sms    SMSAPI
	logger Logger
}

func NewHandler(config *Config, email EmailAPI, sms SMSAPI, log Logger) *Handler {
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
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
		if errors.Is(err, ErrNotificationFailed) {
			retries = 2
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.CustomerEmail) == "" && strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, fmt.Errorf("%w: neither email nor phone provided", ErrInvalidInput)
	}
	if input.Message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	output := &Output{}
	var attempts, failures int

	if h.config.EmailEnabled && h.email != nil && input.CustomerEmail != "" {
		attempts++
		if err := h.sendEmail(ctx, input); err != nil {
			failures++
			h.logger.Warn("email delivery failed", map[string]interface{}{
				"to":    input.CustomerEmail,
				"error": err.Error(),
			})
		} else {
			output.EmailSent = true
		}
	}

	if h.smsWanted(input) {
		attempts++
		if err := h.sendSMS(ctx, input); err != nil {
			failures++
			h.logger.Warn("sms delivery failed", map[string]interface{}{
				"to":    input.CustomerPhone,
				"error": err.Error(),
			})
		} else {
			output.SMSSent = true
		}
	}

	// Partial delivery completes the job; only a full miss is retried.
	if attempts > 0 && failures == attempts {
		return nil, fmt.Errorf("%w: all %d channels failed", ErrNotificationFailed, attempts)
	}

	h.logger.Info("notification dispatched", map[string]interface{}{
		"emailSent": output.EmailSent,
		"smsSent":   output.SMSSent,
		"status":    input.Status,
	})
	return output, nil
}

func (h *Handler) smsWanted(input *Input) bool {
	if !h.config.SMSEnabled || h.sms == nil || input.CustomerPhone == "" {
		return false
	}
	if h.config.SMSApprovedOnly && input.Status != models.StatusApproved {
		return false
	}
	return true
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) error {
	subject := fmt.Sprintf("Your %s loan application decision", input.LoanType)
	body := fmt.Sprintf("Dear %s,\n\n%s\n\nRegards,\nThe Lending Team",
		displayName(input.CustomerName), input.Message)

	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{input.CustomerEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) error {
	text := fmt.Sprintf("Your %s loan of INR %d is approved at %.2f%% p.a. Check your email for the offer.",
		input.LoanType, input.ApprovedAmount, input.InterestRate)

	_, err := h.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String("+91" + input.CustomerPhone),
		Message:     aws.String(text),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(h.config.SMSSenderID),
			},
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	return err
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Customer"
	}
	return name
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
	case errors.Is(err, ErrNotificationFailed):
		errorCode = "NOTIFICATION_FAILED"
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
