// internal/loan/storage/elasticsearch.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "lending-workers/internal/common/errors"
	"lending-workers/internal/models"
)

// DecisionIndexer mirrors decided applications into Elasticsearch so the
// back office can search and aggregate them.
type DecisionIndexer struct {
	client *elasticsearch.Client
	index  string
	logger Logger
}

func NewDecisionIndexer(client *elasticsearch.Client, index string, logger Logger) *DecisionIndexer {
	if index == "" {
		index = "loan-applications"
	}
	return &DecisionIndexer{client: client, index: index, logger: logger}
}

type decisionDocument struct {
	ApplicationID   string                 `json:"application_id"`
	LoanType        string                 `json:"loan_type"`
	SessionID       string                 `json:"session_id"`
	CustomerName    string                 `json:"customer_name"`
	CustomerEmail   string                 `json:"customer_email"`
	Status          string                 `json:"status"`
	ApprovedAmount  int64                  `json:"approved_amount"`
	RequestedAmount int64                  `json:"requested_amount"`
	InterestRate    float64                `json:"interest_rate"`
	LoanData        map[string]interface{} `json:"loan_data"`
	CreatedAt       string                 `json:"created_at"`
}

func (d *DecisionIndexer) IndexDecision(ctx context.Context, app *models.LoanApplication) error {
	doc := decisionDocument{
		ApplicationID:   app.ID,
		LoanType:        app.LoanType,
		SessionID:       app.SessionID,
		CustomerName:    app.Customer.Name,
		CustomerEmail:   app.Customer.Email,
		Status:          app.Status,
		ApprovedAmount:  app.ApprovedAmount,
		RequestedAmount: app.RequestedAmount,
		InterestRate:    app.InterestRate,
		LoanData:        app.LoanData,
		CreatedAt:       app.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding decision document: %w", err)
	}

	res, err := d.client.Index(
		d.index,
		bytes.NewReader(payload),
		d.client.Index.WithDocumentID(app.ID),
		d.client.Index.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewIndexingFailedError(app.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewIndexingFailedError(app.ID, fmt.Errorf("%s", res.String()))
	}

	if d.logger != nil {
		d.logger.Info("decision indexed", map[string]interface{}{
			"applicationId": app.ID,
			"index":         d.index,
		})
	}
	return nil
}
