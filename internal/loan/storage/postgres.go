// Package storage persists decided applications. Both operations are best
// effort from the conversation's point of view: the engine logs failures and
// still answers the user.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "lending-workers/internal/common/errors"
	"lending-workers/internal/models"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// PostgresRepository stores applications in the loan_applications table,
// with the full collected profile as a JSONB document.
type PostgresRepository struct {
	db     *sql.DB
	logger Logger
}

func NewPostgresRepository(db *sql.DB, logger Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

const insertApplication = `
	INSERT INTO loan_applications (
		id, loan_type, session_id,
		customer_name, customer_email, customer_phone,
		loan_data, status,
		approved_amount, requested_amount, interest_rate, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const selectApplicationBySession = `
	SELECT id, loan_type, session_id,
		customer_name, customer_email, customer_phone,
		loan_data, status,
		approved_amount, requested_amount, interest_rate, created_at
	FROM loan_applications
	WHERE loan_type = $1 AND session_id = $2
	ORDER BY created_at DESC
	LIMIT 1`

func (r *PostgresRepository) SaveApplication(ctx context.Context, app *models.LoanApplication) (string, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	loanData, err := json.Marshal(app.LoanData)
	if err != nil {
		return "", fmt.Errorf("encoding loan data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertApplication,
		app.ID, app.LoanType, app.SessionID,
		app.Customer.Name, app.Customer.Email, app.Customer.Phone,
		loanData, app.Status,
		app.ApprovedAmount, app.RequestedAmount, app.InterestRate, app.CreatedAt,
	)
	if err != nil {
		return "", apperrors.NewStorageFailedError(err)
	}

	if r.logger != nil {
		r.logger.Info("application stored", map[string]interface{}{
			"applicationId": app.ID,
			"loanType":      app.LoanType,
			"status":        app.Status,
		})
	}
	return app.ID, nil
}

// GetApplicationBySession returns the latest decided application for a
// session, or nil when there is none.
func (r *PostgresRepository) GetApplicationBySession(ctx context.Context, loanType, sessionID string) (*models.LoanApplication, error) {
	row := r.db.QueryRowContext(ctx, selectApplicationBySession, loanType, sessionID)

	var app models.LoanApplication
	var loanData []byte
	err := row.Scan(
		&app.ID, &app.LoanType, &app.SessionID,
		&app.Customer.Name, &app.Customer.Email, &app.Customer.Phone,
		&loanData, &app.Status,
		&app.ApprovedAmount, &app.RequestedAmount, &app.InterestRate, &app.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading application for session %s: %w", sessionID, err)
	}

	if len(loanData) > 0 {
		if err := json.Unmarshal(loanData, &app.LoanData); err != nil {
			return nil, fmt.Errorf("decoding loan data: %w", err)
		}
	}
	return &app, nil
}
