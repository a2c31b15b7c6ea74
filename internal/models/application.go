// internal/models/application.go
package models

import (
	"context"
	"time"
)

// CustomerInfo holds the identity fields collected during a conversation.
// These never enter the scoring feature set.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// LoanApplication is the persisted record of one decided application.
type LoanApplication struct {
	ID              string                 `json:"id"`
	LoanType        string                 `json:"loanType"`
	SessionID       string                 `json:"sessionId"`
	Customer        CustomerInfo           `json:"customer"`
	LoanData        map[string]interface{} `json:"loanData"`
	Status          string                 `json:"status"`
	ApprovedAmount  int64                  `json:"approvedAmount"`
	RequestedAmount int64                  `json:"requestedAmount"`
	InterestRate    float64                `json:"interestRate"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ApplicationRepository defines the storage collaborator contract. Both
// operations are best effort from the engine's perspective: a failure is
// logged and must never block the user-facing response.
type ApplicationRepository interface {
	SaveApplication(ctx context.Context, app *LoanApplication) (string, error)
	GetApplicationBySession(ctx context.Context, loanType, sessionID string) (*LoanApplication, error)
}
