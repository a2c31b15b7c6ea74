// internal/workers/decision/compute-loan-decision/models.go
package computeloandecision

type Input struct {
	LoanType  string                 `json:"loanType"`
	SessionID string                 `json:"sessionId"`
	Profile   map[string]interface{} `json:"profile"`
}

type Output struct {
	Status          string  `json:"status"`
	ApprovedAmount  int64   `json:"approvedAmount"`
	RequestedAmount int64   `json:"requestedAmount"`
	InterestRate    float64 `json:"interestRate"`
	Message         string  `json:"message"`
}
