// internal/workers/application/persist-application/models.go
package persistapplication

type Input struct {
	LoanType        string                 `json:"loanType"`
	SessionID       string                 `json:"sessionId"`
	CustomerName    string                 `json:"customerName"`
	CustomerEmail   string                 `json:"customerEmail"`
	CustomerPhone   string                 `json:"customerPhone"`
	LoanData        map[string]interface{} `json:"loanData"`
	Status          string                 `json:"status"`
	ApprovedAmount  int64                  `json:"approvedAmount"`
	RequestedAmount int64                  `json:"requestedAmount"`
	InterestRate    float64                `json:"interestRate"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Indexed       bool   `json:"indexed"`
}
