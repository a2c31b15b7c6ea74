// internal/workers/application/send-decision-notification/models.go
package senddecisionnotification

type Input struct {
	LoanType        string  `json:"loanType"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	Status          string  `json:"status"`
	ApprovedAmount  int64   `json:"approvedAmount"`
	InterestRate    float64 `json:"interestRate"`
	Message         string  `json:"message"`
}

type Output struct {
	EmailSent bool `json:"emailSent"`
	SMSSent   bool `json:"smsSent"`
}
