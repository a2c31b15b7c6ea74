// internal/workers/conversation/generate-greeting/models.go
package generategreeting

type Input struct {
	LoanType string `json:"loanType"`
}

type Output struct {
	SessionID string `json:"sessionId"`
	LoanType  string `json:"loanType"`
	Greeting  string `json:"greeting"`
}
