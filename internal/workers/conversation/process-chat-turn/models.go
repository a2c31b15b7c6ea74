// internal/workers/conversation/process-chat-turn/models.go
package processchatturn

import "lending-workers/internal/models"

type Input struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type Output struct {
	SessionID     string          `json:"sessionId"`
	Reply         string          `json:"reply"`
	Status        string          `json:"status"`
	MissingFields []string        `json:"missingFields,omitempty"`
	Verdict       *models.Verdict `json:"verdict,omitempty"`
}
