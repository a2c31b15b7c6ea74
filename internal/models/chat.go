// internal/models/chat.go
package models

import "time"

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Verdict statuses.
const (
	StatusApproved        = "APPROVED"
	StatusPartialApproval = "PARTIAL_APPROVAL"
)

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession identifies one ongoing conversation. The conversation is
// append-only; the profile is reset once a decision is reached so the same
// session can run a second application.
type ChatSession struct {
	ID           string                 `json:"id"`
	LoanType     string                 `json:"loanType"`
	Conversation []Message              `json:"conversation"`
	Profile      map[string]interface{} `json:"profile"`
	CreatedAt    time.Time              `json:"createdAt"`
	LastActivity time.Time              `json:"lastActivity"`
}

// Append adds a message to the conversation and bumps activity.
func (s *ChatSession) Append(role, content string) {
	s.Conversation = append(s.Conversation, Message{Role: role, Content: content})
	s.LastActivity = time.Now().UTC()
}

// LastAssistantMessage returns the most recent assistant turn, or "" when
// the assistant has not spoken yet.
func (s *ChatSession) LastAssistantMessage() string {
	for i := len(s.Conversation) - 1; i >= 0; i-- {
		if s.Conversation[i].Role == RoleAssistant {
			return s.Conversation[i].Content
		}
	}
	return ""
}

// ResetProfile clears collected fields while keeping the conversation.
func (s *ChatSession) ResetProfile() {
	s.Profile = make(map[string]interface{})
}

// IdleSince reports how long the session has been inactive.
func (s *ChatSession) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}

// Verdict is the result of decisioning one completed profile.
type Verdict struct {
	Status          string  `json:"status"`
	ApprovedAmount  int64   `json:"approvedAmount"`
	RequestedAmount int64   `json:"requestedAmount"`
	InterestRate    float64 `json:"interestRate"`
	Message         string  `json:"message"`
}
