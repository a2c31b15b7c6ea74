// internal/workers/application/send-decision-notification/config.go
package senddecisionnotification

import "time"

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int

	EmailEnabled bool
	FromEmail    string

	SMSEnabled bool
	// SMS goes out for full approvals only; partial offers are negotiated
	// over email.
	SMSApprovedOnly bool
	SMSSenderID     string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         15 * time.Second,
		MaxJobsActive:   5,
		EmailEnabled:    true,
		SMSEnabled:      true,
		SMSApprovedOnly: true,
		SMSSenderID:     "LOANOFR",
	}
}
