// internal/workers/conversation/generate-greeting/config.go
package generategreeting

import "time"

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       15 * time.Second,
		MaxJobsActive: 10,
	}
}
