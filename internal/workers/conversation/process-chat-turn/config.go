// internal/workers/conversation/process-chat-turn/config.go
package processchatturn

import "time"

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

func LoadConfig() *Config {
	return &Config{
		// One turn may spend several seconds in the language model; the
		// deterministic path finishes in microseconds.
		Timeout:       20 * time.Second,
		MaxJobsActive: 20,
	}
}
