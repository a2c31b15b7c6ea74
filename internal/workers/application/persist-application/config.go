// internal/workers/application/persist-application/config.go
package persistapplication

import "time"

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		MaxJobsActive: 10,
	}
}
