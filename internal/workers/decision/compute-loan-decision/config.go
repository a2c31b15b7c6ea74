// internal/workers/decision/compute-loan-decision/config.go
package computeloandecision

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
