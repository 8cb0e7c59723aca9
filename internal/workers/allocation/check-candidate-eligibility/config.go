// internal/workers/allocation/check-candidate-eligibility/config.go
package checkcandidateeligibility

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
