// internal/workers/allocation/allocate-candidates-for-project/config.go
package allocatecandidatesforproject

import "time"

type Config struct {
	Timeout          time.Duration
	DefaultBatchSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 300 * time.Second,
	}
}
