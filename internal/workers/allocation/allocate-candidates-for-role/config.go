// internal/workers/allocation/allocate-candidates-for-role/config.go
package allocatecandidatesforrole

import "time"

type Config struct {
	Timeout          time.Duration
	DefaultBatchSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          60 * time.Second,
		DefaultBatchSize: 0,
	}
}
