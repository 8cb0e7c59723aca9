// internal/workers/allocation/find-eligible-candidates/config.go
package findeligiblecandidates

import "time"

type Config struct {
	Timeout  time.Duration
	MaxLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		MaxLimit: 500,
	}
}
