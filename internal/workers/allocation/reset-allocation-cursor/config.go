// internal/workers/allocation/reset-allocation-cursor/config.go
package resetallocationcursor

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
