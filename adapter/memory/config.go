package memory

import "time"

// Config controls the in-process coordinator.
type Config struct {
	// Document labels the coordinator in logs (default: "document").
	Document string
	// MaxTasksPerRun bounds how many tasks one RunPending call executes, so a
	// callback that keeps queuing entries cannot spin forever (default: 1024).
	MaxTasksPerRun int
	// SlowPass logs a warning when a delivery pass takes longer (default: 0 = off).
	SlowPass time.Duration
}

// Defaults returns the default Config.
func Defaults() Config {
	return Config{
		Document:       "document",
		MaxTasksPerRun: 1024,
	}
}

// ConfigFromMap converts a generic map into Config, falling back to Defaults.
func ConfigFromMap(cfg map[string]any) Config {
	c := Defaults()
	if v, ok := cfg["document"].(string); ok && v != "" {
		c.Document = v
	}
	switch v := cfg["max_tasks_per_run"].(type) {
	case int:
		c.MaxTasksPerRun = v
	case int64:
		c.MaxTasksPerRun = int(v)
	case float64:
		c.MaxTasksPerRun = int(v)
	}
	switch v := cfg["slow_pass"].(type) {
	case time.Duration:
		c.SlowPass = v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			c.SlowPass = d
		}
	}
	if c.MaxTasksPerRun < 1 {
		c.MaxTasksPerRun = 1
	}
	return c
}
