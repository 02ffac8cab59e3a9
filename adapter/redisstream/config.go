package redisstream

import (
	"fmt"
	"time"
)

// Config for the Redis Streams sink.
type Config struct {
	// Connection
	Addr          string
	Username      string
	Password      string
	DB            int
	TLS           bool
	TLSServerName string

	// Stream management
	Stream       string
	MaxLenApprox int64
	Codec        string

	// Publishing
	PublishTimeout time.Duration
	Async          bool
	Workers        int
	BufferSize     int
}

// Defaults returns a Config with production-safe defaults.
func Defaults() Config {
	return Config{
		Addr:           "127.0.0.1:6379",
		Stream:         "xintersect:entries",
		Codec:          "json",
		PublishTimeout: 2 * time.Second,
		Workers:        4,
		BufferSize:     1000,
	}
}

// Validate checks Config for production readiness.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr required")
	}
	if c.Stream == "" {
		return fmt.Errorf("config: stream required")
	}
	if c.Codec == "" {
		return fmt.Errorf("config: codec required")
	}
	if c.PublishTimeout <= 0 {
		return fmt.Errorf("config: publish_timeout must be > 0, got %v", c.PublishTimeout)
	}
	if c.Async && c.Workers < 1 {
		return fmt.Errorf("config: workers must be >= 1, got %d", c.Workers)
	}
	if c.Async && c.BufferSize < 1 {
		return fmt.Errorf("config: buffer_size must be >= 1, got %d", c.BufferSize)
	}
	return nil
}

// ConfigFromMap safely converts generic map to Config with defaults.
func ConfigFromMap(m map[string]any) Config {
	c := Defaults()

	if v, ok := m["addr"].(string); ok && v != "" {
		c.Addr = v
	}
	if v, ok := m["username"].(string); ok {
		c.Username = v
	}
	if v, ok := m["password"].(string); ok {
		c.Password = v
	}
	if v, ok := m["db"].(int); ok {
		c.DB = v
	}
	if v, ok := m["tls"].(bool); ok {
		c.TLS = v
	}
	if v, ok := m["tls_server_name"].(string); ok {
		c.TLSServerName = v
	}
	if v, ok := m["stream"].(string); ok && v != "" {
		c.Stream = v
	}
	switch v := m["max_len_approx"].(type) {
	case int:
		c.MaxLenApprox = int64(v)
	case int64:
		c.MaxLenApprox = v
	}
	if v, ok := m["codec"].(string); ok && v != "" {
		c.Codec = v
	}
	switch v := m["publish_timeout"].(type) {
	case time.Duration:
		if v > 0 {
			c.PublishTimeout = v
		}
	case string:
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.PublishTimeout = d
		}
	}
	if v, ok := m["async"].(bool); ok {
		c.Async = v
	}
	if v, ok := m["workers"].(int); ok && v > 0 {
		c.Workers = v
	}
	if v, ok := m["buffer_size"].(int); ok && v > 0 {
		c.BufferSize = v
	}

	return c
}
