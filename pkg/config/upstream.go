package config

import (
	"fmt"
	"net/url"
	"time"
)

// UpstreamConfig describes the remote collection service the console talks to.
type UpstreamConfig struct {
	BaseURL string        `koanf:"baseUrl"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *UpstreamConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("upstream base URL is not configured")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid upstream base URL %q: %w", c.BaseURL, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid upstream timeout: %v", c.Timeout)
	}
	return nil
}
