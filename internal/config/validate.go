package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	if len(c.Search.Nodes) == 0 {
		return errors.New("search.nodes must list at least one endpoint")
	}
	for _, node := range c.Search.Nodes {
		parsed, err := url.Parse(node)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("search.nodes entry %q is not a valid URL", node)
		}
	}
	if c.Search.Index == "" {
		return errors.New("search.index must be set")
	}
	if c.Search.BatchSize < 1 {
		return errors.New("search.batch_size must be positive")
	}
	if c.Search.PageSize < 1 {
		return errors.New("search.page_size must be positive")
	}
	if _, err := time.ParseDuration(c.Search.ScrollWindow); err != nil {
		return fmt.Errorf("search.scroll_window: %w", err)
	}
	if c.Search.MaxAttempts < 1 {
		return errors.New("search.max_attempts must be positive")
	}
	if c.Search.MaxInFlight < 1 {
		return errors.New("search.max_in_flight must be positive")
	}
	if c.Search.RequestTimeout < 1 {
		return errors.New("search.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.User == "" {
		return errors.New("database.user must be set")
	}
	if c.Database.Name == "" {
		return errors.New("database.name must be set")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return errors.New("database.port must be a valid TCP port")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
