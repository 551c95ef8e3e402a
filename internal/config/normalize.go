package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSearch()
	c.normalizeDatabase()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Checkpoint.Path) == "" {
		c.Checkpoint.Path = defaultCheckpointPath
	}
	if c.Checkpoint.Path, err = ExpandPath(c.Checkpoint.Path); err != nil {
		return fmt.Errorf("checkpoint.path: %w", err)
	}
	if strings.TrimSpace(c.Logging.LogDir) == "" {
		c.Logging.LogDir = defaultLogDir
	}
	if c.Logging.LogDir, err = ExpandPath(c.Logging.LogDir); err != nil {
		return fmt.Errorf("logging.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSearch() {
	nodes := make([]string, 0, len(c.Search.Nodes))
	for _, node := range c.Search.Nodes {
		trimmed := strings.TrimRight(strings.TrimSpace(node), "/")
		if trimmed == "" {
			continue
		}
		nodes = append(nodes, trimmed)
	}
	c.Search.Nodes = nodes
	c.Search.Index = strings.TrimSpace(c.Search.Index)
	c.Search.MatchField = strings.TrimSpace(c.Search.MatchField)
	c.Search.IDField = strings.TrimSpace(c.Search.IDField)
	if c.Search.MatchField == "" {
		c.Search.MatchField = defaultMatchField
	}
	if c.Search.IDField == "" {
		c.Search.IDField = defaultIDField
	}
	if strings.TrimSpace(c.Search.ScrollWindow) == "" {
		c.Search.ScrollWindow = defaultScrollValue
	}
}

func (c *Config) normalizeDatabase() {
	c.Database.Host = strings.TrimSpace(c.Database.Host)
	c.Database.User = strings.TrimSpace(c.Database.User)
	c.Database.Name = strings.TrimSpace(c.Database.Name)
	if c.Database.Host == "" {
		c.Database.Host = defaultDatabaseHost
	}
	if c.Database.Port == 0 {
		c.Database.Port = defaultDatabasePort
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
