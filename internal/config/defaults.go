package config

import "time"

const (
	defaultIndex          = "resumes"
	defaultMatchField     = "resume"
	defaultIDField        = "candidateid"
	defaultBatchSize      = 50
	defaultPageSize       = 2000
	defaultScrollValue    = "5m"
	defaultScrollWindow   = 5 * time.Minute
	defaultMaxAttempts    = 5
	defaultMaxInFlight    = 20
	defaultRequestTimeout = 500

	defaultDatabaseHost = "localhost"
	defaultDatabasePort = 3306
	defaultMaxOpenConns = 0
	defaultMaxIdleConns = 2

	defaultWorkers = 100

	defaultCheckpointPath = "~/.local/share/groupmap/processed_groups.txt"

	defaultLogFormat = "auto"
	defaultLogLevel  = "info"
	defaultLogDir    = "~/.local/share/groupmap/logs"

	defaultMetricsBind = "127.0.0.1:9187"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Search: Search{
			Nodes:          []string{"http://localhost:9200"},
			Index:          defaultIndex,
			MatchField:     defaultMatchField,
			IDField:        defaultIDField,
			BatchSize:      defaultBatchSize,
			PageSize:       defaultPageSize,
			ScrollWindow:   defaultScrollValue,
			MaxAttempts:    defaultMaxAttempts,
			MaxInFlight:    defaultMaxInFlight,
			RequestTimeout: defaultRequestTimeout,
		},
		Database: Database{
			Host:         defaultDatabaseHost,
			Port:         defaultDatabasePort,
			MaxOpenConns: defaultMaxOpenConns,
			MaxIdleConns: defaultMaxIdleConns,
		},
		Pipeline: Pipeline{
			Workers: defaultWorkers,
		},
		Checkpoint: Checkpoint{
			Path: defaultCheckpointPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
		Metrics: Metrics{
			Enabled: false,
			Bind:    defaultMetricsBind,
		},
	}
}
