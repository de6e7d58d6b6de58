package postgresstore

import (
	"errors"
	"time"
)

var (
	// ErrNilDatabaseConnection occurs when a constructor receives a nil
	// database handle.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName occurs when a table name option receives an
	// empty string.
	ErrEmptyTableName = errors.New("table name must not be empty")
)

// Logger interface for SQL statement logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// config carries the settings shared by the package's constructors.
type config struct {
	idempotencyTableName string
	auditTableName       string
	logger               Logger
	clock                func() time.Time
}

func defaultConfig() config {
	return config{
		idempotencyTableName: defaultIdempotencyTableName,
		auditTableName:       defaultAuditTableName,
		clock:                time.Now,
	}
}

// Option defines a functional option for configuring the postgres stores.
type Option func(*config) error

// WithIdempotencyTableName sets the table name for idempotency records.
func WithIdempotencyTableName(tableName string) Option {
	return func(c *config) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		c.idempotencyTableName = tableName

		return nil
	}
}

// WithAuditTableName sets the table name for audit log entries.
func WithAuditTableName(tableName string) Option {
	return func(c *config) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		c.auditTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Error level: failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithClock sets the time source used for expiry comparisons.
// Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *config) error {
		c.clock = clock
		return nil
	}
}

func buildConfig(options ...Option) (config, error) {
	cfg := defaultConfig()

	for _, option := range options {
		if err := option(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}
