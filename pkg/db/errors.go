package db

import "errors"

// Connection errors.
var (
	ErrEmptyConnectionString    = errors.New("db: empty connection string")
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
)

// Migration errors.
var (
	ErrSetDialect      = errors.New("db: migration store setup failed")
	ErrApplyMigrations = errors.New("db: failed to apply migrations")
)
