package config

import "errors"

// Validation errors returned by Load.
var (
	ErrMissingJWTSecret     = errors.New("JWT_SECRET is required")
	ErrInvalidTokenDuration = errors.New("token duration must be positive")
	ErrUnsupportedDBType    = errors.New("unsupported database type")
	ErrMissingDSN           = errors.New("database DSN is required")
)
