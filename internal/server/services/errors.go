package services

import "errors"

var (
	ErrNoLogs        = errors.New("no logs in request")
	ErrMissingLogID  = errors.New("log id is required")
	ErrLogNotFound   = errors.New("log record not found")
	ErrInvalidRecord = errors.New("invalid log record")
)
