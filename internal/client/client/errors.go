package client

import "errors"

var (
	ErrNoToken      = errors.New("no access token")
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRejected     = errors.New("request rejected")
)
