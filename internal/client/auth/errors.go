package auth

import "errors"

var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrTokenExpired   = errors.New("access token expired")
	ErrRefreshFailed  = errors.New("token refresh failed")
	ErrMalformedToken = errors.New("malformed access token")
)
