// Package common contains wire constants and error kinds shared by the
// GastroLog client and server.
package common

const (
	// AuthorizationHeader carries the identity provider's access token.
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)
