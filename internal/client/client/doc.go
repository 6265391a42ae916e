// Package client contains the client-side bindings to the outside world.
//
// RemoteStore is the contract of the GastroLog data service; HTTPClient is
// its JSON-over-HTTP implementation. Every call takes the caller's bearer
// token explicitly: an empty token fails fast with ErrNoToken and nothing is
// sent. Transport failures and 5xx responses surface as ErrUnavailable,
// 401/403 as ErrUnauthorized, so callers can branch with errors.Is.
//
// InitDatabase opens the local SQLite file and applies the embedded goose
// migrations.
package client
