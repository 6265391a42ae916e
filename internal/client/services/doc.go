// Package services contains the client's application services: the
// safe-list, meal analysis and the sign-in session that ties the token
// provider to the sync engine.
package services
