package safelist

import "context"

type Repository interface {
	Get(ctx context.Context, userID string) ([]string, error)
	// Replace swaps the user's whole list; run it inside a transaction.
	Replace(ctx context.Context, userID string, items []string) error
}
