// Package models holds the server's storage and wire types.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrMissingID   = errors.New("record id is required")
	ErrInvalidDate = errors.New("invalid date")
)

// LogRecord is one meal as stored for a user. The wire shape matches the
// client's; UserID and ImageKey never leave the server.
//
// Life is passed through verbatim.
type LogRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"`
	Date        string          `json:"date"`
	Image       string          `json:"image,omitempty"`
	ImageKey    string          `json:"-"`
	Memo        string          `json:"memo,omitempty"`
	Ingredients []string        `json:"ingredients"`
	Life        json.RawMessage `json:"life,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// Validate checks what the database cannot: a non-empty id and a
// YYYY-MM-DD date.
func (r LogRecord) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}
	return nil
}

// Normalize fills the defaults a client may omit.
func (r *LogRecord) Normalize(now time.Time) {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if string(r.Life) == "null" {
		r.Life = nil
	}
}
