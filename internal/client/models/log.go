// Package models defines the client-side data model: food log records, the
// draft a capture flow produces, and the user's safe-list.
package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format of LogRecord.Date.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrEmptyDraft  = errors.New("record needs an image, a memo or ingredients")
)

// LifeData is the optional side channel captured with a meal. The sync
// core never looks inside it.
type LifeData struct {
	SleepTime    string `json:"sleepTime,omitempty"`
	SleepQuality string `json:"sleepQuality,omitempty"`
	Medication   string `json:"medication,omitempty"`
	Exercise     string `json:"exercise,omitempty"`
	Steps        string `json:"steps,omitempty"`
	Stress       *int   `json:"stress,omitempty"`
}

// LogRecord is one captured meal.
//
// Synced is a local-only tri-state: true once the record is confirmed on the
// server, false while an upload is pending, nil for legacy records written
// before the flag existed.
type LogRecord struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	Image       string     `json:"image,omitempty"`
	Memo        string     `json:"memo,omitempty"`
	Ingredients []string   `json:"ingredients"`
	Life        *LifeData  `json:"life,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Synced      *bool      `json:"synced,omitempty"`
}

// Draft is what the capture flow hands to the sync engine; the engine stamps
// ID, CreatedAt and the sync flag.
type Draft struct {
	Date        string
	Image       string
	Memo        string
	Ingredients []string
	Life        *LifeData
}

// Validate checks the date format and that the draft carries something.
func (d Draft) Validate() error {
	if !ValidDate(d.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, d.Date)
	}
	if d.Image == "" && d.Memo == "" && len(d.Ingredients) == 0 {
		return ErrEmptyDraft
	}
	return nil
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsUnsynced is true only for an explicit synced=false. Legacy records
// (nil flag) are not considered pending uploads.
func (r LogRecord) IsUnsynced() bool {
	return r.Synced != nil && !*r.Synced
}

// IsSynced is true only for an explicit synced=true.
func (r LogRecord) IsSynced() bool {
	return r.Synced != nil && *r.Synced
}

// WithSynced returns a copy with the sync flag set to v.
func (r LogRecord) WithSynced(v bool) LogRecord {
	c := r.Clone()
	c.Synced = &v
	return c
}

// StripImage returns a copy without the image payload.
func (r LogRecord) StripImage() LogRecord {
	c := r.Clone()
	c.Image = ""
	return c
}

// ForRemote returns a copy suitable for the wire: the local sync flag is
// dropped and ingredients are never null.
func (r LogRecord) ForRemote() LogRecord {
	c := r.Clone()
	c.Synced = nil
	if c.Ingredients == nil {
		c.Ingredients = []string{}
	}
	return c
}

// Clone deep-copies the record so snapshots handed to observers cannot
// alias engine state.
func (r LogRecord) Clone() LogRecord {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = append([]string(nil), r.Ingredients...)
	}
	if r.Life != nil {
		life := *r.Life
		if r.Life.Stress != nil {
			stress := *r.Life.Stress
			life.Stress = &stress
		}
		c.Life = &life
	}
	if r.UpdatedAt != nil {
		u := *r.UpdatedAt
		c.UpdatedAt = &u
	}
	if r.Synced != nil {
		s := *r.Synced
		c.Synced = &s
	}
	return c
}

// CloneAll deep-copies a collection.
func CloneAll(records []LogRecord) []LogRecord {
	out := make([]LogRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
