package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     LogRecord
		wantErr error
	}{
		{"ok", LogRecord{ID: "a", Date: "2024-03-01"}, nil},
		{"missing id", LogRecord{Date: "2024-03-01"}, ErrMissingID},
		{"bad date", LogRecord{ID: "a", Date: "03/01/2024"}, ErrInvalidDate},
		{"empty date", LogRecord{ID: "a"}, ErrInvalidDate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLogRecord_Normalize(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	r := LogRecord{ID: "a", Life: json.RawMessage("null")}
	r.Normalize(now)
	assert.Equal(t, []string{}, r.Ingredients)
	assert.Equal(t, now, r.CreatedAt)
	assert.Nil(t, r.Life)

	created := now.Add(-time.Hour)
	r = LogRecord{ID: "b", Ingredients: []string{"egg"}, CreatedAt: created}
	r.Normalize(now)
	assert.Equal(t, []string{"egg"}, r.Ingredients)
	assert.Equal(t, created, r.CreatedAt)
}

func TestLogRecord_JSONHidesServerFields(t *testing.T) {
	r := LogRecord{
		ID: "a", UserID: "u1", Date: "2024-03-01", ImageKey: "users/u1/k",
		Ingredients: []string{}, Life: json.RawMessage(`{"stress":3}`),
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	s := string(b)
	assert.NotContains(t, s, "u1")
	assert.NotContains(t, s, "users/")
	assert.Contains(t, s, `"life":{"stress":3}`)
	assert.Contains(t, s, `"createdAt":"2024-03-01T00:00:00Z"`)
}
