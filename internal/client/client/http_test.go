package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
)

func newServer(t *testing.T, h http.HandlerFunc) (*HTTPClient, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", time.Second), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestEmptyTokenMakesNoRequest(t *testing.T) {
	c, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx := context.Background()

	_, err := c.GetLogs(ctx, "")
	require.ErrorIs(t, err, ErrNoToken)
	require.ErrorIs(t, c.SaveLogs(ctx, "", nil), ErrNoToken)
	require.ErrorIs(t, c.DeleteLog(ctx, "", "x"), ErrNoToken)
	_, err = c.GetSafeList(ctx, "")
	require.ErrorIs(t, err, ErrNoToken)
	require.ErrorIs(t, c.SaveSafeList(ctx, "", nil), ErrNoToken)
	_, err = c.Analyze(ctx, "", AnalyzeRequest{Memo: "x"})
	require.ErrorIs(t, err, ErrNoToken)

	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestGetLogs(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/logs", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"logs": []map[string]any{
				{"id": "a", "date": "2024-03-01", "ingredients": []string{"garlic"}, "synced": true},
			},
		})
	})

	logs, err := c.GetLogs(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "a", logs[0].ID)
	assert.Equal(t, []string{"garlic"}, logs[0].Ingredients)
	assert.Nil(t, logs[0].Synced)
}

func TestGetLogs_NullIsEmpty(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"logs": nil})
	})

	logs, err := c.GetLogs(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestSaveLogs_NeverSendsSynced(t *testing.T) {
	var body []byte
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ = io.ReadAll(r.Body)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": 1})
	})

	f := false
	err := c.SaveLogs(context.Background(), "tok", []models.LogRecord{{ID: "a", Date: "2024-03-01", Synced: &f}})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "synced")
	assert.Contains(t, string(body), `"id":"a"`)
}

func TestDeleteLog_EscapesID(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/logs/a%2Fb", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	require.NoError(t, c.DeleteLog(context.Background(), "tok", "a/b"))
}

func TestSafeList(t *testing.T) {
	var saved itemsBody
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/safelist", r.URL.Path)
		if r.Method == http.MethodPost {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": []string{"egg"}})
	})
	ctx := context.Background()

	items, err := c.GetSafeList(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"egg"}, items)

	require.NoError(t, c.SaveSafeList(ctx, "tok", nil))
	assert.NotNil(t, saved.Items)
	assert.Empty(t, saved.Items)
}

func TestAnalyze(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pasta with garlic", req.Memo)
		assert.Equal(t, "gemini-2.5-flash", req.Model)
		writeJSON(w, http.StatusOK, map[string]any{"ingredients": []string{"garlic", "wheat"}})
	})

	got, err := c.Analyze(context.Background(), "tok", AnalyzeRequest{Memo: "pasta with garlic", Model: "gemini-2.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"garlic", "wheat"}, got)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"error": "boom", "message": "details here"})
			})

			_, err := c.GetLogs(context.Background(), "tok")
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "details here")
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, time.Second).GetLogs(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c.timeout = 20 * time.Millisecond

	_, err := c.GetSafeList(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUnavailable)
}
