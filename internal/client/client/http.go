package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
	"github.com/dmitrijs2005/gastrolog/internal/common"
)

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewHTTPClient binds to the service at baseURL. timeout bounds every call;
// zero means only the caller's context applies.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

type logsBody struct {
	Logs []models.LogRecord `json:"logs"`
}

type itemsBody struct {
	Items []string `json:"items"`
}

type ingredientsBody struct {
	Ingredients []string `json:"ingredients"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) GetLogs(ctx context.Context, token string) ([]models.LogRecord, error) {
	var out logsBody
	if err := c.do(ctx, token, http.MethodGet, "/api/logs", nil, &out); err != nil {
		return nil, err
	}
	logs := out.Logs
	if logs == nil {
		logs = []models.LogRecord{}
	}
	for i := range logs {
		logs[i].Synced = nil
	}
	return logs, nil
}

func (c *HTTPClient) SaveLogs(ctx context.Context, token string, records []models.LogRecord) error {
	body := logsBody{Logs: make([]models.LogRecord, len(records))}
	for i, r := range records {
		body.Logs[i] = r.ForRemote()
	}
	return c.do(ctx, token, http.MethodPost, "/api/logs", body, nil)
}

func (c *HTTPClient) DeleteLog(ctx context.Context, token string, id string) error {
	return c.do(ctx, token, http.MethodDelete, "/api/logs/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) GetSafeList(ctx context.Context, token string) ([]string, error) {
	var out itemsBody
	if err := c.do(ctx, token, http.MethodGet, "/api/safelist", nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		return []string{}, nil
	}
	return out.Items, nil
}

func (c *HTTPClient) SaveSafeList(ctx context.Context, token string, items []string) error {
	if items == nil {
		items = []string{}
	}
	return c.do(ctx, token, http.MethodPost, "/api/safelist", itemsBody{Items: items}, nil)
}

func (c *HTTPClient) Analyze(ctx context.Context, token string, req AnalyzeRequest) ([]string, error) {
	var out ingredientsBody
	if err := c.do(ctx, token, http.MethodPost, "/api/analyze", req, &out); err != nil {
		return nil, err
	}
	if out.Ingredients == nil {
		return []string{}, nil
	}
	return out.Ingredients, nil
}

func (c *HTTPClient) do(ctx context.Context, token, method, path string, in, out any) error {
	if token == "" {
		return ErrNoToken
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrUnavailable, method, path, err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && (eb.Message != "" || eb.Error != "") {
		msg = eb.Message
		if msg == "" {
			msg = eb.Error
		}
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		kind = ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		kind = ErrNotFound
	case resp.StatusCode >= 500:
		kind = ErrUnavailable
	default:
		kind = ErrRejected
	}
	if msg == "" {
		return fmt.Errorf("%w: status %d", kind, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d: %s", kind, resp.StatusCode, msg)
}
