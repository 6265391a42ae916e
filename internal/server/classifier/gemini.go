package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gastrolog/internal/server/images"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	geminiBaseURL      = "https://generativelanguage.googleapis.com"
)

// Gemini calls the Generative Language REST API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

type GeminiOption func(*Gemini)

// WithGeminiBaseURL points the client at another endpoint (tests, proxies).
func WithGeminiBaseURL(u string) GeminiOption {
	return func(g *Gemini) { g.baseURL = strings.TrimRight(u, "/") }
}

func NewGemini(apiKey, model string, opts ...GeminiOption) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	g := &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Classify(ctx context.Context, req Request) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = g.model
	}

	parts := []geminiPart{{Text: Prompt}}
	if mime, data, ok := images.ParseDataURL(req.Image); ok {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: mime,
			Data:     base64.StdEncoding.EncodeToString(data),
		}})
	}
	if memo := strings.TrimSpace(req.Memo); memo != "" {
		parts = append(parts, geminiPart{Text: memoPrefix + memo})
	}

	var body geminiRequest
	body.Contents = append(body.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: parts})
	body.GenerationConfig.Temperature = 0.1
	body.GenerationConfig.MaxOutputTokens = 1024

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: gemini status %d: %s", ErrUpstream, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode gemini response: %w", ErrUpstream, err)
	}
	if len(out.Candidates) == 0 {
		return []string{}, nil
	}
	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return ExtractIngredients(text.String()), nil
}
