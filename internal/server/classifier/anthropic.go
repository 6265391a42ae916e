package classifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dmitrijs2005/gastrolog/internal/server/images"
)

const DefaultAnthropicModel = "claude-sonnet-4-5"

// Anthropic calls the Messages API through the official SDK.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic builds the classifier; extra SDK options (base URL, retries)
// are passed through.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Anthropic{client: anthropic.NewClient(opts...), model: model}
}

func (a *Anthropic) Classify(ctx context.Context, req Request) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = a.model
	}

	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(Prompt)}
	if mime, data, ok := images.ParseDataURL(req.Image); ok {
		blocks = append(blocks, anthropic.NewImageBlockBase64(mime, base64.StdEncoding.EncodeToString(data)))
	}
	if memo := strings.TrimSpace(req.Memo); memo != "" {
		blocks = append(blocks, anthropic.NewTextBlock(memoPrefix+memo))
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   1024,
		Temperature: anthropic.Float(0.1),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return ExtractIngredients(text.String()), nil
}
