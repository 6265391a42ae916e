// Package classifier asks a generative model which irritants a meal
// contains. Providers share one prompt and one answer format.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrEmptyRequest = errors.New("image or memo is required")
	// ErrUpstream wraps failures of the model provider.
	ErrUpstream = errors.New("classifier upstream error")
)

// Prompt is the instruction sent ahead of the photo and memo.
const Prompt = `あなたは低FODMAP食の専門家です。
以下の食事画像またはメモから、高FODMAPまたは注意が必要な成分を抽出してください。

回答は必ず以下のJSON形式で返してください：
{"ingredients": ["成分1", "成分2", ...]}

注意成分がない場合は空配列を返してください：
{"ingredients": []}

成分名は日本語で、具体的に記載してください。
例: 高FODMAP、グルテン、乳糖、フルクトース、ガーリック、オニオン、カフェインなど`

const memoPrefix = "食事のメモ: "

type Request struct {
	// Image is a data URL; empty when only a memo is given.
	Image string
	Memo  string
	// Model overrides the classifier's default.
	Model string
}

func (r Request) Validate() error {
	if r.Image == "" && strings.TrimSpace(r.Memo) == "" {
		return ErrEmptyRequest
	}
	return nil
}

type Classifier interface {
	Classify(ctx context.Context, req Request) ([]string, error)
}

// ExtractIngredients parses the outermost {...} span of a model answer.
// Anything unparseable yields an empty list.
func ExtractIngredients(text string) []string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return []string{}
	}
	var answer struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &answer); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(answer.Ingredients))
	for _, ing := range answer.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			out = append(out, ing)
		}
	}
	return out
}
