package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/gastrolog/internal/client/client"
)

type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageWarning
)

type AnalysisResult struct {
	// Ingredients is what the model found.
	Ingredients []string
	// Flagged is Ingredients minus safe-list matches.
	Flagged []string
	Kind    MessageKind
}

func (r AnalysisResult) Message() string {
	if r.Kind == MessageWarning {
		return "Ingredients that may need attention were found"
	}
	return "No problematic ingredients found"
}

type AnalysisService struct {
	remote   client.RemoteStore
	tokens   TokenSource
	safeList *SafeListService
	model    string
	running  atomic.Bool
}

// NewAnalysisService builds the service; model may be empty to let the
// server pick its default.
func NewAnalysisService(remote client.RemoteStore, tokens TokenSource, safeList *SafeListService, model string) *AnalysisService {
	return &AnalysisService{remote: remote, tokens: tokens, safeList: safeList, model: model}
}

// Analyze asks the server which irritants the meal contains. Unlike sync
// errors, every failure here is meant to be shown to the user.
func (a *AnalysisService) Analyze(ctx context.Context, image, memo string) (AnalysisResult, error) {
	memo = strings.TrimSpace(memo)
	if image == "" && memo == "" {
		return AnalysisResult{}, ErrNothingToAnalyze
	}
	if !a.running.CompareAndSwap(false, true) {
		return AnalysisResult{}, ErrAnalysisInProgress
	}
	defer a.running.Store(false)

	token, err := a.tokens.Token(ctx)
	if err != nil || token == "" {
		return AnalysisResult{}, ErrSignInRequired
	}

	found, err := a.remote.Analyze(ctx, token, client.AnalyzeRequest{Image: image, Memo: memo, Model: a.model})
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis failed: %w", err)
	}

	res := AnalysisResult{Ingredients: found, Flagged: found}
	if a.safeList != nil {
		res.Flagged = a.safeList.Filter(found)
	}
	if len(res.Flagged) > 0 {
		res.Kind = MessageWarning
	}
	return res, nil
}

func (a *AnalysisService) InProgress() bool {
	return a.running.Load()
}
