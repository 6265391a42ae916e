package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gastrolog/internal/client/client"
	"github.com/dmitrijs2005/gastrolog/internal/client/models"
)

func TestAnalyze_NothingToAnalyze(t *testing.T) {
	remote := &fakeRemote{}
	a := NewAnalysisService(remote, &fakeTokens{token: "tok"}, nil, "")

	_, err := a.Analyze(context.Background(), "", "   ")
	require.ErrorIs(t, err, ErrNothingToAnalyze)
	assert.Empty(t, remote.analyzeReq)
}

func TestAnalyze_SignInRequired(t *testing.T) {
	a := NewAnalysisService(&fakeRemote{}, &fakeTokens{err: errors.New("no token")}, nil, "")

	_, err := a.Analyze(context.Background(), "", "ramen")
	require.ErrorIs(t, err, ErrSignInRequired)
	assert.False(t, a.InProgress())
}

func TestAnalyze_FiltersSafeListAndSetsKind(t *testing.T) {
	remote := &fakeRemote{analyzeRes: []string{"卵（アレルゲン）", "乳糖"}}
	tokens := &fakeTokens{token: "tok"}
	safe := newSafeList(&memStore{items: models.SafeList{"卵"}}, remote, tokens)
	a := NewAnalysisService(remote, tokens, safe, "gemini-2.5-flash")

	res, err := a.Analyze(context.Background(), "data:image/jpeg;base64,AA", " omelette ")
	require.NoError(t, err)
	assert.Equal(t, []string{"卵（アレルゲン）", "乳糖"}, res.Ingredients)
	assert.Equal(t, []string{"乳糖"}, res.Flagged)
	assert.Equal(t, MessageWarning, res.Kind)

	require.Len(t, remote.analyzeReq, 1)
	assert.Equal(t, client.AnalyzeRequest{Image: "data:image/jpeg;base64,AA", Memo: "omelette", Model: "gemini-2.5-flash"}, remote.analyzeReq[0])
}

func TestAnalyze_AllSafeIsSuccess(t *testing.T) {
	remote := &fakeRemote{analyzeRes: []string{"egg"}}
	tokens := &fakeTokens{token: "tok"}
	safe := newSafeList(&memStore{items: models.SafeList{"egg"}}, remote, tokens)

	res, err := NewAnalysisService(remote, tokens, safe, "").Analyze(context.Background(), "", "boiled egg")
	require.NoError(t, err)
	assert.Equal(t, MessageSuccess, res.Kind)
	assert.Empty(t, res.Flagged)
}

func TestAnalyze_RemoteErrorSurfaces(t *testing.T) {
	remote := &fakeRemote{analyzeErr: client.ErrUnavailable}
	a := NewAnalysisService(remote, &fakeTokens{token: "tok"}, nil, "")

	_, err := a.Analyze(context.Background(), "", "soup")
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, a.InProgress())
}

func TestAnalyze_SecondCallWhileRunning(t *testing.T) {
	remote := &fakeRemote{entered: make(chan struct{}), release: make(chan struct{})}
	a := NewAnalysisService(remote, &fakeTokens{token: "tok"}, nil, "")
	ctx := context.Background()

	done := make(chan error)
	go func() {
		_, err := a.Analyze(ctx, "", "first")
		done <- err
	}()
	<-remote.entered

	assert.True(t, a.InProgress())
	_, err := a.Analyze(ctx, "", "second")
	require.ErrorIs(t, err, ErrAnalysisInProgress)

	close(remote.release)
	require.NoError(t, <-done)
}
