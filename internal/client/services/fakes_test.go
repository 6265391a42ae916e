package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gastrolog/internal/client/client"
	"github.com/dmitrijs2005/gastrolog/internal/client/models"
)

type fakeRemote struct {
	client.RemoteStore

	mu         sync.Mutex
	safeList   []string
	getErr     error
	saveErr    error
	saves      [][]string
	gets       int
	analyzeReq []client.AnalyzeRequest
	analyzeRes []string
	analyzeErr error
	// when set, Analyze waits for release after signalling entered
	entered chan struct{}
	release chan struct{}
}

func (f *fakeRemote) GetSafeList(context.Context, string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]string{}, f.safeList...), nil
}

func (f *fakeRemote) SaveSafeList(_ context.Context, _ string, items []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, append([]string{}, items...))
	if f.saveErr != nil {
		return f.saveErr
	}
	f.safeList = append([]string{}, items...)
	return nil
}

func (f *fakeRemote) Analyze(_ context.Context, _ string, req client.AnalyzeRequest) ([]string, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzeReq = append(f.analyzeReq, req)
	return f.analyzeRes, f.analyzeErr
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) Token(context.Context) (string, error) { return f.token, f.err }

type memStore struct {
	items models.SafeList
	saves int
}

func (m *memStore) LoadSafeList(context.Context) models.SafeList {
	return append(models.SafeList{}, m.items...)
}

func (m *memStore) SaveSafeList(_ context.Context, items models.SafeList) error {
	m.saves++
	m.items = append(models.SafeList{}, items...)
	return nil
}
