package services

import "errors"

var (
	ErrNothingToAnalyze   = errors.New("add a photo or a memo to analyze")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrSignInRequired     = errors.New("sign in to analyze meals")
)
