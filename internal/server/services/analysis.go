package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gastrolog/internal/common"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
	"github.com/dmitrijs2005/gastrolog/internal/server/classifier"
)

// AnalysisService forwards meal analysis requests to the configured model.
type AnalysisService struct {
	classifier classifier.Classifier
	logger     logging.Logger
	now        func() time.Time
}

func NewAnalysisService(c classifier.Classifier, logger logging.Logger) *AnalysisService {
	return &AnalysisService{classifier: c, logger: logger, now: time.Now}
}

func (s *AnalysisService) Analyze(ctx context.Context, userID string, req classifier.Request) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, common.Wrap(common.ErrorValidation, err)
	}

	start := s.now()
	ingredients, err := s.classifier.Classify(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "analysis failed", "user", userID, "err", err)
		if errors.Is(err, classifier.ErrUpstream) {
			return nil, common.Wrap(common.ErrorUpstream, err)
		}
		return nil, common.Wrap(common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "analysis done",
		"user", userID,
		"image", req.Image != "",
		"ingredients", len(ingredients),
		"elapsed", s.now().Sub(start))
	return ingredients, nil
}
