package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/internal/analysis"
	"github.com/HassanAliMAli/you-trend/internal/model"
)

// CompareService runs niche comparisons behind the report cache.
type CompareService struct {
	engines *EngineRef
	cache   ReportCache
	log     zerolog.Logger
}

// NewCompareService creates a CompareService. cache may be nil.
func NewCompareService(engines *EngineRef, cache ReportCache, logger zerolog.Logger) *CompareService {
	return &CompareService{
		engines: engines,
		cache:   cache,
		log:     logger.With().Str("component", "compare").Logger(),
	}
}

// Compare analyses every niche of req and ranks them against each other.
func (s *CompareService) Compare(ctx context.Context, req model.CompareRequest) (*model.NicheComparison, bool, error) {
	engine := s.engines.Load()
	cmp, hit, err := cachedReport(ctx, s.cache, s.log, PrefixCompare, engine.Fingerprint(), req, func() model.NicheComparison {
		return engine.Compare(req.Niches, analysis.NicheOptions{
			TopVideos:   req.TopVideos,
			TopChannels: req.TopChannels,
			TopTopics:   req.TopTopics,
		})
	})
	if err != nil {
		return nil, false, err
	}
	return &cmp, hit, nil
}
