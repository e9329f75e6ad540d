package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/internal/analysis"
	"github.com/HassanAliMAli/you-trend/internal/model"
)

// TrendService runs single-set analyses behind the report cache.
type TrendService struct {
	engines *EngineRef
	cache   ReportCache
	log     zerolog.Logger
}

// NewTrendService creates a TrendService. cache may be nil.
func NewTrendService(engines *EngineRef, cache ReportCache, logger zerolog.Logger) *TrendService {
	return &TrendService{
		engines: engines,
		cache:   cache,
		log:     logger.With().Str("component", "trends").Logger(),
	}
}

// AnalyzeVideos returns the trend report of req.Videos. The bool reports a cache hit.
func (s *TrendService) AnalyzeVideos(ctx context.Context, req model.TrendRequest) (*model.TrendReport, bool, error) {
	engine := s.engines.Load()
	report, hit, err := cachedReport(ctx, s.cache, s.log, PrefixVideoTrends, engine.Fingerprint(), req, func() model.TrendReport {
		return engine.AnalyzeVideos(req.Videos, analysis.TrendOptions{
			TopVideos: req.MaxResults,
			TopTopics: req.TopTopics,
			TopIdeas:  req.TopIdeas,
		})
	})
	if err != nil {
		return nil, false, err
	}
	return &report, hit, nil
}

// AnalyzeChannels returns the channel report of req.Channels.
func (s *TrendService) AnalyzeChannels(ctx context.Context, req model.ChannelTrendRequest) (*model.ChannelTrendReport, bool, error) {
	engine := s.engines.Load()
	report, hit, err := cachedReport(ctx, s.cache, s.log, PrefixChannelTrends, engine.Fingerprint(), req, func() model.ChannelTrendReport {
		return engine.AnalyzeChannels(req.Channels, req.VideosByChannel, req.MaxResults)
	})
	if err != nil {
		return nil, false, err
	}
	return &report, hit, nil
}

// ExtractTopics returns the ranked topics of req.Videos.
func (s *TrendService) ExtractTopics(ctx context.Context, req model.TopicsRequest) ([]model.Topic, bool, error) {
	engine := s.engines.Load()
	topics, hit, err := cachedReport(ctx, s.cache, s.log, PrefixTopics, engine.Fingerprint(), req, func() []model.Topic {
		return engine.ExtractTopics(req.Videos, req.Limit)
	})
	if err != nil {
		return nil, false, err
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	return topics, hit, nil
}
