package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/internal/analysis"
)

// PrefixInvalidator drops cached reports under a key prefix.
type PrefixInvalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) (int, error)
}

// EngineBuilder constructs an engine for a pattern table.
type EngineBuilder func(patterns []analysis.TopicPattern) (*analysis.Engine, error)

// PatternWorker is a periodic background job that reloads the topic pattern
// file when it changes, swaps the serving engine and drops cached reports
// computed with the old table.
type PatternWorker struct {
	path     string
	interval time.Duration
	build    EngineBuilder
	engines  *EngineRef
	cache    PrefixInvalidator
	log      zerolog.Logger

	lastMod  time.Time
	lastSize int64
	stopCh   chan struct{}
}

// NewPatternWorker creates a worker that checks path every interval. cache may be nil.
func NewPatternWorker(path string, interval time.Duration, build EngineBuilder, engines *EngineRef, cache PrefixInvalidator, logger zerolog.Logger) *PatternWorker {
	w := &PatternWorker{
		path:     path,
		interval: interval,
		build:    build,
		engines:  engines,
		cache:    cache,
		log:      logger.With().Str("component", "pattern-worker").Logger(),
		stopCh:   make(chan struct{}),
	}
	if fi, err := os.Stat(path); err == nil {
		w.lastMod, w.lastSize = fi.ModTime(), fi.Size()
	}
	return w
}

// Start runs the reload loop until ctx is cancelled or Stop is called.
func (w *PatternWorker) Start(ctx context.Context) {
	w.log.Info().Str("path", w.path).Dur("interval", w.interval).Msg("starting")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.ReloadIfChanged(ctx); err != nil {
				w.log.Error().Err(err).Msg("reload failed, keeping current patterns")
			}
		case <-ctx.Done():
			w.log.Info().Msg("stopping (context cancelled)")
			return
		case <-w.stopCh:
			w.log.Info().Msg("stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *PatternWorker) Stop() {
	close(w.stopCh)
}

// ReloadIfChanged reloads the pattern file when its size or modification
// time changed since the last successful load. It reports whether the
// engine was swapped.
func (w *PatternWorker) ReloadIfChanged(ctx context.Context) (bool, error) {
	fi, err := os.Stat(w.path)
	if err != nil {
		return false, fmt.Errorf("stat pattern file: %w", err)
	}
	if fi.ModTime().Equal(w.lastMod) && fi.Size() == w.lastSize {
		return false, nil
	}

	patterns, err := analysis.LoadTopicPatterns(w.path)
	if err != nil {
		return false, err
	}
	engine, err := w.build(patterns)
	if err != nil {
		return false, err
	}
	w.engines.Store(engine)
	w.lastMod, w.lastSize = fi.ModTime(), fi.Size()

	removed := 0
	if w.cache != nil {
		removed, err = w.cache.InvalidatePrefix(ctx, "")
		if err != nil {
			w.log.Warn().Err(err).Msg("cache invalidation failed")
		}
	}
	w.log.Info().Int("patterns", len(patterns)).Int("cache_keys_removed", removed).Msg("topic patterns reloaded")
	return true, nil
}
