// Package analysis scores YouTube videos and channels, extracts trending
// topics, derives content ideas and compares niches. Everything in it works on
// already-fetched records and performs no I/O.
package analysis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/pkg/hash"
)

// Benchmarks are the log-normalisation ceilings used by the scorers.
type Benchmarks struct {
	Views           float64
	Subscribers     float64
	ChannelAvgViews float64
}

// Config tunes an Engine. Zero values fall back to DefaultConfig.
type Config struct {
	Benchmarks        Benchmarks
	MaxMonthlyUploads float64

	// Patterns is the ordered topic pattern table.
	Patterns []TopicPattern

	// SkipTags disables tag-derived topic candidates.
	SkipTags     bool
	// MaxTagWords and MinTagLength bound which tags qualify.
	MaxTagWords  int
	MinTagLength int

	// ExemplarPool is how many top-scored videos are searched for an idea exemplar.
	ExemplarPool  int
	// MinIdeaTopics is the minimum number of topics considered for ideas.
	MinIdeaTopics int

	// MaxConcurrency bounds the per-niche fan-out of CompareNiches.
	MaxConcurrency int
}

func DefaultConfig() Config {
	return Config{
		Benchmarks: Benchmarks{
			Views:           ViewsBenchmark,
			Subscribers:     SubscribersBenchmark,
			ChannelAvgViews: ChannelAvgViewsBenchmark,
		},
		MaxMonthlyUploads: MaxMonthlyUploads,
		Patterns:          DefaultTopicPatterns(),
		MaxTagWords:       3,
		MinTagLength:      4,
		ExemplarPool:      10,
		MinIdeaTopics:     5,
		MaxConcurrency:    4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Benchmarks.Views <= 0 {
		c.Benchmarks.Views = d.Benchmarks.Views
	}
	if c.Benchmarks.Subscribers <= 0 {
		c.Benchmarks.Subscribers = d.Benchmarks.Subscribers
	}
	if c.Benchmarks.ChannelAvgViews <= 0 {
		c.Benchmarks.ChannelAvgViews = d.Benchmarks.ChannelAvgViews
	}
	if c.MaxMonthlyUploads <= 0 {
		c.MaxMonthlyUploads = d.MaxMonthlyUploads
	}
	if c.Patterns == nil {
		c.Patterns = d.Patterns
	}
	if c.MaxTagWords <= 0 {
		c.MaxTagWords = d.MaxTagWords
	}
	if c.MinTagLength <= 0 {
		c.MinTagLength = d.MinTagLength
	}
	if c.ExemplarPool <= 0 {
		c.ExemplarPool = d.ExemplarPool
	}
	if c.MinIdeaTopics <= 0 {
		c.MinIdeaTopics = d.MinIdeaTopics
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = d.MaxConcurrency
	}
	return c
}

// Engine is immutable after New and safe for concurrent use. Input records
// are never modified; scores are returned through ScoredVideo/ScoredChannel.
type Engine struct {
	cfg         Config
	patterns    []compiledPattern
	fingerprint string
	log         zerolog.Logger
	now         func() time.Time
}

type Option func(*Engine)

// WithLogger sets the logger that receives malformed-record diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock sets the time source used for recency scoring.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New compiles the pattern table and returns an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.withDefaults()
	patterns, err := compilePatterns(cfg.Patterns)
	if err != nil {
		return nil, fmt.Errorf("compile topic patterns: %w", err)
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("fingerprint config: %w", err)
	}

	e := &Engine{
		cfg:         cfg,
		patterns:    patterns,
		fingerprint: hash.Prefix(string(b), 16),
		log:         zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// PatternCount returns the number of compiled topic patterns.
func (e *Engine) PatternCount() int {
	return len(e.patterns)
}

// Fingerprint identifies the effective configuration, pattern table
// included. Engines built from equal configurations share a fingerprint.
func (e *Engine) Fingerprint() string {
	return e.fingerprint
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
