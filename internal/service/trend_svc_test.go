package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/internal/analysis"
	"github.com/HassanAliMAli/you-trend/internal/model"
)

// memCache is an in-memory ReportCache that records traffic.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
	setErr error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memCache) Set(_ context.Context, key string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memCache) InvalidatePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if prefix == "" || strings.HasPrefix(k, "youtrend:"+prefix+":") {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func testEngines(t *testing.T) *EngineRef {
	t.Helper()
	e, err := analysis.New(analysis.DefaultConfig())
	if err != nil {
		t.Fatalf("analysis.New: %v", err)
	}
	return NewEngineRef(e)
}

func testVideos() []model.Video {
	stats := func(views int64) *model.VideoStats {
		return &model.VideoStats{ViewCount: model.Count(views), LikeCount: model.Count(views / 20)}
	}
	return []model.Video{
		{ID: "a", Title: "Top 10 Gadgets", ChannelID: "c1", Statistics: stats(1000)},
		{ID: "b", Title: "Top 5 Gadgets", ChannelID: "c2", Statistics: stats(2000)},
		{ID: "c", Title: "How to Fix Gadgets", ChannelID: "c1", Statistics: stats(500)},
	}
}

func TestTrendService_AnalyzeVideos_CacheAside(t *testing.T) {
	cache := newMemCache()
	svc := NewTrendService(testEngines(t), cache, zerolog.Nop())
	req := model.TrendRequest{Videos: testVideos(), MaxResults: 2}

	first, hit, err := svc.AnalyzeVideos(context.Background(), req)
	if err != nil {
		t.Fatalf("AnalyzeVideos: %v", err)
	}
	if hit {
		t.Error("first call must be a cache miss")
	}
	if first.TotalVideosAnalyzed != 3 || len(first.TopVideos) != 2 {
		t.Errorf("unexpected report: total=%d top=%d", first.TotalVideosAnalyzed, len(first.TopVideos))
	}
	if cache.sets != 1 {
		t.Errorf("sets = %d, want 1", cache.sets)
	}

	second, hit, err := svc.AnalyzeVideos(context.Background(), req)
	if err != nil {
		t.Fatalf("AnalyzeVideos: %v", err)
	}
	if !hit {
		t.Error("second call must be a cache hit")
	}
	if second.TotalVideosAnalyzed != first.TotalVideosAnalyzed || second.TopVideos[0].Video.ID != first.TopVideos[0].Video.ID {
		t.Error("cached report differs from computed report")
	}
	if cache.sets != 1 {
		t.Errorf("cache hit must not write, sets = %d", cache.sets)
	}
}

func TestTrendService_CacheHitSkipsEngine(t *testing.T) {
	cache := newMemCache()
	engines := testEngines(t)
	svc := NewTrendService(engines, cache, zerolog.Nop())
	req := model.TopicsRequest{Videos: testVideos()}

	if _, _, err := svc.ExtractTopics(context.Background(), req); err != nil {
		t.Fatalf("ExtractTopics: %v", err)
	}

	// An engine built from the same configuration reads the same entries.
	engines.Store(testEngines(t).Load())
	topics, hit, err := svc.ExtractTopics(context.Background(), req)
	if err != nil || !hit {
		t.Fatalf("expected cache hit, got hit=%v err=%v", hit, err)
	}
	if len(topics) != 2 {
		t.Errorf("len(topics) = %d, want 2", len(topics))
	}
	if cache.sets != 1 {
		t.Errorf("cache hit must not recompute, sets = %d", cache.sets)
	}
}

func TestTrendService_ReplacedEngineReportsNotServed(t *testing.T) {
	cache := newMemCache()
	oldSvc := NewTrendService(testEngines(t), cache, zerolog.Nop())

	cfg := analysis.DefaultConfig()
	cfg.Patterns = []analysis.TopicPattern{{Label: "gadgets", Pattern: `\bgadgets\b`}}
	e, err := analysis.New(cfg)
	if err != nil {
		t.Fatalf("analysis.New: %v", err)
	}
	newSvc := NewTrendService(NewEngineRef(e), cache, zerolog.Nop())
	req := model.TopicsRequest{Videos: testVideos()}

	// The reload clears the cache, then a request still running on the old
	// engine stores its report.
	if _, err := cache.InvalidatePrefix(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if _, _, err := oldSvc.ExtractTopics(context.Background(), req); err != nil {
		t.Fatalf("ExtractTopics: %v", err)
	}

	topics, hit, err := newSvc.ExtractTopics(context.Background(), req)
	if err != nil {
		t.Fatalf("ExtractTopics: %v", err)
	}
	if hit {
		t.Fatal("a report from the replaced engine must not be served")
	}
	if len(topics) != 1 || topics[0].Name != "gadgets" || topics[0].VideoCount != 3 {
		t.Errorf("expected the new pattern table's topics, got %+v", topics)
	}
}

func TestTrendService_CacheErrorsIgnored(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	svc := NewTrendService(testEngines(t), cache, zerolog.Nop())

	report, hit, err := svc.AnalyzeChannels(context.Background(), model.ChannelTrendRequest{
		Channels: []model.Channel{{ID: "c1", SubscriberCount: 50_000}},
	})
	if err != nil {
		t.Fatalf("cache errors must not fail the call: %v", err)
	}
	if hit {
		t.Error("failed cache get must not be reported as a hit")
	}
	if report.TotalChannelsAnalyzed != 1 || report.SubscriberDistribution.Medium != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestTrendService_NilCache(t *testing.T) {
	svc := NewTrendService(testEngines(t), nil, zerolog.Nop())

	topics, hit, err := svc.ExtractTopics(context.Background(), model.TopicsRequest{})
	if err != nil || hit {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
	if topics == nil || len(topics) != 0 {
		t.Errorf("want empty non-nil topics, got %#v", topics)
	}
}

func TestTrendService_CancelledContext(t *testing.T) {
	svc := NewTrendService(testEngines(t), newMemCache(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := svc.AnalyzeVideos(ctx, model.TrendRequest{Videos: testVideos()}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTrendService_CorruptEntryRecomputed(t *testing.T) {
	cache := newMemCache()
	svc := NewTrendService(testEngines(t), cache, zerolog.Nop())
	req := model.TrendRequest{Videos: testVideos()}

	if _, _, err := svc.AnalyzeVideos(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	for k := range cache.data {
		cache.data[k] = []byte("{not json")
	}

	report, hit, err := svc.AnalyzeVideos(context.Background(), req)
	if err != nil || hit {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
	if report.TotalVideosAnalyzed != 3 {
		t.Errorf("TotalVideosAnalyzed = %d, want 3", report.TotalVideosAnalyzed)
	}
}
