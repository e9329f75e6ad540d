package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/HassanAliMAli/you-trend/internal/analysis"
	"github.com/HassanAliMAli/you-trend/internal/model"
	"github.com/HassanAliMAli/you-trend/internal/service"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memCache) Set(_ context.Context, key string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	e, err := analysis.New(analysis.DefaultConfig())
	if err != nil {
		t.Fatalf("analysis.New: %v", err)
	}
	engines := service.NewEngineRef(e)
	cache := &memCache{data: make(map[string][]byte)}

	trend := NewTrendHandler(service.NewTrendService(engines, cache, zerolog.Nop()))
	cmp := NewCompareHandler(service.NewCompareService(engines, cache, zerolog.Nop()))
	health := NewHealthHandler(engines, nil)

	app := fiber.New()
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)
	app.Post("/api/trends/videos", trend.Videos)
	app.Post("/api/trends/channels", trend.Channels)
	app.Post("/api/topics", trend.Topics)
	app.Post("/api/compare", cmp.Compare)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func expectError(t *testing.T, resp *http.Response, body []byte, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d: %s", status, resp.StatusCode, body)
	}
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if e.Error.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, e.Error.Code, e.Error.Message)
	}
}

const videosBody = `{"videos":[
	{"id":"a","title":"How to Bake Bread","publishedAt":"2024-05-01T00:00:00Z","duration":"PT8M","statistics":{"viewCount":"120000","likeCount":"6000","commentCount":"300"}},
	{"id":"b","title":"Bread Review 2024","publishedAt":"2024-04-01T00:00:00Z","duration":"PT12M","statistics":{"viewCount":"40000","likeCount":"1200","commentCount":"80"}},
	{"id":"c","title":"How to Bake Cake","statistics":{"viewCount":5000}}
],"maxResults":2}`

func TestVideos_MissThenHit(t *testing.T) {
	app := newTestApp(t)

	resp, body := post(t, app, "/api/trends/videos", videosBody)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("expected X-Cache MISS, got %q", got)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != "success" || env.Message != "Video trends analysed" {
		t.Errorf("unexpected envelope: %s / %s", env.Status, env.Message)
	}
	var report model.TrendReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalVideosAnalyzed != 3 {
		t.Errorf("expected 3 videos analysed, got %d", report.TotalVideosAnalyzed)
	}
	if len(report.TopVideos) != 2 {
		t.Fatalf("expected maxResults to cap top videos at 2, got %d", len(report.TopVideos))
	}
	if report.TopVideos[0].Video.ID != "a" {
		t.Errorf("expected video a to rank first, got %s", report.TopVideos[0].Video.ID)
	}

	resp, _ = post(t, app, "/api/trends/videos", videosBody)
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("expected X-Cache HIT on repeat, got %q", got)
	}
}

func TestVideos_MissingField(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/trends/videos", `{"maxResults":5}`)
	expectError(t, resp, body, fiber.StatusBadRequest, "MISSING_FIELD")
}

func TestVideos_NullVideosIsMissing(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/trends/videos", `{"videos":null}`)
	expectError(t, resp, body, fiber.StatusBadRequest, "MISSING_FIELD")
}

func TestVideos_NotAnObject(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/trends/videos", `[1,2,3]`)
	expectError(t, resp, body, fiber.StatusBadRequest, "INVALID_BODY")
}

func TestVideos_EmptyList(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/trends/videos", `{"videos":[]}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != "No videos to analyse" {
		t.Errorf("unexpected message %q", env.Message)
	}
	var report model.TrendReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalVideosAnalyzed != 0 {
		t.Errorf("expected 0 videos, got %d", report.TotalVideosAnalyzed)
	}
}

func TestVideos_MaxResultsOutOfRange(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/trends/videos", `{"videos":[],"maxResults":51}`)
	expectError(t, resp, body, fiber.StatusBadRequest, "INVALID_FIELD")
}

func TestChannels(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/trends/channels", `{"channels":[
		{"id":"c1","title":"Small","subscriberCount":"900","viewCount":"10000","videoCount":"10"},
		{"id":"c2","title":"Big","subscriberCount":"2000000","viewCount":"500000000","videoCount":"400"}
	]}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var report model.ChannelTrendReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalChannelsAnalyzed != 2 {
		t.Errorf("expected 2 channels, got %d", report.TotalChannelsAnalyzed)
	}
	if report.SubscriberDistribution.Small != 1 || report.SubscriberDistribution.VeryLarge != 1 {
		t.Errorf("unexpected distribution %+v", report.SubscriberDistribution)
	}
	if report.TopChannels[0].Channel.ID != "c2" {
		t.Errorf("expected c2 first, got %s", report.TopChannels[0].Channel.ID)
	}
}

func TestTopics(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/topics", videosBody)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var data struct {
		TotalVideosAnalyzed int           `json:"totalVideosAnalyzed"`
		Topics              []model.Topic `json:"topics"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.TotalVideosAnalyzed != 3 {
		t.Errorf("expected 3 videos, got %d", data.TotalVideosAnalyzed)
	}
	found := false
	for _, tp := range data.Topics {
		if tp.Name == "how to" {
			found = true
			if tp.VideoCount != 2 {
				t.Errorf("expected 'how to' in 2 videos, got %d", tp.VideoCount)
			}
		}
	}
	if !found {
		t.Errorf("expected a 'how to' topic, got %+v", data.Topics)
	}
}

func TestCompare(t *testing.T) {
	app := newTestApp(t)
	resp, body := post(t, app, "/api/compare", `{"niches":{
		"baking":[{"id":"a","title":"How to Bake Bread","channelId":"ch1","statistics":{"viewCount":1000,"likeCount":100}}],
		"gaming":[{"id":"g","title":"Speedrun","channelId":"ch2","statistics":{"viewCount":5000,"likeCount":50}}]
	}}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var cmp model.NicheComparison
	if err := json.Unmarshal(env.Data, &cmp); err != nil {
		t.Fatalf("decode comparison: %v", err)
	}
	if len(cmp.Niches) != 2 {
		t.Fatalf("expected 2 niches, got %d", len(cmp.Niches))
	}
	if got := cmp.Rankings.ByAverageViews; len(got) != 2 || got[0] != "gaming" {
		t.Errorf("expected gaming to lead by views, got %v", got)
	}
	if got := cmp.Rankings.ByEngagementRate; len(got) != 2 || got[0] != "baking" {
		t.Errorf("expected baking to lead by engagement, got %v", got)
	}
}

func TestCompare_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing niches", `{}`, "MISSING_FIELD"},
		{"no niches", `{"niches":{}}`, "INVALID_FIELD"},
		{"too many niches", `{"niches":{"a":[],"b":[],"c":[],"d":[],"e":[],"f":[]}}`, "INVALID_FIELD"},
		{"blank name", `{"niches":{"  ":[]}}`, "INVALID_FIELD"},
		{"topTopics too large", `{"niches":{"a":[]},"topTopics":21}`, "INVALID_FIELD"},
	}

	app := newTestApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, app, "/api/compare", tt.body)
			expectError(t, resp, body, fiber.StatusBadRequest, tt.code)
		})
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("live: expected 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	defer resp.Body.Close()
	var ready struct {
		Status string `json:"status"`
		Checks struct {
			Engine struct {
				Status        string `json:"status"`
				TopicPatterns int    `json:"topic_patterns"`
			} `json:"engine"`
			Redis struct {
				Status string `json:"status"`
			} `json:"redis"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if ready.Status != "healthy" || ready.Checks.Redis.Status != "disabled" {
		t.Errorf("unexpected readiness %+v", ready)
	}
	if ready.Checks.Engine.Status != "up" || ready.Checks.Engine.TopicPatterns != len(analysis.DefaultTopicPatterns()) {
		t.Errorf("unexpected engine check %+v", ready.Checks.Engine)
	}
}

func TestHealth_NoEngine(t *testing.T) {
	app := fiber.New()
	app.Get("/health/ready", NewHealthHandler(service.NewEngineRef(nil), nil).Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("expected 503 without an engine, got %d", resp.StatusCode)
	}
}

func TestSanitizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"/api/trends/videos": "/api/trends/videos",
		"/api/compare":       "/api/compare",
		"/health/live":       "/health/live",
		"/wp-admin/login":    "other",
	}
	for in, want := range tests {
		if got := sanitizeEndpoint(in); got != want {
			t.Errorf("sanitizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
