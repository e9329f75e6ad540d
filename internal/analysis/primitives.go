package analysis

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Log-normalisation ceilings. A metric equal to its benchmark scores 1.
const (
	ViewsBenchmark           = 1e9
	SubscribersBenchmark     = 2e8
	ChannelAvgViewsBenchmark = 5e7

	// MaxMonthlyUploads is the posting frequency (videos per month) at which
	// the channel frequency term saturates.
	MaxMonthlyUploads = 30.0
)

var ErrMalformedDuration = errors.New("malformed ISO-8601 duration")

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// publishedLayouts are tried in order. Layouts without a zone parse as UTC.
var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// EngagementRate returns (likes + comments) / views, or 0 when views <= 0.
// The raw rate can exceed 1; clamp with ClampUnit before using it as a weight.
func EngagementRate(views, likes, comments int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes+comments) / float64(views)
}

// ClampUnit clamps x to [0, 1].
func ClampUnit(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	return math.Min(x, 1)
}

// RecencyScore returns 1 / (1 + days) for the whole days elapsed between
// published and now. Future publish dates score 0.
func RecencyScore(published, now time.Time) float64 {
	days := math.Floor(now.Sub(published).Hours() / 24)
	if days < 0 {
		return 0
	}
	return 1 / (1 + days)
}

// LogNormalize maps x onto [0, 1] as log1p(x) / log1p(benchmark).
func LogNormalize(x, benchmark float64) float64 {
	if x <= 0 || benchmark <= 0 {
		return 0
	}
	return ClampUnit(math.Log1p(x) / math.Log1p(benchmark))
}

// ParseISODuration parses a PT#H#M#S style token (an optional day component
// is accepted). Absent components count as zero and an empty token is zero.
func ParseISODuration(token string) (time.Duration, error) {
	token = strings.TrimSpace(strings.ToUpper(token))
	if token == "" {
		return 0, nil
	}
	m := isoDurationRe.FindStringSubmatch(token)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, token)
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, token)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

// ParsePublishedAt parses a publish timestamp. Timestamps without a zone
// are read as UTC.
func ParsePublishedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range publishedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse publishedAt %q: %w", s, lastErr)
}

// addCounts adds two non-negative counters, saturating at math.MaxInt64.
func addCounts(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
