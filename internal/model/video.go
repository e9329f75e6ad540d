package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Count is a non-negative statistic as delivered by the YouTube Data API.
// It accepts JSON numbers and numeric strings. Negative values decode to 0,
// values beyond int64 saturate, and anything unparseable (NaN and Inf
// included) decodes to 0.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*c = 0
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	*c = parseCount(string(b))
	return nil
}

// parseCount reads an integer or float literal. Out-of-range literals
// saturate; the literals NaN and Inf are not counts.
func parseCount(s string) Count {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Count(max(n, 0))
	}
	f, err := strconv.ParseFloat(s, 64)
	overflow := errors.Is(err, strconv.ErrRange)
	switch {
	case err != nil && !overflow:
		return 0
	case math.IsNaN(f), f <= 0:
		return 0
	case math.IsInf(f, 1) && !overflow:
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	}
	return Count(f)
}

// VideoStats holds the public counters of a video.
type VideoStats struct {
	ViewCount    Count `json:"viewCount"`
	LikeCount    Count `json:"likeCount"`
	CommentCount Count `json:"commentCount"`
}

// Video is a flattened YouTube video record. Statistics is nil when the
// supplier had no statistics for the video at all.
type Video struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	ChannelID    string      `json:"channelId,omitempty"`
	ChannelTitle string      `json:"channelTitle,omitempty"`
	PublishedAt  string      `json:"publishedAt,omitempty"`
	Duration     string      `json:"duration,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	Thumbnails   []string    `json:"thumbnails,omitempty"`
	Statistics   *VideoStats `json:"statistics,omitempty"`
}

// Views returns the view count, or 0 when statistics are missing.
func (v Video) Views() int64 {
	if v.Statistics == nil {
		return 0
	}
	return int64(v.Statistics.ViewCount)
}

// Interactions returns likes + comments, or 0 when statistics are missing.
func (v Video) Interactions() int64 {
	if v.Statistics == nil {
		return 0
	}
	return int64(v.Statistics.LikeCount) + int64(v.Statistics.CommentCount)
}

// ScoredVideo pairs a video with its derived ranking score.
type ScoredVideo struct {
	Video Video   `json:"video"`
	Score float64 `json:"score"`
}
