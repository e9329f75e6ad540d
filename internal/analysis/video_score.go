package analysis

import (
	"sort"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

// Video score weights.
const (
	videoViewsWeight      = 0.4
	videoEngagementWeight = 0.4
	videoRecencyWeight    = 0.2
)

// ScoreVideo returns the video's ranking score in [0, 1], rounded to 4 decimals.
// A video without statistics scores 0.
func (e *Engine) ScoreVideo(v model.Video) float64 {
	if v.Statistics == nil {
		e.log.Warn().Str("video_id", v.ID).Msg("video has no statistics, scoring 0")
		return 0
	}
	e.warnNegativeStats(v)
	views, likes, comments := videoCounts(v)

	viewTerm := LogNormalize(float64(views), e.cfg.Benchmarks.Views)
	engagementTerm := ClampUnit(EngagementRate(views, likes, comments))
	recencyTerm := e.recency(v)

	score := videoViewsWeight*viewTerm + videoEngagementWeight*engagementTerm + videoRecencyWeight*recencyTerm
	return round(ClampUnit(score), 4)
}

// ScoreVideos scores every video and returns the results in input order.
func (e *Engine) ScoreVideos(videos []model.Video) []model.ScoredVideo {
	out := make([]model.ScoredVideo, len(videos))
	for i, v := range videos {
		out[i] = model.ScoredVideo{Video: v, Score: e.ScoreVideo(v)}
	}
	return out
}

// RankVideos returns a copy of scored sorted by score descending. Equal
// scores keep their input order.
func RankVideos(scored []model.ScoredVideo) []model.ScoredVideo {
	out := make([]model.ScoredVideo, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// videoCounts returns the video's counters with negative values replaced by 0.
func videoCounts(v model.Video) (views, likes, comments int64) {
	if v.Statistics == nil {
		return 0, 0, 0
	}
	return max(int64(v.Statistics.ViewCount), 0),
		max(int64(v.Statistics.LikeCount), 0),
		max(int64(v.Statistics.CommentCount), 0)
}

func (e *Engine) warnNegativeStats(v model.Video) {
	s := v.Statistics
	if s.ViewCount < 0 || s.LikeCount < 0 || s.CommentCount < 0 {
		e.log.Warn().
			Str("video_id", v.ID).
			Int64("views", int64(s.ViewCount)).
			Int64("likes", int64(s.LikeCount)).
			Int64("comments", int64(s.CommentCount)).
			Msg("negative statistics, using 0")
	}
}

func (e *Engine) recency(v model.Video) float64 {
	if v.PublishedAt == "" {
		e.log.Debug().Str("video_id", v.ID).Msg("video has no publish date")
		return 0
	}
	published, err := ParsePublishedAt(v.PublishedAt)
	if err != nil {
		e.log.Warn().Err(err).Str("video_id", v.ID).Msg("unparseable publish date, recency 0")
		return 0
	}
	return RecencyScore(published, e.now())
}

// durationSeconds parses the video's duration, logging and zeroing malformed tokens.
func (e *Engine) durationSeconds(v model.Video) float64 {
	d, err := ParseISODuration(v.Duration)
	if err != nil {
		e.log.Warn().Err(err).Str("video_id", v.ID).Msg("malformed duration, using 0")
		return 0
	}
	return d.Seconds()
}
