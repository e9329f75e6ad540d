package analysis

import (
	"math"
	"time"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

// Channel score weights.
const (
	channelSubscribersWeight = 0.3
	channelAvgViewsWeight    = 0.4
	channelFrequencyWeight   = 0.3
)

// ScoreChannel returns the channel's ranking score in [0, 1], rounded to 4
// decimals. Without associated videos only the subscriber term contributes.
func (e *Engine) ScoreChannel(ch model.Channel, videos []model.Video) float64 {
	score, _ := e.scoreChannel(ch, videos)
	return score
}

func (e *Engine) scoreChannel(ch model.Channel, videos []model.Video) (score, frequency float64) {
	subs := int64(ch.SubscriberCount)
	if subs < 0 {
		e.log.Warn().Str("channel_id", ch.ID).Int64("subscribers", subs).Msg("negative subscriber count, using 0")
		subs = 0
	}
	subTerm := LogNormalize(float64(subs), e.cfg.Benchmarks.Subscribers)

	var avgViewsTerm, frequencyTerm float64
	if len(videos) > 0 {
		var total int64
		for _, v := range videos {
			views, _, _ := videoCounts(v)
			total = addCounts(total, views)
		}
		avgViews := float64(total) / float64(len(videos))
		avgViewsTerm = LogNormalize(avgViews, e.cfg.Benchmarks.ChannelAvgViews)
		frequency = e.PostingFrequency(videos)
		frequencyTerm = math.Min(frequency/e.cfg.MaxMonthlyUploads, 1)
	}

	score = channelSubscribersWeight*subTerm + channelAvgViewsWeight*avgViewsTerm + channelFrequencyWeight*frequencyTerm
	return round(ClampUnit(score), 4), frequency
}

// PostingFrequency returns uploads per 30 days over the whole-day span between
// the earliest and latest parseable publish dates. Fewer than two dated
// videos, or a span under one day, yields 0.
func (e *Engine) PostingFrequency(videos []model.Video) float64 {
	var (
		earliest, latest time.Time
		dated            int
	)
	for _, v := range videos {
		if v.PublishedAt == "" {
			continue
		}
		t, err := ParsePublishedAt(v.PublishedAt)
		if err != nil {
			e.log.Warn().Err(err).Str("video_id", v.ID).Msg("unparseable publish date, skipped for frequency")
			continue
		}
		if dated == 0 || t.Before(earliest) {
			earliest = t
		}
		if dated == 0 || t.After(latest) {
			latest = t
		}
		dated++
	}
	if dated < 2 {
		return 0
	}
	spanDays := math.Floor(latest.Sub(earliest).Hours() / 24)
	if spanDays <= 0 {
		return 0
	}
	return float64(dated) / spanDays * 30
}

// ScoreChannels scores every channel against videosByChannel[channel.ID] and
// returns the results in input order.
func (e *Engine) ScoreChannels(channels []model.Channel, videosByChannel map[string][]model.Video) []model.ScoredChannel {
	out := make([]model.ScoredChannel, len(channels))
	for i, ch := range channels {
		score, frequency := e.scoreChannel(ch, videosByChannel[ch.ID])
		out[i] = model.ScoredChannel{
			Channel:          ch,
			Score:            score,
			PostingFrequency: round(frequency, 2),
		}
	}
	return out
}
