package analysis

import (
	"sort"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

// AnalyzeChannels scores channels against their associated videos and
// summarises the set. topN <= 0 keeps every channel in TopChannels.
func (e *Engine) AnalyzeChannels(channels []model.Channel, videosByChannel map[string][]model.Video, topN int) model.ChannelTrendReport {
	report := model.ChannelTrendReport{
		TotalChannelsAnalyzed: len(channels),
		TopChannels:           []model.ScoredChannel{},
		PostingFrequency:      map[string]float64{},
	}
	if len(channels) == 0 {
		return report
	}

	var totalSubs int64
	for _, ch := range channels {
		subs := max(int64(ch.SubscriberCount), 0)
		totalSubs += subs
		switch {
		case subs < 10_000:
			report.SubscriberDistribution.Small++
		case subs < 100_000:
			report.SubscriberDistribution.Medium++
		case subs < 1_000_000:
			report.SubscriberDistribution.Large++
		default:
			report.SubscriberDistribution.VeryLarge++
		}
	}
	report.AverageSubscribers = round(float64(totalSubs)/float64(len(channels)), 2)

	scored := e.ScoreChannels(channels, videosByChannel)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	report.TopChannels = scored

	for id, videos := range videosByChannel {
		if f := e.PostingFrequency(videos); f > 0 {
			report.PostingFrequency[id] = round(f, 2)
		}
	}
	return report
}
