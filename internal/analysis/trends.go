package analysis

import (
	"unicode/utf8"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

// Thumbnail quality buckets reported in MetadataInsights.
const (
	ThumbnailHigh   = "high_quality"
	ThumbnailMedium = "medium_quality"
	ThumbnailLow    = "low_quality"
)

// TrendOptions bounds the lists of a TrendReport. Non-positive values fall
// back to DefaultTrendOptions.
type TrendOptions struct {
	TopVideos int
	TopTopics int
	TopIdeas  int
}

func DefaultTrendOptions() TrendOptions {
	return TrendOptions{TopVideos: 10, TopTopics: 10, TopIdeas: 10}
}

func (o TrendOptions) withDefaults() TrendOptions {
	d := DefaultTrendOptions()
	if o.TopVideos <= 0 {
		o.TopVideos = d.TopVideos
	}
	if o.TopTopics <= 0 {
		o.TopTopics = d.TopTopics
	}
	if o.TopIdeas <= 0 {
		o.TopIdeas = d.TopIdeas
	}
	return o
}

// AnalyzeVideos builds the trend report of one video set. The average
// engagement rate is aggregate interactions over aggregate views.
func (e *Engine) AnalyzeVideos(videos []model.Video, opts TrendOptions) model.TrendReport {
	opts = opts.withDefaults()
	report := model.TrendReport{
		TotalVideosAnalyzed: len(videos),
		TopVideos:           []model.ScoredVideo{},
		TrendingTopics:      []model.Topic{},
		VideoIdeas:          []model.VideoIdea{},
		MetadataInsights:    model.MetadataInsights{ThumbnailQuality: map[string]int{}},
	}
	if len(videos) == 0 {
		return report
	}

	var totalViews, totalInteractions int64
	for _, v := range videos {
		views, likes, comments := videoCounts(v)
		totalViews = addCounts(totalViews, views)
		totalInteractions = addCounts(totalInteractions, addCounts(likes, comments))
	}
	report.AverageViews = round(float64(totalViews)/float64(len(videos)), 2)
	report.AverageEngagementRate = EngagementRate(totalViews, totalInteractions, 0)

	scored := e.ScoreVideos(videos)
	ranked := RankVideos(scored)
	report.TopVideos = ranked[:min(len(ranked), opts.TopVideos)]

	topics := e.ExtractTopics(videos, 0)
	report.TrendingTopics = topics[:min(len(topics), opts.TopTopics)]
	report.VideoIdeas = e.GenerateIdeas(topics, scored, opts.TopIdeas)
	report.MetadataInsights = e.metadataInsights(videos)

	e.log.Debug().
		Int("videos", len(videos)).
		Int("topics", len(topics)).
		Int("ideas", len(report.VideoIdeas)).
		Msg("video set analysed")
	return report
}

func (e *Engine) metadataInsights(videos []model.Video) model.MetadataInsights {
	insights := model.MetadataInsights{ThumbnailQuality: map[string]int{}}
	if len(videos) == 0 {
		return insights
	}

	var titleRunes int
	var durationTotal float64
	var timed int
	for _, v := range videos {
		titleRunes += utf8.RuneCountInString(v.Title)
		if v.Duration != "" {
			if secs := e.durationSeconds(v); secs > 0 {
				durationTotal += secs
				timed++
			}
		}
		insights.ThumbnailQuality[thumbnailQuality(v.Thumbnails)]++
	}

	insights.AvgTitleLength = round(float64(titleRunes)/float64(len(videos)), 2)
	if timed > 0 {
		insights.AvgDurationSeconds = round(durationTotal/float64(timed), 2)
	}
	return insights
}

func thumbnailQuality(sizes []string) string {
	var high bool
	for _, s := range sizes {
		switch s {
		case "maxres":
			return ThumbnailHigh
		case "high":
			high = true
		}
	}
	if high {
		return ThumbnailMedium
	}
	return ThumbnailLow
}
