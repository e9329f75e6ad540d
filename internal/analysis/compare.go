package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

const (
	maxInsights      = 5
	overlapTopicPool = 5
	minSharedTopics  = 2
)

// NicheOptions bounds the lists of a NicheAnalysis. Non-positive values fall
// back to DefaultNicheOptions.
type NicheOptions struct {
	TopVideos   int
	TopChannels int
	TopTopics   int
}

func DefaultNicheOptions() NicheOptions {
	return NicheOptions{TopVideos: 5, TopChannels: 5, TopTopics: 5}
}

func (o NicheOptions) withDefaults() NicheOptions {
	d := DefaultNicheOptions()
	if o.TopVideos <= 0 {
		o.TopVideos = d.TopVideos
	}
	if o.TopChannels <= 0 {
		o.TopChannels = d.TopChannels
	}
	if o.TopTopics <= 0 {
		o.TopTopics = d.TopTopics
	}
	return o
}

// AnalyzeNiche analyses one niche's video list in isolation.
func (e *Engine) AnalyzeNiche(videos []model.Video, opts NicheOptions) model.NicheAnalysis {
	opts = opts.withDefaults()
	out := model.NicheAnalysis{
		TotalVideosInSelection: len(videos),
		TopVideos:              []model.ScoredVideo{},
		TopChannels:            []model.ChannelInSelection{},
		TrendingTopics:         []model.Topic{},
	}
	if len(videos) == 0 {
		return out
	}

	views := make([]int64, len(videos))
	var totalViews, totalInteractions int64
	for i, v := range videos {
		vc, likes, comments := videoCounts(v)
		views[i] = vc
		totalViews = addCounts(totalViews, vc)
		totalInteractions = addCounts(totalInteractions, addCounts(likes, comments))
	}
	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })

	out.AverageViews = round(float64(totalViews)/float64(len(videos)), 2)
	out.MedianViews = views[len(views)/2]
	out.MaxViews = views[len(views)-1]
	out.AverageEngagementRate = EngagementRate(totalViews, totalInteractions, 0)

	ranked := RankVideos(e.ScoreVideos(videos))
	out.TopVideos = ranked[:min(len(ranked), opts.TopVideos)]

	channels := channelsInSelection(videos)
	out.TopChannels = channels[:min(len(channels), opts.TopChannels)]
	out.TrendingTopics = e.ExtractTopics(videos, opts.TopTopics)
	return out
}

// channelsInSelection groups videos by channel id and ranks the groups by
// summed views. Equal totals keep first appearance.
func channelsInSelection(videos []model.Video) []model.ChannelInSelection {
	index := make(map[string]int)
	var out []model.ChannelInSelection
	for _, v := range videos {
		if v.ChannelID == "" {
			continue
		}
		i, ok := index[v.ChannelID]
		if !ok {
			i = len(out)
			index[v.ChannelID] = i
			out = append(out, model.ChannelInSelection{ChannelID: v.ChannelID, ChannelTitle: v.ChannelTitle})
		}
		views, _, _ := videoCounts(v)
		out[i].TotalViews = addCounts(out[i].TotalViews, views)
		out[i].VideoCount++
		if out[i].ChannelTitle == "" {
			out[i].ChannelTitle = v.ChannelTitle
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalViews > out[j].TotalViews
	})
	if out == nil {
		return []model.ChannelInSelection{}
	}
	return out
}

// CompareNiches analyses each niche independently. Niches are fanned out over
// at most Config.MaxConcurrency goroutines.
func (e *Engine) CompareNiches(niches map[string][]model.Video, opts NicheOptions) map[string]model.NicheAnalysis {
	names := sortedNames(niches)
	results := make([]model.NicheAnalysis, len(names))

	var g errgroup.Group
	g.SetLimit(e.cfg.MaxConcurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = e.AnalyzeNiche(niches[name], opts)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]model.NicheAnalysis, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out
}

// Compare runs CompareNiches and adds rankings and insights.
func (e *Engine) Compare(niches map[string][]model.Video, opts NicheOptions) model.NicheComparison {
	analyses := e.CompareNiches(niches, opts)
	rankings := RankNiches(analyses)
	return model.NicheComparison{
		Niches:   analyses,
		Rankings: rankings,
		Insights: NicheInsights(analyses, rankings),
	}
}

// RankNiches orders the non-empty niches by each metric, descending.
// Equal values are ordered by name.
func RankNiches(analyses map[string]model.NicheAnalysis) model.NicheRankings {
	var names []string
	for _, name := range sortedNames(analyses) {
		if analyses[name].TotalVideosInSelection > 0 {
			names = append(names, name)
		}
	}

	rank := func(metric func(model.NicheAnalysis) float64) []string {
		out := make([]string, len(names))
		copy(out, names)
		sort.SliceStable(out, func(i, j int) bool {
			return metric(analyses[out[i]]) > metric(analyses[out[j]])
		})
		return out
	}

	return model.NicheRankings{
		ByAverageViews:   rank(func(a model.NicheAnalysis) float64 { return a.AverageViews }),
		ByEngagementRate: rank(func(a model.NicheAnalysis) float64 { return a.AverageEngagementRate }),
		ByMaxViews:       rank(func(a model.NicheAnalysis) float64 { return float64(a.MaxViews) }),
	}
}

// NicheInsights describes the leading niches and the pairs of niches sharing
// at least two of their top five topics. At most five insights are returned.
func NicheInsights(analyses map[string]model.NicheAnalysis, rankings model.NicheRankings) []string {
	insights := make([]string, 0, maxInsights)

	if len(rankings.ByAverageViews) > 0 {
		top := rankings.ByAverageViews[0]
		insights = append(insights, fmt.Sprintf("The '%s' niche has the highest average views with %s views per video.",
			top, humanize.Comma(int64(analyses[top].AverageViews))))
	}
	if len(rankings.ByEngagementRate) > 0 {
		top := rankings.ByEngagementRate[0]
		insights = append(insights, fmt.Sprintf("The '%s' niche has the highest audience engagement with an aggregate engagement rate of %.1f%%.",
			top, analyses[top].AverageEngagementRate*100))
	}

	names := rankings.ByAverageViews
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if len(insights) >= maxInsights {
				return insights
			}
			shared := sharedTopics(analyses[sorted[i]], analyses[sorted[j]])
			if len(shared) >= minSharedTopics {
				insights = append(insights, fmt.Sprintf("The '%s' and '%s' niches share similar topics: %s.",
					sorted[i], sorted[j], strings.Join(shared, ", ")))
			}
		}
	}
	return insights[:min(len(insights), maxInsights)]
}

func sharedTopics(a, b model.NicheAnalysis) []string {
	inA := make(map[string]struct{})
	for _, t := range a.TrendingTopics[:min(len(a.TrendingTopics), overlapTopicPool)] {
		inA[t.Name] = struct{}{}
	}
	var shared []string
	for _, t := range b.TrendingTopics[:min(len(b.TrendingTopics), overlapTopicPool)] {
		if _, ok := inA[t.Name]; ok {
			shared = append(shared, t.Name)
		}
	}
	sort.Strings(shared)
	return shared
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
