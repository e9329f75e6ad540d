package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

// Qualitative tiers.
const (
	TierHigh        = "High"
	TierMedium      = "Medium"
	TierLow         = "Low"
	TierLowToMedium = "Low to Medium"
)

const (
	highViewsThreshold = 100_000
	lowViewsThreshold  = 10_000
	crowdedTopicVideos = 5
	nicheTopicVideos   = 2
	durationSampleSize = 5
)

// GenerateIdeas turns ranked topics into at most topN content suggestions,
// each anchored on an exemplar video where one exists. It returns an empty
// slice when there are no topics or no videos.
func (e *Engine) GenerateIdeas(topics []model.Topic, videos []model.ScoredVideo, topN int) []model.VideoIdea {
	ideas := make([]model.VideoIdea, 0)
	if len(topics) == 0 || len(videos) == 0 || topN <= 0 {
		return ideas
	}

	consider := min(len(topics), max(topN, e.cfg.MinIdeaTopics))
	ranked := RankVideos(videos)
	pool := ranked[:min(len(ranked), e.cfg.ExemplarPool)]
	format := e.formatLength(videos)

	for _, t := range topics[:consider] {
		if len(ideas) == topN {
			break
		}
		exemplar, ok := findExemplar(t, pool, ranked)
		if !ok {
			ideas = append(ideas, fallbackIdea(t, format))
			continue
		}
		ideas = append(ideas, composeIdea(t, exemplar.Video, format))
	}
	return ideas
}

// formatLength describes the typical length of the most viewed videos.
type formatLength struct {
	desc       string
	avgMinutes float64
}

func (e *Engine) formatLength(videos []model.ScoredVideo) formatLength {
	byViews := make([]model.Video, len(videos))
	for i, sv := range videos {
		byViews[i] = sv.Video
	}
	sort.SliceStable(byViews, func(i, j int) bool {
		return byViews[i].Views() > byViews[j].Views()
	})

	var total float64
	var n int
	for _, v := range byViews[:min(len(byViews), durationSampleSize)] {
		if v.Duration == "" {
			continue
		}
		secs := e.durationSeconds(v)
		if secs <= 0 {
			continue
		}
		total += secs / 60
		n++
	}

	avg := 10.0
	if n > 0 {
		avg = total / float64(n)
	}
	switch {
	case avg < 10:
		return formatLength{desc: "short (3-5 minute)", avgMinutes: avg}
	case avg < 20:
		return formatLength{desc: "medium (10-15 minute)", avgMinutes: avg}
	default:
		return formatLength{desc: "long-form (20+ minute)", avgMinutes: avg}
	}
}

// findExemplar prefers the best pooled video whose title mentions the topic,
// then the best-scored video with a title.
func findExemplar(t model.Topic, pool, ranked []model.ScoredVideo) (model.ScoredVideo, bool) {
	for _, sv := range pool {
		if strings.Contains(NormalizeTopic(sv.Video.Title), t.Name) {
			return sv, true
		}
	}
	for _, sv := range ranked {
		if strings.TrimSpace(sv.Video.Title) != "" {
			return sv, true
		}
	}
	return model.ScoredVideo{}, false
}

// ViewPotential maps a topic's average views to a tier.
func ViewPotential(avgViews float64) string {
	switch {
	case avgViews > highViewsThreshold:
		return TierHigh
	case avgViews < lowViewsThreshold:
		return TierLowToMedium
	default:
		return TierMedium
	}
}

// Competition maps a topic's size and average views to a tier.
func Competition(videoCount int, avgViews float64) string {
	switch {
	case videoCount >= crowdedTopicVideos && avgViews > highViewsThreshold:
		return TierHigh
	case videoCount <= nicheTopicVideos:
		return TierLow
	default:
		return TierMedium
	}
}

func composeIdea(t model.Topic, exemplar model.Video, f formatLength) model.VideoIdea {
	var title string
	switch {
	case strings.Contains(t.Name, "how to") || hasKeyword(t.Name, "guide", "tutorial"):
		title = fmt.Sprintf("Create a %s 'How To' video focusing on specific techniques or solutions", f.desc)
	case hasKeyword(t.Name, "review"):
		title = fmt.Sprintf("Produce a %s review video with clear pros and cons sections", f.desc)
	case hasKeyword(t.Name, "tip"):
		title = fmt.Sprintf("Make a %s tips video highlighting %s", f.desc, t.Name)
	case hasKeyword(t.Name, "top", "best"):
		size := 10
		if f.avgMinutes < 10 {
			size = 5
		}
		title = fmt.Sprintf("Create a %s 'Top %d' countdown video", f.desc, size)
	case hasKeyword(t.Name, "challenge"):
		title = fmt.Sprintf("Try a %s challenge video that others can replicate", f.desc)
	default:
		title = fmt.Sprintf("Create a %s video about '%s' with an eye-catching thumbnail", f.desc, t.Name)
	}

	desc := fmt.Sprintf("Modelled on %q (%s views). %s across %d video(s) averaging %s views.",
		exemplar.Title, humanize.Comma(exemplar.Views()), topicLabel(t.Name), t.VideoCount, humanize.Comma(int64(t.AvgViews)))

	return model.VideoIdea{
		Title:           title,
		Description:     desc,
		Topic:           t.Name,
		ViewPotential:   ViewPotential(t.AvgViews),
		Competition:     Competition(t.VideoCount, t.AvgViews),
		ExemplarVideoID: exemplar.ID,
	}
}

func fallbackIdea(t model.Topic, f formatLength) model.VideoIdea {
	desc := fmt.Sprintf("%s appears in %d video(s) averaging %s views. Study the format before committing.",
		topicLabel(t.Name), t.VideoCount, humanize.Comma(int64(t.AvgViews)))

	return model.VideoIdea{
		Title:         fmt.Sprintf("Create a %s video about '%s' with an eye-catching thumbnail", f.desc, t.Name),
		Description:   desc,
		Topic:         t.Name,
		ViewPotential: ViewPotential(t.AvgViews),
		Competition:   Competition(t.VideoCount, t.AvgViews),
	}
}

// hasKeyword reports whether any word of name is one of keywords or its
// plural. Digit placeholders glued to a word ("#tips", "top#") are ignored.
func hasKeyword(name string, keywords ...string) bool {
	for _, w := range strings.Fields(name) {
		w = strings.Trim(w, "#")
		for _, k := range keywords {
			if w == k || w == k+"s" {
				return true
			}
		}
	}
	return false
}

func topicLabel(name string) string {
	return fmt.Sprintf("The %q topic", name)
}
