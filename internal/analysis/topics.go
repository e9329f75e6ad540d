package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

type topicAcc struct {
	name         string
	views        int64
	interactions int64
	videos       int
	seen         map[string]struct{}
	order        int
}

// ExtractTopics mines titles (and tags, unless disabled) for the configured
// patterns and returns topics ranked by composite score. A video counts at
// most once per topic. topN <= 0 returns every topic.
func (e *Engine) ExtractTopics(videos []model.Video, topN int) []model.Topic {
	accs := make(map[string]*topicAcc)
	var order []*topicAcc

	for _, v := range videos {
		keys := e.topicKeys(v)
		if len(keys) == 0 {
			continue
		}
		views, likes, comments := videoCounts(v)

		for _, key := range keys {
			acc, ok := accs[key]
			if !ok {
				acc = &topicAcc{name: key, seen: make(map[string]struct{}), order: len(order)}
				accs[key] = acc
				order = append(order, acc)
			}
			// Records without an id are always distinct; topicKeys already
			// yields each key once per record.
			if v.ID != "" {
				if _, dup := acc.seen[v.ID]; dup {
					continue
				}
				acc.seen[v.ID] = struct{}{}
			}
			acc.videos++
			acc.views = addCounts(acc.views, views)
			acc.interactions = addCounts(acc.interactions, addCounts(likes, comments))
		}
	}

	topics := make([]model.Topic, 0, len(order))
	for _, acc := range order {
		n := float64(acc.videos)
		avgViews := float64(acc.views) / n
		avgEngagement := float64(acc.interactions) / n
		score := (math.Log1p(avgViews) + math.Log1p(avgEngagement)) * math.Log1p(n)
		topics = append(topics, model.Topic{
			Name:          acc.name,
			TotalViews:    acc.views,
			AvgViews:      round(avgViews, 2),
			AvgEngagement: round(avgEngagement, 2),
			VideoCount:    acc.videos,
			Score:         round(score, 4),
		})
	}

	// topics is in first-seen order, so a stable sort keeps it as the last tie-break.
	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Score != topics[j].Score {
			return topics[i].Score > topics[j].Score
		}
		return topics[i].VideoCount > topics[j].VideoCount
	})

	if topN > 0 && len(topics) > topN {
		topics = topics[:topN]
	}
	return topics
}

// topicKeys returns the distinct topic keys of one video in match order.
func (e *Engine) topicKeys(v model.Video) []string {
	var keys []string
	seen := make(map[string]struct{})
	add := func(key string) {
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	title := strings.ToLower(v.Title)
	for _, p := range e.patterns {
		for _, match := range p.re.FindAllString(title, -1) {
			if p.label != "" {
				add(p.label)
				break
			}
			add(NormalizeTopic(match))
		}
	}

	if !e.cfg.SkipTags {
		for _, tag := range v.Tags {
			if e.qualifyingTag(tag) {
				add(NormalizeTopic(tag))
			}
		}
	}
	return keys
}

func (e *Engine) qualifyingTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	words := len(strings.Fields(tag))
	return words >= 1 && words <= e.cfg.MaxTagWords && len([]rune(tag)) >= e.cfg.MinTagLength
}
