package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

func TestScoreChannel_SubscribersOnly(t *testing.T) {
	e := newTestEngine(t)

	ch := model.Channel{ID: "c1", SubscriberCount: 200_000_000}
	assert.Equal(t, 0.3, e.ScoreChannel(ch, nil))
	assert.Equal(t, 0.0, e.ScoreChannel(model.Channel{ID: "c0"}, nil))
}

func TestScoreChannel_AllTerms(t *testing.T) {
	e := newTestEngine(t)

	ch := model.Channel{ID: "c1", SubscriberCount: 200_000_000}
	a := video("a", "x", 50_000_000, 0, 0)
	a.PublishedAt = daysAgo(30)
	b := video("b", "x", 50_000_000, 0, 0)
	b.PublishedAt = daysAgo(0)

	// 2 uploads over 30 days is 2 per month: 0.3 + 0.4 + 0.3*2/30
	assert.InDelta(t, 0.72, e.ScoreChannel(ch, []model.Video{a, b}), 1e-9)
}

func TestScoreChannel_Range(t *testing.T) {
	e := newTestEngine(t)

	videos := make([]model.Video, 0, 40)
	for i := range 40 {
		v := video("v", "x", 900_000_000, 0, 0)
		v.PublishedAt = daysAgo(i % 2)
		videos = append(videos, v)
	}
	s := e.ScoreChannel(model.Channel{ID: "big", SubscriberCount: 900_000_000}, videos)
	assert.Equal(t, 1.0, s)
}

func TestPostingFrequency(t *testing.T) {
	e := newTestEngine(t)

	dated := func(days ...int) []model.Video {
		out := make([]model.Video, len(days))
		for i, d := range days {
			out[i] = model.Video{ID: "v", PublishedAt: daysAgo(d)}
		}
		return out
	}

	tests := []struct {
		name   string
		videos []model.Video
		want   float64
	}{
		{"none", nil, 0},
		{"single", dated(3), 0},
		{"same day", dated(2, 2), 0},
		{"weekly", dated(0, 7, 14, 21, 28), 5.0 / 28 * 30},
		{"undated ignored", append(dated(0, 10), model.Video{ID: "u"}, model.Video{ID: "bad", PublishedAt: "soon"}), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.PostingFrequency(tt.videos), 1e-9)
		})
	}
}

func TestScoreChannels_InputOrder(t *testing.T) {
	e := newTestEngine(t)
	channels := []model.Channel{{ID: "small", SubscriberCount: 10}, {ID: "large", SubscriberCount: 10_000_000}}

	scored := e.ScoreChannels(channels, map[string][]model.Video{
		"large": {
			{ID: "a", PublishedAt: daysAgo(0)},
			{ID: "b", PublishedAt: daysAgo(15)},
		},
	})
	assert.Equal(t, "small", scored[0].Channel.ID)
	assert.Equal(t, "large", scored[1].Channel.ID)
	assert.Equal(t, 0.0, scored[0].PostingFrequency)
	assert.Equal(t, 4.0, scored[1].PostingFrequency)
}
