package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HassanAliMAli/you-trend/internal/model"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	e, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return e
}

func video(id, title string, views, likes, comments int64) model.Video {
	return model.Video{
		ID:    id,
		Title: title,
		Statistics: &model.VideoStats{
			ViewCount:    model.Count(views),
			LikeCount:    model.Count(likes),
			CommentCount: model.Count(comments),
		},
	}
}

func daysAgo(d int) string {
	return testNow.AddDate(0, 0, -d).Format(time.RFC3339)
}
