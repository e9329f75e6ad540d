package model

// Channel is a flattened YouTube channel record.
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	SubscriberCount Count  `json:"subscriberCount"`
	VideoCount      Count  `json:"videoCount"`
	ViewCount       Count  `json:"viewCount"`
}

// ScoredChannel pairs a channel with its derived ranking score.
type ScoredChannel struct {
	Channel          Channel `json:"channel"`
	Score            float64 `json:"score"`
	PostingFrequency float64 `json:"postingFrequency"`
}

// ChannelInSelection aggregates the videos of one channel inside a single
// video selection. It says nothing about the channel as a whole.
type ChannelInSelection struct {
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	TotalViews   int64  `json:"totalViews"`
	VideoCount   int    `json:"videoCount"`
}

// SubscriberDistribution buckets channels by subscriber count.
type SubscriberDistribution struct {
	Small     int `json:"small"`
	Medium    int `json:"medium"`
	Large     int `json:"large"`
	VeryLarge int `json:"veryLarge"`
}

// ChannelTrendReport is the result of analysing a set of channels.
type ChannelTrendReport struct {
	TotalChannelsAnalyzed  int                    `json:"totalChannelsAnalyzed"`
	AverageSubscribers     float64                `json:"averageSubscribers"`
	TopChannels            []ScoredChannel        `json:"topChannels"`
	SubscriberDistribution SubscriberDistribution `json:"subscriberDistribution"`
	PostingFrequency       map[string]float64     `json:"postingFrequency"`
}
