package model

// TrendRequest is the body of POST /api/trends/videos.
type TrendRequest struct {
	Videos     []Video `json:"videos"`
	MaxResults int     `json:"maxResults,omitempty"`
	TopTopics  int     `json:"topTopics,omitempty"`
	TopIdeas   int     `json:"topIdeas,omitempty"`
}

// ChannelTrendRequest is the body of POST /api/trends/channels.
type ChannelTrendRequest struct {
	Channels        []Channel          `json:"channels"`
	VideosByChannel map[string][]Video `json:"videosByChannel,omitempty"`
	MaxResults      int                `json:"maxResults,omitempty"`
}

// TopicsRequest is the body of POST /api/topics.
type TopicsRequest struct {
	Videos []Video `json:"videos"`
	Limit  int     `json:"limit,omitempty"`
}

// CompareRequest is the body of POST /api/compare.
type CompareRequest struct {
	Niches      map[string][]Video `json:"niches"`
	TopVideos   int                `json:"topVideos,omitempty"`
	TopChannels int                `json:"topChannels,omitempty"`
	TopTopics   int                `json:"topTopics,omitempty"`
}

// Envelope is the response wrapper shared by all analysis endpoints.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}
