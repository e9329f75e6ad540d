package model

// Topic is a recurring title format or keyword ranked by aggregate performance.
type Topic struct {
	Name          string  `json:"name"`
	TotalViews    int64   `json:"totalViews"`
	AvgViews      float64 `json:"avgViews"`
	AvgEngagement float64 `json:"avgEngagement"`
	VideoCount    int     `json:"videoCount"`
	Score         float64 `json:"score"`
}

// VideoIdea is a generated content suggestion.
type VideoIdea struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Topic           string `json:"topic"`
	ViewPotential   string `json:"viewPotential"`
	Competition     string `json:"competition"`
	ExemplarVideoID string `json:"exemplarVideoId,omitempty"`
}

// MetadataInsights summarises presentation metadata of a video set.
type MetadataInsights struct {
	AvgTitleLength     float64        `json:"avgTitleLength"`
	AvgDurationSeconds float64        `json:"avgDurationSeconds"`
	ThumbnailQuality   map[string]int `json:"thumbnailQuality"`
}

// TrendReport is the result of analysing one video set.
// TotalVideosAnalyzed is authoritative for whether there was anything to analyse.
type TrendReport struct {
	TotalVideosAnalyzed   int              `json:"totalVideosAnalyzed"`
	AverageViews          float64          `json:"averageViews"`
	AverageEngagementRate float64          `json:"averageEngagementRate"`
	TopVideos             []ScoredVideo    `json:"topVideos"`
	TrendingTopics        []Topic          `json:"trendingTopics"`
	VideoIdeas            []VideoIdea      `json:"videoIdeas"`
	MetadataInsights      MetadataInsights `json:"metadataInsights"`
}

// NicheAnalysis is the per-niche result of a comparison.
type NicheAnalysis struct {
	TotalVideosInSelection int                  `json:"totalVideosInSelection"`
	AverageViews           float64              `json:"averageViews"`
	MedianViews            int64                `json:"medianViews"`
	MaxViews               int64                `json:"maxViews"`
	AverageEngagementRate  float64              `json:"averageEngagementRate"`
	TopVideos              []ScoredVideo        `json:"topVideos"`
	TopChannels            []ChannelInSelection `json:"topChannels"`
	TrendingTopics         []Topic              `json:"trendingTopics"`
}

// NicheRankings orders non-empty niches by each comparison metric.
type NicheRankings struct {
	ByAverageViews   []string `json:"byAverageViews"`
	ByEngagementRate []string `json:"byEngagementRate"`
	ByMaxViews       []string `json:"byMaxViews"`
}

// NicheComparison bundles per-niche analyses with cross-niche rankings.
type NicheComparison struct {
	Niches   map[string]NicheAnalysis `json:"niches"`
	Rankings NicheRankings            `json:"rankings"`
	Insights []string                 `json:"insights"`
}
