package models

import "time"

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"messages"`
}

type DailyTokens struct {
	Date   string `json:"date"`
	Tokens int    `json:"tokens"`
}

// ProjectAnalytics is the per-project usage breakdown for one time range.
type ProjectAnalytics struct {
	TotalMessages   int           `json:"totalMessages"`
	TokensUsed      int64         `json:"tokensUsed"`
	AvgResponseTime float64       `json:"avgResponseTime"`
	EstimatedCost   float64       `json:"estimatedCost"`
	DailyMessages   []DailyCount  `json:"dailyMessages"`
	TokenUsage      []DailyTokens `json:"tokenUsage"`
}

// SystemAnalytics is the platform-wide aggregate for one time range.
type SystemAnalytics struct {
	TotalMessages int64         `json:"totalMessages"`
	TokensUsed    int64         `json:"tokensUsed"`
	ActiveUsers   int           `json:"activeUsers"`
	DailyMessages []DailyCount  `json:"dailyMessages"`
	TokenUsage    []DailyTokens `json:"tokenUsage"`
}

type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	ProjectID string    `json:"project_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
