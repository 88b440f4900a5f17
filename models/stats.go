package models

import "fmt"

// TimeRange is the closed set of reporting windows the backend accepts.
type TimeRange string

const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
	Range1y  TimeRange = "1y"
)

// Validate rejects unknown ranges at the call site instead of sending them
// to the server unchecked.
func (r TimeRange) Validate() error {
	switch r {
	case Range7d, Range30d, Range90d, Range1y:
		return nil
	}
	return fmt.Errorf("invalid time range %q", string(r))
}

// DashboardStats is recomputed server-side per fetch and replaced wholesale
// on the client; the console never merges two of these.
type DashboardStats struct {
	TotalProjects   int     `json:"totalProjects"`
	ActiveProjects  int     `json:"activeProjects"`
	TotalUsers      int     `json:"totalUsers"`
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
	TokensUsed      int64   `json:"tokensUsed"`
	APICalls        int64   `json:"apiCalls"`
	AvgResponseTime float64 `json:"avgResponseTime"`
	SuccessRate     float64 `json:"successRate"`
}
