package models

import (
	"io"
	"time"
)

// Project statuses owned by the backend. The console never invents others.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusExpired   = "expired"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusSuspended, StatusExpired:
		return true
	}
	return false
}

type Project struct {
	ProjectID         string    `json:"project_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Status            string    `json:"status"`
	TotalTokensUsed   int       `json:"total_tokens_used"`
	MonthlyTokenLimit int       `json:"monthly_token_limit"`
	CreatedAt         time.Time `json:"created_at"`
	ClientEmail       string    `json:"client_email,omitempty"`
	ClientName        string    `json:"client_name,omitempty"`
	Company           string    `json:"company,omitempty"`
	PDFFilesCount     int       `json:"pdf_files_count,omitempty"`
}

// UsagePercent tolerates zero limits and usage overflowing the limit; the
// backend is expected to keep used <= limit but the console must not rely
// on it.
func (p *Project) UsagePercent() float64 {
	if p.MonthlyTokenLimit <= 0 {
		return 0
	}
	return float64(p.TotalTokensUsed) / float64(p.MonthlyTokenLimit) * 100
}

// ProjectDraft is the create/update payload. Field names mirror the wire
// contract of the admin API.
type ProjectDraft struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	ClientEmail       string `json:"client_email,omitempty"`
	ClientName        string `json:"client_name,omitempty"`
	Company           string `json:"company,omitempty"`
	MonthlyTokenLimit int    `json:"monthly_token_limit,omitempty"`
	WelcomeMessage    string `json:"welcome_message,omitempty"`
	Theme             string `json:"theme,omitempty"`
	PrimaryColor      string `json:"primary_color,omitempty"`
}

// ProjectFile is one reference document attached to a create request.
type ProjectFile struct {
	Name   string
	Reader io.Reader
}

// ProjectStatusUpdate is the response of a status change: the backend
// returns only the mutated fields, the caller merges them into its cache.
type ProjectStatusUpdate struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
}
