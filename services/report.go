package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"saas-admin-console/models"
)

// ReportService builds local XLSX usage reports from already-fetched
// dashboard data, so an admin can hand a workbook to finance without a
// server round trip.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// BuildUsageWorkbook renders the aggregate stats and the project list into
// a two-sheet workbook.
func (rs *ReportService) BuildUsageWorkbook(stats models.DashboardStats, projects []models.Project) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const overview = "Overview"
	if err := f.SetSheetName("Sheet1", overview); err != nil {
		return nil, fmt.Errorf("rename overview sheet: %w", err)
	}

	overviewRows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Projects", stats.TotalProjects},
		{"Active Projects", stats.ActiveProjects},
		{"Total Users", stats.TotalUsers},
		{"Monthly Revenue", stats.MonthlyRevenue},
		{"Tokens Used", stats.TokensUsed},
		{"API Calls", stats.APICalls},
		{"Avg Response Time (s)", stats.AvgResponseTime},
		{"Success Rate (%)", stats.SuccessRate},
	}
	for i, row := range overviewRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(overview, cell, &row); err != nil {
			return nil, fmt.Errorf("write overview row %d: %w", i+1, err)
		}
	}

	const sheet = "Projects"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create projects sheet: %w", err)
	}

	header := []interface{}{"Project ID", "Name", "Status", "Client Email", "Tokens Used", "Token Limit", "Usage %", "PDF Files", "Created"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write projects header: %w", err)
	}

	for i, p := range projects {
		row := []interface{}{
			p.ProjectID,
			p.Name,
			p.Status,
			p.ClientEmail,
			p.TotalTokensUsed,
			p.MonthlyTokenLimit,
			p.UsagePercent(),
			p.PDFFilesCount,
			p.CreatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write project row %d: %w", i+2, err)
		}
	}

	return f.WriteToBuffer()
}

// SaveUsageReport writes the workbook next to the exports, named the same
// deterministic way.
func (rs *ReportService) SaveUsageReport(dir string, stats models.DashboardStats, projects []models.Project) (string, error) {
	buf, err := rs.BuildUsageWorkbook(stats, projects)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ExportFilename("usage_report", "xlsx", time.Now()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("save usage report: %w", err)
	}
	return path, nil
}
