package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"saas-admin-console/internal/api"
)

var exportFormats = map[string]bool{
	"csv":  true,
	"json": true,
	"xlsx": true,
}

// ExportData fetches a server-generated export as a raw payload; export
// endpoints return binary content on success, so no JSON decoding happens
// here.
func (s *AdminService) ExportData(ctx context.Context, kind, format string) ([]byte, error) {
	if kind == "" {
		return nil, api.NewValidationError("export kind is required")
	}
	if !exportFormats[format] {
		return nil, api.NewValidationError("invalid export format %q", format)
	}

	data, _, err := s.client.GetBinary(ctx, "/admin/export/"+url.PathEscape(kind)+"?format="+format)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ExportFilename is the deterministic local name for an export payload.
func ExportFilename(kind, format string, now time.Time) string {
	return fmt.Sprintf("%s_export_%s.%s", kind, now.UTC().Format("2006-01-02"), format)
}

// SaveExport writes an export payload under its deterministic filename and
// returns the full path.
func SaveExport(dir, kind, format string, data []byte) (string, error) {
	path := filepath.Join(dir, ExportFilename(kind, format, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	return path, nil
}
