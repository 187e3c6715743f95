package scanner

import "github.com/pombredanne/multifast/pkg/types"

// ContentItem represents a content item to scan.
type ContentItem struct {
	Source   string            `json:"source"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScanResult represents scan results for a single item.
type ScanResult struct {
	Source   string          `json:"source"`
	Findings []types.Finding `json:"findings"`
}

// BatchScanResult represents batch scan results.
type BatchScanResult struct {
	Results []ScanResult `json:"results"`
	Total   int          `json:"total"`
}

// DebugLogger provides platform-specific logging.
type DebugLogger interface {
	Log(format string, args ...interface{})
}

// NoopLogger is a no-op logger.
type NoopLogger struct{}

func (NoopLogger) Log(format string, args ...interface{}) {}
