package serve

import (
	"encoding/json"

	"github.com/pombredanne/multifast/pkg/scanner"
	"github.com/pombredanne/multifast/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"`    // "scan" | "scan_batch" | "redact" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ScanPayload is the payload for "scan" requests
type ScanPayload struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// ScanBatchPayload is the payload for "scan_batch" requests
type ScanBatchPayload struct {
	Items []scanner.ContentItem `json:"items"`
}

// RedactPayload is the payload for "redact" requests. Content is redacted
// through the shared literal-keyword automaton the same way cmd/multifast's
// redact subcommand does, so a host process gets the rewrite path without
// spawning a CLI process per call.
type RedactPayload struct {
	Content string `json:"content"`
}

// RedactData is the data field for "redact" responses.
type RedactData struct {
	Redacted string `json:"redacted"`
}

// ScanSummary is the data field for "scan" responses: the full per-finding
// result plus the distinct rule IDs that fired, named explicitly rather than
// re-marshaling scanner.ScanResult opaquely.
type ScanSummary struct {
	Source   string          `json:"source"`
	Findings []types.Finding `json:"findings"`
	RuleIDs  []string        `json:"ruleIds"`
}

// ScanBatchSummary is the data field for "scan_batch" responses.
type ScanBatchSummary struct {
	Results []ScanSummary `json:"results"`
	Total   int           `json:"total"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"`              // "ready" | "scan" | "scan_batch" | "redact" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}
