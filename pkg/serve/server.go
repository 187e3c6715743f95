package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/pombredanne/multifast/pkg/scanner"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming scanner
type Server struct {
	core    *scanner.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *scanner.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "scan":
		s.handleScan(req.Payload)
	case "scan_batch":
		s.handleScanBatch(req.Payload)
	case "redact":
		s.handleRedact(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	data, _ := json.Marshal(ReadyData{Version: Version})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "ready",
		Data:    data,
	})
}

func (s *Server) handleScan(payload json.RawMessage) {
	var p ScanPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("scan", err.Error())
		return
	}

	result, err := s.core.Scan(p.Content, p.Source)
	if err != nil {
		s.sendError("scan", err.Error())
		return
	}

	data, _ := json.Marshal(scanSummaryOf(result))
	s.encoder.Encode(Response{
		Success: true,
		Type:    "scan",
		Data:    data,
	})
}

func (s *Server) handleScanBatch(payload json.RawMessage) {
	var p ScanBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("scan_batch", err.Error())
		return
	}

	result, err := s.core.ScanBatch(p.Items)
	if err != nil {
		s.sendError("scan_batch", err.Error())
		return
	}

	summaries := make([]ScanSummary, len(result.Results))
	for i := range result.Results {
		summaries[i] = scanSummaryOf(&result.Results[i])
	}

	data, _ := json.Marshal(ScanBatchSummary{Results: summaries, Total: result.Total})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "scan_batch",
		Data:    data,
	})
}

// handleRedact rewrites every literal-keyword match in the payload through
// the same Replace/Flush path the redact CLI subcommand uses, so a host
// process gets the rewrite feature without shelling out per call.
func (s *Server) handleRedact(payload json.RawMessage) {
	var p RedactPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("redact", err.Error())
		return
	}

	redacted, err := s.core.Redact([]byte(p.Content))
	if err != nil {
		s.sendError("redact", err.Error())
		return
	}

	data, _ := json.Marshal(RedactData{Redacted: string(redacted)})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "redact",
		Data:    data,
	})
}

// scanSummaryOf flattens a scanner.ScanResult into the wire-facing
// ScanSummary, surfacing the distinct rule IDs a caller hit alongside the
// full finding list.
func scanSummaryOf(result *scanner.ScanResult) ScanSummary {
	seen := make(map[string]bool, len(result.Findings))
	ruleIDs := make([]string, 0, len(result.Findings))
	for _, f := range result.Findings {
		if !seen[f.RuleID] {
			seen[f.RuleID] = true
			ruleIDs = append(ruleIDs, f.RuleID)
		}
	}
	return ScanSummary{
		Source:   result.Source,
		Findings: result.Findings,
		RuleIDs:  ruleIDs,
	}
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
