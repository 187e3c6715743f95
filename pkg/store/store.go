package store

import "github.com/pombredanne/multifast/pkg/types"

// Store provides persistence for scan findings. This interface abstracts
// the underlying storage implementation: in-memory, SQLite or Postgres.
type Store interface {
	// AddFinding stores a finding, deduplicated on StructuralID.
	AddFinding(f *types.Finding) error

	// FindingExists checks if a finding with this structural ID exists.
	FindingExists(structuralID string) (bool, error)

	// GetFindings retrieves all findings (for reporting).
	GetFindings() ([]*types.Finding, error)

	// Close releases the store's resources.
	Close() error
}

// Config selects and configures a Store backend.
type Config struct {
	// Path is a SQLite database file path. "" and ":memory:" both select
	// the in-memory backend; anything else opens (or creates) a SQLite
	// file via modernc.org/sqlite.
	Path string

	// DSN, if set, selects the Postgres backend and is passed to pgxpool.
	DSN string
}

// New creates a Store for cfg. DSN takes precedence over Path.
func New(cfg Config) (Store, error) {
	if cfg.DSN != "" {
		return NewPostgres(cfg.DSN)
	}
	if cfg.Path == "" || cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
