package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pombredanne/multifast/pkg/types"
)

// SQLiteStore implements Store using SQLite, via the pure-Go modernc.org/sqlite
// driver (no CGO required).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store. Use ":memory:" for an in-memory
// database.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddFinding stores a finding (deduplicated on StructuralID).
func (s *SQLiteStore) AddFinding(f *types.Finding) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO findings
		(structural_id, rule_id, rule_name, source, offset_start, offset_end,
		 start_line, start_column, end_line, end_column,
		 snippet_before, snippet_matching, snippet_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		f.StructuralID,
		f.RuleID,
		f.RuleName,
		f.Source,
		f.Location.Offset.Start,
		f.Location.Offset.End,
		f.Location.Source.Start.Line,
		f.Location.Source.Start.Column,
		f.Location.Source.End.Line,
		f.Location.Source.End.Column,
		f.Snippet.Before,
		f.Snippet.Matching,
		f.Snippet.After,
	)
	if err != nil {
		return fmt.Errorf("inserting finding: %w", err)
	}
	return nil
}

// FindingExists checks if a finding with this structural ID exists.
func (s *SQLiteStore) FindingExists(structuralID string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM findings WHERE structural_id = ?", structuralID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking finding existence: %w", err)
	}
	return count > 0, nil
}

// GetFindings retrieves all findings (for reporting).
func (s *SQLiteStore) GetFindings() ([]*types.Finding, error) {
	rows, err := s.db.Query(`
		SELECT structural_id, rule_id, rule_name, source, offset_start, offset_end,
		       start_line, start_column, end_line, end_column,
		       snippet_before, snippet_matching, snippet_after
		FROM findings
	`)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	var findings []*types.Finding
	for rows.Next() {
		var f types.Finding
		err := rows.Scan(
			&f.StructuralID, &f.RuleID, &f.RuleName, &f.Source,
			&f.Location.Offset.Start, &f.Location.Offset.End,
			&f.Location.Source.Start.Line, &f.Location.Source.Start.Column,
			&f.Location.Source.End.Line, &f.Location.Source.End.Column,
			&f.Snippet.Before, &f.Snippet.Matching, &f.Snippet.After,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		findings = append(findings, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating findings: %w", err)
	}
	return findings, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
