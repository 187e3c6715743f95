package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	FindingsMerged    int
	SourcesProcessed int
}

// Merge combines multiple findings databases into one. Deduplication is
// handled via INSERT OR IGNORE on structural_id.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	destDB, err := sql.Open("sqlite", cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer destDB.Close()

	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	stats := &MergeStats{}

	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.FindingsMerged += sourceStats.FindingsMerged
		stats.SourcesProcessed++
	}

	return stats, nil
}

// mergeFrom copies findings from a source database to the destination.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	sourceDB, err := sql.Open("sqlite", sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	defer sourceDB.Close()

	stats := &MergeStats{}

	tx, err := destDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := mergeFindings(tx, sourceDB)
	if err != nil {
		return nil, fmt.Errorf("merging findings: %w", err)
	}
	stats.FindingsMerged = count

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return stats, nil
}

func mergeFindings(tx *sql.Tx, sourceDB *sql.DB) (int, error) {
	rows, err := sourceDB.Query(`
		SELECT structural_id, rule_id, rule_name, source, offset_start, offset_end,
		       start_line, start_column, end_line, end_column,
		       snippet_before, snippet_matching, snippet_after
		FROM findings
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO findings
		(structural_id, rule_id, rule_name, source, offset_start, offset_end,
		 start_line, start_column, end_line, end_column,
		 snippet_before, snippet_matching, snippet_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for rows.Next() {
		var structuralID, ruleID, ruleName, source string
		var offsetStart, offsetEnd int64
		var startLine, startColumn, endLine, endColumn int
		var snippetBefore, snippetMatching, snippetAfter []byte

		if err := rows.Scan(&structuralID, &ruleID, &ruleName, &source, &offsetStart, &offsetEnd,
			&startLine, &startColumn, &endLine, &endColumn,
			&snippetBefore, &snippetMatching, &snippetAfter); err != nil {
			return count, err
		}
		result, err := stmt.Exec(structuralID, ruleID, ruleName, source, offsetStart, offsetEnd,
			startLine, startColumn, endLine, endColumn,
			snippetBefore, snippetMatching, snippetAfter)
		if err != nil {
			return count, err
		}
		affected, _ := result.RowsAffected()
		if affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}
