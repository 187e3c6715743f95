package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pombredanne/multifast/pkg/types"
)

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS findings (
	structural_id TEXT PRIMARY KEY,
	rule_id TEXT NOT NULL,
	rule_name TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	offset_start BIGINT NOT NULL,
	offset_end BIGINT NOT NULL,
	start_line INTEGER NOT NULL DEFAULT 0,
	start_column INTEGER NOT NULL DEFAULT 0,
	end_line INTEGER NOT NULL DEFAULT 0,
	end_column INTEGER NOT NULL DEFAULT 0,
	snippet_before BYTEA,
	snippet_matching BYTEA,
	snippet_after BYTEA
);
`

// PostgresStore implements Store against a Postgres database via pgx/v5's
// connection pool. Repurposed from the teacher's pgconn-based credential
// validator into a findings-persistence backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed store, connecting with dsn and
// ensuring the findings schema exists.
func NewPostgres(dsn string) (*PostgresStore, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// AddFinding stores a finding (deduplicated on StructuralID).
func (s *PostgresStore) AddFinding(f *types.Finding) error {
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO findings
		(structural_id, rule_id, rule_name, source, offset_start, offset_end,
		 start_line, start_column, end_line, end_column,
		 snippet_before, snippet_matching, snippet_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (structural_id) DO NOTHING
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
func (s *PostgresStore) FindingExists(structuralID string) (bool, error) {
	var count int
	err := s.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM findings WHERE structural_id = $1`, structuralID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking finding existence: %w", err)
	}
	return count > 0, nil
}

// GetFindings retrieves all findings (for reporting).
func (s *PostgresStore) GetFindings() ([]*types.Finding, error) {
	rows, err := s.pool.Query(context.Background(), `
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

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
