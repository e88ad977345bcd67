// Package knowledge provides the similarity-search backend over a
// PostgreSQL + pgvector corpus.
//
// The corpus is searched through a SQL match function (default
// match_documents, see db/migrations) rather than inline SQL, matching the
// RPC-style contract of hosted pgvector backends. The function name is
// configurable so a deployment can point the widget at a different corpus
// procedure; results come back as loosely-typed rows and are normalized
// upstream in internal/rag.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// Querier is the slice of pgxpool.Pool the store needs. Defined here, by
// the consumer, so tests can substitute a fake.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// identifierPattern constrains the match function name. The name is
// interpolated into SQL (function names cannot be bind parameters), so
// anything outside a plain identifier is rejected at construction.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store runs vector similarity search against the document corpus.
// Safe for concurrent use; it holds only immutable fields and the pool.
type Store struct {
	db     Querier
	fn     string
	logger *slog.Logger
}

// New creates a Store that searches via the named match function.
func New(db Querier, matchFn string, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("querier is required")
	}
	if !identifierPattern.MatchString(matchFn) {
		return nil, fmt.Errorf("invalid match function name %q", matchFn)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, fn: matchFn, logger: logger}, nil
}

// Name returns the match function identifier, reported in answer metadata.
func (s *Store) Name() string {
	return s.fn
}

// Search invokes the match function with the query vector, result limit,
// and minimum-similarity threshold (0 = no filtering, enforced by the
// function itself). Rows are returned in the backend's ranking order as
// generic column→value maps; column naming is the function's business.
func (s *Store) Search(ctx context.Context, vector []float32, limit int, threshold float64) ([]map[string]any, error) {
	query := fmt.Sprintf(`SELECT * FROM %s($1, $2, $3)`, s.fn)

	rows, err := s.db.Query(ctx, query, pgvector.NewVector(vector), limit, threshold)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", s.fn, err)
	}
	defer rows.Close()

	var results []map[string]any
	for rows.Next() {
		values, valErr := rows.Values()
		if valErr != nil {
			return nil, fmt.Errorf("reading row from %s: %w", s.fn, valErr)
		}
		fields := rows.FieldDescriptions()
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			if i < len(values) {
				row[fd.Name] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s results: %w", s.fn, err)
	}

	s.logger.Debug("vector search completed", "fn", s.fn, "limit", limit, "rows", len(results))
	return results, nil
}
