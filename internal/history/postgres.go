package history

import (
	"context"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var runColumns = []string{
	"document", "document_hash", "script", "stage",
	"success", "message", "score", "result", "recorded_at",
}

// Schema returns the DDL that creates the run table and its lookup index.
func Schema(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id            BIGSERIAL PRIMARY KEY,
	document      TEXT        NOT NULL,
	document_hash TEXT        NOT NULL,
	script        TEXT        NOT NULL,
	stage         TEXT        NOT NULL,
	success       BOOLEAN     NOT NULL,
	message       TEXT        NOT NULL,
	score         INTEGER     NOT NULL,
	result        JSONB       NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS %[1]s_document_hash_idx ON %[1]s (document_hash, recorded_at DESC);`, table)
}

// PostgresStore keeps runs in a Postgres table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
	psql  sq.StatementBuilderType
}

var _ Store = (*PostgresStore)(nil)

// Open connects to dsn and makes sure the run table exists.
func Open(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid history table name %q", table)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to history database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}
	s := newPostgresStore(pool, table)
	if _, err := pool.Exec(ctx, Schema(table)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}
	return s, nil
}

func newPostgresStore(pool *pgxpool.Pool, table string) *PostgresStore {
	return &PostgresStore{
		pool:  pool,
		table: table,
		psql:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Record inserts run.
func (s *PostgresStore) Record(ctx context.Context, run Run) error {
	query, args, err := s.insertQuery(run)
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns up to limit runs for a document hash, newest first.
func (s *PostgresStore) List(ctx context.Context, documentHash string, limit int) ([]Run, error) {
	query, args, err := s.listQuery(documentHash, limit)
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Document, &r.DocumentHash, &r.Script, &r.Stage,
			&r.Success, &r.Message, &r.Score, &r.Result, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return runs, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) insertQuery(run Run) (string, []any, error) {
	return s.psql.Insert(s.table).
		Columns(runColumns...).
		Values(run.Document, run.DocumentHash, run.Script, run.Stage,
			run.Success, run.Message, run.Score, run.Result, run.RecordedAt).
		ToSql()
}

func (s *PostgresStore) listQuery(documentHash string, limit int) (string, []any, error) {
	q := s.psql.Select(append([]string{"id"}, runColumns...)...).
		From(s.table).
		Where(sq.Eq{"document_hash": documentHash}).
		OrderBy("recorded_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q.ToSql()
}
