// Package pgstore implements the store capabilities on PostgreSQL using a
// pgx connection pool.
package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"instavibe/backend/internal/model"
	"instavibe/backend/internal/store"
	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

// Store is an open PostgreSQL database
type Store struct {
	pool       *pgxpool.Pool
	ddlTimeout time.Duration
	logger     *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open creates a pool for dsn and pings the server before returning
func Open(ctx context.Context, dsn string, ddlTimeout time.Duration, log *zap.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperrors.NewConnectivity("postgres", fmt.Errorf("invalid DATABASE_URL: %w", err))
	}
	target := fmt.Sprintf("%s/%s", cfg.ConnConfig.Host, cfg.ConnConfig.Database)
	log = logger.OrGet(log).With(zap.String("database", target))

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, apperrors.NewConnectivity(target, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewConnectivity(target, err)
	}

	log.Info("Connected to PostgreSQL")
	return &Store{pool: pool, ddlTimeout: ddlTimeout, logger: log}, nil
}

// Backend names the engine
func (s *Store) Backend() string { return "postgres" }

// Close closes the pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ApplyDDL runs the statements in one transaction; PostgreSQL DDL is
// transactional so a failed batch leaves nothing behind.
func (s *Store) ApplyDDL(ctx context.Context, statements []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.ddlTimeout)
	defer cancel()

	var failed string
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				failed = stmt
				return err
			}
		}
		return nil
	})
	if err != nil {
		if failed == "" {
			failed = strings.Join(statements, ";\n")
		}
		return classifyDDL(err, failed, s.ddlTimeout)
	}
	return nil
}

// RunInTransaction runs fn in a serializable transaction. Audit columns use
// their defaults, so the returned time is the transaction timestamp.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Inserter) error) (time.Time, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return time.Time{}, classifyTx(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &inserter{tx: tx}); err != nil {
		return time.Time{}, err
	}

	var commitTime time.Time
	if err := tx.QueryRow(ctx, "SELECT transaction_timestamp()").Scan(&commitTime); err != nil {
		return time.Time{}, classifyTx(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, classifyTx(err)
	}
	return commitTime.UTC(), nil
}

type inserter struct {
	tx pgx.Tx
}

// Insert streams the records with COPY
func (i *inserter) Insert(ctx context.Context, table model.Table, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := model.Batch{Table: table, Records: records}.Rows()

	copied, err := i.tx.CopyFrom(ctx, pgx.Identifier{strings.ToLower(table.Name)}, table.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return classifyTx(err)
	}
	if int(copied) != len(rows) {
		return apperrors.NewUnexpected("copy "+table.Name, fmt.Errorf("copied %d of %d rows", copied, len(rows)))
	}
	return nil
}

// Query runs a read with @name parameters
func (s *Store) Query(ctx context.Context, sql string, params []store.Param, columns []string) ([]store.Row, error) {
	args, err := store.NormalizeParams(params)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, pgx.NamedArgs(args))
	if err != nil {
		return nil, classifyQuery(sql, err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, classifyQuery(sql, err)
		}
		if len(values) != len(columns) {
			return nil, apperrors.NewQueryFailed(apperrors.ErrorTypeInvalidArgument, sql,
				fmt.Errorf("query returned %d columns, expected %d", len(values), len(columns)))
		}
		row := make(store.Row, len(columns))
		for n, col := range columns {
			row[col] = normalizeValue(values[n])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyQuery(sql, err)
	}
	return out, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC()
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	}
	return v
}
