// Package spannerstore implements the store capabilities on Cloud Spanner.
package spannerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"go.uber.org/zap"

	"instavibe/backend/internal/model"
	"instavibe/backend/internal/store"
	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

// Store is an open Spanner database. The data client and the admin client
// share its lifetime; Close releases both.
type Store struct {
	client     *spanner.Client
	admin      *database.DatabaseAdminClient
	dbPath     string
	ddlTimeout time.Duration
	logger     *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to dbPath (projects/P/instances/I/databases/D) and checks
// that the database exists. SPANNER_EMULATOR_HOST is honored by the client
// libraries.
func Open(ctx context.Context, dbPath string, ddlTimeout time.Duration, log *zap.Logger) (*Store, error) {
	log = logger.OrGet(log).With(zap.String("database", dbPath))

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return nil, apperrors.NewConnectivity(dbPath, err)
	}

	if _, err := admin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: dbPath}); err != nil {
		_ = admin.Close()
		return nil, apperrors.NewConnectivity(dbPath, err)
	}

	client, err := spanner.NewClient(ctx, dbPath)
	if err != nil {
		_ = admin.Close()
		return nil, apperrors.NewConnectivity(dbPath, err)
	}

	log.Info("Connected to Spanner")
	return &Store{
		client:     client,
		admin:      admin,
		dbPath:     dbPath,
		ddlTimeout: ddlTimeout,
		logger:     log,
	}, nil
}

// Backend names the engine
func (s *Store) Backend() string { return "spanner" }

// Close releases the data and admin clients
func (s *Store) Close() error {
	s.client.Close()
	return s.admin.Close()
}

// ApplyDDL submits statements as one schema update and waits for the
// long-running operation, bounded by the configured timeout.
func (s *Store) ApplyDDL(ctx context.Context, statements []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.ddlTimeout)
	defer cancel()

	op, err := s.admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   s.dbPath,
		Statements: statements,
	})
	if err != nil {
		return classifyDDL(err, statements, s.ddlTimeout)
	}

	s.logger.Debug("Waiting for DDL operation to complete", zap.String("operation", op.Name()))
	if err := op.Wait(ctx); err != nil {
		return classifyDDL(err, statements, s.ddlTimeout)
	}
	return nil
}

// RunInTransaction runs fn in a read-write transaction that is committed
// once. Spanner's client normally retries aborted transactions; this one
// reports the abort instead.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Inserter) error) (time.Time, error) {
	txn, err := spanner.NewReadWriteStmtBasedTransaction(ctx, s.client)
	if err != nil {
		return time.Time{}, classifyCommit(err)
	}

	if err := fn(ctx, &inserter{txn: txn}); err != nil {
		txn.Rollback(ctx)
		return time.Time{}, err
	}

	commitTime, err := txn.Commit(ctx)
	if err != nil {
		return time.Time{}, classifyCommit(err)
	}
	return commitTime, nil
}

type inserter struct {
	txn *spanner.ReadWriteStmtBasedTransaction
}

// Insert buffers one insert mutation per record. The audit column gets the
// commit timestamp.
func (i *inserter) Insert(_ context.Context, table model.Table, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	return i.txn.BufferWrite(mutations(table, records))
}

func mutations(table model.Table, records []model.Record) []*spanner.Mutation {
	columns := make([]string, 0, len(table.Columns)+1)
	columns = append(columns, table.Columns...)
	columns = append(columns, table.AuditColumn)

	ms := make([]*spanner.Mutation, 0, len(records))
	for _, r := range records {
		values := r.Values()
		row := make([]any, 0, len(columns))
		for _, v := range values {
			row = append(row, toSpannerValue(v))
		}
		row = append(row, spanner.CommitTimestamp)
		ms = append(ms, spanner.Insert(table.Name, columns, row))
	}
	return ms
}

func toSpannerValue(v any) any {
	if raw, ok := v.(json.RawMessage); ok {
		return spanner.NullJSON{Value: raw, Valid: raw != nil}
	}
	return v
}

// Query runs a single-use read. Values are decoded by position into the
// caller's column names.
func (s *Store) Query(ctx context.Context, sql string, params []store.Param, columns []string) ([]store.Row, error) {
	args, err := store.NormalizeParams(params)
	if err != nil {
		return nil, err
	}

	iter := s.client.Single().Query(ctx, spanner.Statement{SQL: sql, Params: args})
	defer iter.Stop()

	var rows []store.Row
	err = iter.Do(func(r *spanner.Row) error {
		if r.Size() != len(columns) {
			return apperrors.NewQueryFailed(apperrors.ErrorTypeInvalidArgument, sql,
				fmt.Errorf("query returned %d columns, expected %d", r.Size(), len(columns)))
		}
		row := make(store.Row, len(columns))
		for i, col := range columns {
			var gcv spanner.GenericColumnValue
			if err := r.Column(i, &gcv); err != nil {
				return fmt.Errorf("failed to read column %s: %w", col, err)
			}
			v, err := decodeValue(gcv)
			if err != nil {
				return fmt.Errorf("failed to decode column %s: %w", col, err)
			}
			row[col] = v
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != "" {
			return nil, err
		}
		return nil, classifyQuery(sql, err)
	}
	return rows, nil
}
