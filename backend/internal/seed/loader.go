// Package seed builds the curated InstaVibe dataset and inserts it in one
// transaction.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"instavibe/backend/internal/store"
	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

// Result summarizes a committed seed run
type Result struct {
	Counts     map[string]int
	Skipped    []*apperrors.ErrRowValidation
	CommitTime time.Time
}

// Loader inserts a dataset through a transaction runner
type Loader struct {
	tx     store.TxRunner
	logger *zap.Logger
	opts   []Option
}

// NewLoader creates a loader. Options are passed to the Builder of every run.
func NewLoader(tx store.TxRunner, log *zap.Logger, opts ...Option) *Loader {
	return &Loader{
		tx:     tx,
		logger: logger.OrGet(log),
		opts:   opts,
	}
}

// Load builds ds and inserts every row in a single transaction. A contention
// abort is returned as a retryable error and is not retried; calling Load
// again rebuilds the plan with new ids.
func (l *Loader) Load(ctx context.Context, ds *Dataset) (*Result, error) {
	plan := NewBuilder(l.logger, l.opts...).Build(ds)
	result := &Result{Counts: plan.Counts(), Skipped: plan.Skipped}

	if plan.Empty() {
		l.logger.Info("No data generated to insert")
		return result, nil
	}
	batches := plan.Batches()

	l.logger.Info("Starting seed transaction", zap.Int("tables", len(batches)))
	commitTime, err := l.tx.RunInTransaction(ctx, func(ctx context.Context, tx store.Inserter) error {
		for _, batch := range batches {
			l.logger.Info("Inserting rows",
				zap.String("table", batch.Table.Name),
				zap.Int("rows", len(batch.Records)),
			)
			if err := tx.Insert(ctx, batch.Table, batch.Records); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", batch.Table.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.IsRetryable(err) {
			l.logger.Error("Seed transaction aborted by contention; nothing was written, re-run the loader", zap.Error(err))
			return nil, err
		}
		l.logger.Error("Seed transaction failed", zap.Error(err), zap.Stack("stack"))
		if apperrors.KindOf(err) == "" {
			err = apperrors.NewUnexpected("seed transaction", err)
		}
		return nil, err
	}

	result.CommitTime = commitTime
	l.logger.Info("Seed transaction committed",
		zap.Time("commit_time", commitTime),
		zap.Any("counts", result.Counts),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
