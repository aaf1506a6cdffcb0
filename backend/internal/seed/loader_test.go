package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"instavibe/backend/internal/model"
	"instavibe/backend/internal/store"
	apperrors "instavibe/backend/pkg/errors"
)

type recordingInserter struct {
	batches []model.Batch
	failOn  string
	err     error
}

func (r *recordingInserter) Insert(_ context.Context, table model.Table, records []model.Record) error {
	if table.Name == r.failOn {
		return r.err
	}
	r.batches = append(r.batches, model.Batch{Table: table, Records: records})
	return nil
}

// fakeTx commits whatever the unit of work inserted unless commitErr is set
type fakeTx struct {
	calls     int
	committed []model.Batch
	commitErr error
	failOn    string
	insertErr error
}

var fakeCommitTime = time.Date(2025, 4, 10, 12, 0, 1, 0, time.UTC)

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(context.Context, store.Inserter) error) (time.Time, error) {
	f.calls++
	ins := &recordingInserter{failOn: f.failOn, err: f.insertErr}
	if err := fn(ctx, ins); err != nil {
		return time.Time{}, err
	}
	if f.commitErr != nil {
		return time.Time{}, f.commitErr
	}
	f.committed = ins.batches
	return fakeCommitTime, nil
}

func TestLoader_CommitsPlanInOrder(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	tx := &fakeTx{}
	res, err := NewLoader(tx, zaptest.NewLogger(t)).Load(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, fakeCommitTime, res.CommitTime)
	assert.Len(t, res.Skipped, 2)
	assert.Equal(t, 30, res.Counts["Friendship"])

	require.Len(t, tx.committed, len(model.InsertOrder))
	for i, b := range tx.committed {
		assert.Equal(t, model.InsertOrder[i].Name, b.Table.Name)
		assert.Equal(t, res.Counts[b.Table.Name], len(b.Records))
	}
}

func TestLoader_AbortIsRetryableAndNotRetried(t *testing.T) {
	tx := &fakeTx{commitErr: apperrors.NewTransactionAborted(errors.New("ABORTED"))}
	ds := &Dataset{People: people("Alice")}

	res, err := NewLoader(tx, zaptest.NewLogger(t)).Load(context.Background(), ds)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, 1, tx.calls)
}

func TestLoader_InsertFailureIsUnexpected(t *testing.T) {
	tx := &fakeTx{failOn: "Post", insertErr: errors.New("row too large")}
	ds := &Dataset{
		People: people("Alice"),
		Posts:  []PostSeed{{Author: "Alice", Text: "x", Sentiment: "neutral"}},
	}

	_, err := NewLoader(tx, zaptest.NewLogger(t)).Load(context.Background(), ds)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUnexpected, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "failed to insert into Post")
	assert.False(t, apperrors.IsRetryable(err))
	assert.Nil(t, tx.committed)
}

func TestLoader_EmptyPlanSkipsTransaction(t *testing.T) {
	tx := &fakeTx{}
	res, err := NewLoader(tx, zaptest.NewLogger(t)).Load(context.Background(), &Dataset{})

	require.NoError(t, err)
	assert.Equal(t, 0, tx.calls)
	assert.True(t, res.CommitTime.IsZero())
	assert.Empty(t, res.Counts)
}

func TestPlan_Empty(t *testing.T) {
	assert.True(t, (&Plan{}).Empty())
	assert.False(t, (&Plan{People: []model.Person{{PersonID: "p1", Name: "Zed"}}}).Empty())
}

func TestLoader_RerunRebuildsWithNewIDs(t *testing.T) {
	ds := &Dataset{People: people("Alice")}
	tx := &fakeTx{}
	loader := NewLoader(tx, zaptest.NewLogger(t))

	_, err := loader.Load(context.Background(), ds)
	require.NoError(t, err)
	firstID := tx.committed[0].Records[0].(model.Person).PersonID

	_, err = loader.Load(context.Background(), ds)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, tx.committed[0].Records[0].(model.Person).PersonID)
}
