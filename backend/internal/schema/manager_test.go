package schema

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "instavibe/backend/pkg/errors"
)

// fakeChanger records every DDL batch and remembers which statements ran,
// answering "already exists" the second time a statement is seen.
type fakeChanger struct {
	batches [][]string
	applied map[string]bool
	failOn  func(stmt string) error
}

func newFakeChanger() *fakeChanger {
	return &fakeChanger{applied: map[string]bool{}}
}

func (f *fakeChanger) ApplyDDL(_ context.Context, statements []string) error {
	f.batches = append(f.batches, statements)
	for _, stmt := range statements {
		if f.failOn != nil {
			if err := f.failOn(stmt); err != nil {
				return err
			}
		}
	}
	for _, stmt := range statements {
		if f.applied[stmt] && !strings.Contains(stmt, "IF NOT EXISTS") && !strings.Contains(stmt, "OR REPLACE") {
			return apperrors.NewSchemaBenign("duplicate", errors.New("already exists"))
		}
	}
	for _, stmt := range statements {
		f.applied[stmt] = true
	}
	return nil
}

func TestManager_SetupIsIdempotent(t *testing.T) {
	for _, dialect := range []Dialect{Spanner{}, Postgres{}} {
		t.Run(dialect.Name(), func(t *testing.T) {
			ctx := context.Background()
			changer := newFakeChanger()

			first := NewManager(changer, dialect, zaptest.NewLogger(t))
			require.NoError(t, first.Setup(ctx))
			assert.Equal(t, GraphReady, first.State())

			// A benign "already exists" on the rerun must not fail setup
			changer.failOn = func(string) error {
				return apperrors.NewSchemaBenign("CREATE", errors.New("AlreadyExists"))
			}
			second := NewManager(changer, dialect, zaptest.NewLogger(t))
			require.NoError(t, second.Setup(ctx))
			assert.Equal(t, GraphReady, second.State())
		})
	}
}

func TestManager_BatchingFollowsDialect(t *testing.T) {
	ctx := context.Background()

	spanner := newFakeChanger()
	require.NoError(t, NewManager(spanner, Spanner{}, zaptest.NewLogger(t)).Setup(ctx))
	assert.Len(t, spanner.batches, 2, "one batch per phase")

	pg := newFakeChanger()
	require.NoError(t, NewManager(pg, Postgres{}, zaptest.NewLogger(t)).Setup(ctx))
	assert.Len(t, pg.batches, len(Postgres{}.BaseStatements())+len(Postgres{}.GraphStatements(SocialGraph)))
}

func TestManager_BenignStatementDoesNotSkipTheRest(t *testing.T) {
	changer := newFakeChanger()
	changer.failOn = func(stmt string) error {
		if strings.Contains(stmt, "PersonByName") {
			return apperrors.NewSchemaBenign("index", errors.New("duplicate_object"))
		}
		return nil
	}

	m := NewManager(changer, Postgres{}, zaptest.NewLogger(t))
	require.NoError(t, m.ApplyBaseSchema(context.Background()))

	assert.True(t, changer.applied["CREATE INDEX IF NOT EXISTS TopicContentByPage ON TopicContent(topic_id, page_no)"])
	assert.Equal(t, BaseReady, m.State())
}

func TestManager_FatalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperrors.ErrorType
	}{
		{"syntax", apperrors.NewSchemaSyntax("CREATE TABL", errors.New("InvalidArgument")), apperrors.ErrorTypeSchemaSyntax},
		{"timeout", apperrors.NewSchemaTimeout("UpdateDatabaseDdl", 360*time.Second, context.DeadlineExceeded), apperrors.ErrorTypeSchemaTimeout},
		{"connectivity", apperrors.NewConnectivity("db", errors.New("NotFound")), apperrors.ErrorTypeConnectivity},
		{"unclassified", errors.New("socket closed"), apperrors.ErrorTypeUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changer := newFakeChanger()
			changer.failOn = func(string) error { return tt.err }

			m := NewManager(changer, Spanner{}, zaptest.NewLogger(t))
			err := m.Setup(context.Background())

			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
			assert.True(t, apperrors.IsFatal(err))
			assert.Equal(t, NotStarted, m.State())
			assert.Len(t, changer.batches, 1, "graph phase must not run after a failed base phase")
		})
	}
}

func TestManager_GraphRequiresBase(t *testing.T) {
	changer := newFakeChanger()
	m := NewManager(changer, Spanner{}, zaptest.NewLogger(t))

	err := m.ApplyGraphDefinition(context.Background())
	assert.ErrorIs(t, err, ErrBaseNotReady)
	assert.Empty(t, changer.batches)
	assert.Equal(t, NotStarted, m.State())
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("spanner")
	require.NoError(t, err)
	assert.Equal(t, "spanner", d.Name())

	d, err = DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = DialectFor("oracle")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}
