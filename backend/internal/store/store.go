// Package store declares the database capabilities the schema manager, the
// seed loader and the read path depend on. Backends live in subpackages.
package store

import (
	"context"
	"fmt"
	"time"

	"instavibe/backend/internal/model"
	apperrors "instavibe/backend/pkg/errors"
)

// SchemaChanger applies DDL and blocks until it is done or the backend's
// bounded wait elapses.
type SchemaChanger interface {
	ApplyDDL(ctx context.Context, statements []string) error
}

// Inserter writes rows inside a running transaction
type Inserter interface {
	Insert(ctx context.Context, table model.Table, records []model.Record) error
}

// TxRunner runs one atomic unit of work. A contention abort is returned as
// a transaction_aborted error and is never retried here.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Inserter) error) (time.Time, error)
}

// Querier runs a read query with typed named parameters. Columns names the
// result columns in select-list order.
type Querier interface {
	Query(ctx context.Context, sql string, params []Param, columns []string) ([]Row, error)
}

// Store bundles the capabilities of one open database handle
type Store interface {
	SchemaChanger
	TxRunner
	Querier
	Backend() string
	Close() error
}

// Row maps column name to value
type Row map[string]any

// ParamType is the declared type of a query parameter
type ParamType int

const (
	ParamString ParamType = iota
	ParamInt64
	ParamFloat64
	ParamBool
	ParamTimestamp
)

func (t ParamType) String() string {
	switch t {
	case ParamString:
		return "STRING"
	case ParamInt64:
		return "INT64"
	case ParamFloat64:
		return "FLOAT64"
	case ParamBool:
		return "BOOL"
	case ParamTimestamp:
		return "TIMESTAMP"
	}
	return fmt.Sprintf("ParamType(%d)", int(t))
}

// Param is a named query parameter, referenced as @Name in SQL
type Param struct {
	Name  string
	Type  ParamType
	Value any
}

// StringParam, Int64Param and TimestampParam build common parameters
func StringParam(name, v string) Param { return Param{Name: name, Type: ParamString, Value: v} }
func Int64Param(name string, v int64) Param { return Param{Name: name, Type: ParamInt64, Value: v} }
func TimestampParam(name string, v time.Time) Param { return Param{Name: name, Type: ParamTimestamp, Value: v} }

// Normalize coerces Value to the Go type for its declared type. Values that
// cannot be represented are an invalid_argument error.
func (p Param) Normalize() (any, error) {
	if p.Value == nil {
		return nil, nil
	}
	switch p.Type {
	case ParamString:
		if s, ok := p.Value.(string); ok {
			return s, nil
		}
	case ParamInt64:
		switch v := p.Value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		}
	case ParamFloat64:
		switch v := p.Value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case ParamBool:
		if b, ok := p.Value.(bool); ok {
			return b, nil
		}
	case ParamTimestamp:
		if ts, ok := p.Value.(time.Time); ok {
			return ts.UTC(), nil
		}
	}
	return nil, apperrors.NewQueryFailed(apperrors.ErrorTypeInvalidArgument, "",
		fmt.Errorf("parameter @%s: %T is not %s", p.Name, p.Value, p.Type))
}

// NormalizeParams resolves every parameter to a name/value map
func NormalizeParams(params []Param) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for _, p := range params {
		if _, dup := out[p.Name]; dup {
			return nil, apperrors.NewQueryFailed(apperrors.ErrorTypeInvalidArgument, "",
				fmt.Errorf("parameter @%s given twice", p.Name))
		}
		v, err := p.Normalize()
		if err != nil {
			return nil, err
		}
		out[p.Name] = v
	}
	return out, nil
}
