package spannerstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	sppb "cloud.google.com/go/spanner/apiv1/spannerpb"
	"google.golang.org/grpc/codes"

	apperrors "instavibe/backend/pkg/errors"
)

// decodeValue turns a column into a plain Go value; NULL becomes nil
func decodeValue(gcv spanner.GenericColumnValue) (any, error) {
	if gcv.Type == nil {
		return nil, fmt.Errorf("column has no type")
	}
	switch gcv.Type.Code {
	case sppb.TypeCode_STRING:
		var v spanner.NullString
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.StringVal, nil
	case sppb.TypeCode_INT64:
		var v spanner.NullInt64
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Int64, nil
	case sppb.TypeCode_FLOAT64:
		var v spanner.NullFloat64
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Float64, nil
	case sppb.TypeCode_BOOL:
		var v spanner.NullBool
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Bool, nil
	case sppb.TypeCode_TIMESTAMP:
		var v spanner.NullTime
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Time.UTC(), nil
	case sppb.TypeCode_DATE:
		var v spanner.NullDate
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Date.In(time.UTC), nil
	case sppb.TypeCode_JSON:
		var v spanner.NullJSON
		if err := gcv.Decode(&v); err != nil || !v.Valid {
			return nil, err
		}
		return v.Value, nil
	}
	return nil, fmt.Errorf("unsupported column type %s", gcv.Type.Code)
}

// classifyDDL maps a schema update failure onto the error kinds
func classifyDDL(err error, statements []string, timeout time.Duration) error {
	code := spanner.ErrCode(err)
	if errors.Is(err, context.DeadlineExceeded) || code == codes.DeadlineExceeded {
		return apperrors.NewSchemaTimeout("UpdateDatabaseDdl", timeout, err)
	}
	switch code {
	case codes.AlreadyExists, codes.FailedPrecondition:
		return apperrors.NewSchemaBenign(describe(statements), err)
	case codes.InvalidArgument:
		return apperrors.NewSchemaSyntax(describe(statements), err)
	case codes.NotFound, codes.PermissionDenied, codes.Unauthenticated, codes.Unavailable:
		return apperrors.NewConnectivity("UpdateDatabaseDdl", err)
	}
	return apperrors.NewUnexpected("UpdateDatabaseDdl", err)
}

// classifyCommit separates contention aborts from everything else
func classifyCommit(err error) error {
	if spanner.ErrCode(err) == codes.Aborted {
		return apperrors.NewTransactionAborted(err)
	}
	return apperrors.NewUnexpected("commit", err)
}

func classifyQuery(sql string, err error) error {
	switch spanner.ErrCode(err) {
	case codes.NotFound:
		return apperrors.NewQueryFailed(apperrors.ErrorTypeNotFound, sql, err)
	case codes.PermissionDenied:
		return apperrors.NewQueryFailed(apperrors.ErrorTypePermissionDenied, sql, err)
	case codes.InvalidArgument:
		return apperrors.NewQueryFailed(apperrors.ErrorTypeInvalidArgument, sql, err)
	}
	return apperrors.NewQueryFailed(apperrors.ErrorTypeUnexpected, sql, err)
}

// describe names a DDL batch for error messages: the statement itself when
// there is one, otherwise a count.
func describe(statements []string) string {
	if len(statements) == 1 {
		return strings.Join(strings.Fields(statements[0]), " ")
	}
	return fmt.Sprintf("batch of %d statements", len(statements))
}
