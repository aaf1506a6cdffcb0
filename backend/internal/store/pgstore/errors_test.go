package pgstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	apperrors "instavibe/backend/pkg/errors"
)

func pgErr(code string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "test"})
}

func TestClassifyDDL(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperrors.ErrorType
	}{
		{"duplicate table", pgErr("42P07"), apperrors.ErrorTypeSchemaBenign},
		{"duplicate object", pgErr("42710"), apperrors.ErrorTypeSchemaBenign},
		{"prerequisite state", pgErr("55000"), apperrors.ErrorTypeSchemaBenign},
		{"syntax", pgErr("42601"), apperrors.ErrorTypeSchemaSyntax},
		{"undefined column", pgErr("42703"), apperrors.ErrorTypeSchemaSyntax},
		{"permission", pgErr("42501"), apperrors.ErrorTypeConnectivity},
		{"missing database", pgErr("3D000"), apperrors.ErrorTypeConnectivity},
		{"auth", pgErr("28P01"), apperrors.ErrorTypeConnectivity},
		{"canceled", pgErr("57014"), apperrors.ErrorTypeSchemaTimeout},
		{"deadline", fmt.Errorf("exec: %w", context.DeadlineExceeded), apperrors.ErrorTypeSchemaTimeout},
		{"disk full", pgErr("53100"), apperrors.ErrorTypeUnexpected},
		{"plain", errors.New("conn closed"), apperrors.ErrorTypeUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyDDL(tt.err, "CREATE TABLE\n  Person ()", 360*time.Second)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
		})
	}
}

func TestClassifyDDL_SyntaxNamesStatement(t *testing.T) {
	err := classifyDDL(pgErr("42601"), "CREATE TABL\n  Person ()", time.Minute)

	var syntax *apperrors.ErrSchemaSyntax
	if assert.ErrorAs(t, err, &syntax) {
		assert.Equal(t, "CREATE TABL Person ()", syntax.Statement)
	}
}

func TestClassifyTx(t *testing.T) {
	assert.True(t, apperrors.IsRetryable(classifyTx(pgErr("40001"))))
	assert.True(t, apperrors.IsRetryable(classifyTx(pgErr("40P01"))))

	dup := classifyTx(pgErr("23505"))
	assert.Equal(t, apperrors.ErrorTypeUnexpected, apperrors.KindOf(dup))
	assert.False(t, apperrors.IsRetryable(dup))
}

func TestClassifyQuery(t *testing.T) {
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.KindOf(classifyQuery("q", pgErr("42P01"))))
	assert.Equal(t, apperrors.ErrorTypePermissionDenied, apperrors.KindOf(classifyQuery("q", pgErr("42501"))))
	assert.Equal(t, apperrors.ErrorTypeInvalidArgument, apperrors.KindOf(classifyQuery("q", pgErr("42601"))))
	assert.Equal(t, apperrors.ErrorTypeInvalidArgument, apperrors.KindOf(classifyQuery("q", pgErr("22P02"))))
	assert.Equal(t, apperrors.ErrorTypeUnexpected, apperrors.KindOf(classifyQuery("q", errors.New("eof"))))
}

func TestNormalizeValue(t *testing.T) {
	local := time.Date(2025, 4, 10, 5, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	assert.Equal(t, local.UTC(), normalizeValue(local))
	assert.Equal(t, int64(7), normalizeValue(int32(7)))
	assert.Equal(t, "x", normalizeValue("x"))
}
