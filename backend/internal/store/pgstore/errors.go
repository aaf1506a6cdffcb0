package pgstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "instavibe/backend/pkg/errors"
)

// SQLSTATE codes
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeDuplicateTable       = "42P07"
	codeDuplicateObject      = "42710"
	codeDuplicateSchema      = "42P06"
	codeDuplicateFunction    = "42723"
	codeObjectNotInPrereq    = "55000"
	codeInsufficientPriv     = "42501"
	codeUndefinedTable       = "42P01"
	codeQueryCanceled        = "57014"
	codeInvalidCatalogName   = "3D000"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isConnectionState(code string) bool {
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "28") || code == codeInvalidCatalogName
}

// classifyDDL maps a failed DDL statement onto the error kinds
func classifyDDL(err error, statement string, timeout time.Duration) error {
	code := sqlState(err)
	if errors.Is(err, context.DeadlineExceeded) || code == codeQueryCanceled || pgconn.Timeout(err) {
		return apperrors.NewSchemaTimeout("ddl", timeout, err)
	}

	var connectErr *pgconn.ConnectError
	switch {
	case code == codeDuplicateTable, code == codeDuplicateObject, code == codeDuplicateSchema,
		code == codeDuplicateFunction, code == codeObjectNotInPrereq:
		return apperrors.NewSchemaBenign(compact(statement), err)
	case code == codeInsufficientPriv, isConnectionState(code), errors.As(err, &connectErr):
		return apperrors.NewConnectivity("ddl", err)
	case strings.HasPrefix(code, "42"):
		return apperrors.NewSchemaSyntax(compact(statement), err)
	}
	return apperrors.NewUnexpected("ddl", err)
}

// classifyTx separates serialization failures and deadlocks from everything else
func classifyTx(err error) error {
	switch sqlState(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return apperrors.NewTransactionAborted(err)
	}
	return apperrors.NewUnexpected("transaction", err)
}

func classifyQuery(sql string, err error) error {
	code := sqlState(err)
	switch {
	case code == codeUndefinedTable:
		return apperrors.NewQueryFailed(apperrors.ErrorTypeNotFound, sql, err)
	case code == codeInsufficientPriv:
		return apperrors.NewQueryFailed(apperrors.ErrorTypePermissionDenied, sql, err)
	case strings.HasPrefix(code, "42"), strings.HasPrefix(code, "22"):
		return apperrors.NewQueryFailed(apperrors.ErrorTypeInvalidArgument, sql, err)
	}
	return apperrors.NewQueryFailed(apperrors.ErrorTypeUnexpected, sql, err)
}

func compact(stmt string) string {
	return strings.Join(strings.Fields(stmt), " ")
}
