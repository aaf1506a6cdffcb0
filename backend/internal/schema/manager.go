// Package schema declares the relational tables, indexes and property graph
// and applies them idempotently.
package schema

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"instavibe/backend/internal/store"
	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

// State tracks how far schema setup has progressed
type State int

const (
	NotStarted State = iota
	BaseReady
	GraphReady
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case BaseReady:
		return "BaseReady"
	case GraphReady:
		return "GraphReady"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrBaseNotReady is returned when the graph definition is applied before the base tables
var ErrBaseNotReady = apperrors.NewBaseError(apperrors.ErrorTypeUnexpected, "base schema has not been applied", nil)

// Manager applies the base schema and then the graph definition
type Manager struct {
	changer store.SchemaChanger
	dialect Dialect
	graph   GraphDefinition
	logger  *zap.Logger
	state   State
}

// NewManager creates a schema manager for one database handle
func NewManager(changer store.SchemaChanger, dialect Dialect, log *zap.Logger) *Manager {
	return &Manager{
		changer: changer,
		dialect: dialect,
		graph:   SocialGraph,
		logger:  logger.OrGet(log).With(zap.String("dialect", dialect.Name())),
	}
}

// State returns the current setup state
func (m *Manager) State() State {
	return m.state
}

// ApplyBaseSchema creates all tables and indexes
func (m *Manager) ApplyBaseSchema(ctx context.Context) error {
	if err := m.run(ctx, "Create Base Tables and Indexes", m.dialect.BaseStatements()); err != nil {
		return err
	}
	if m.state < BaseReady {
		m.state = BaseReady
	}
	return nil
}

// ApplyGraphDefinition declares the property graph. The base schema must be applied first.
func (m *Manager) ApplyGraphDefinition(ctx context.Context) error {
	if m.state < BaseReady {
		return ErrBaseNotReady
	}
	if err := m.run(ctx, "Create Property Graph Definition", m.dialect.GraphStatements(m.graph)); err != nil {
		return err
	}
	m.state = GraphReady
	return nil
}

// Setup applies the base schema followed by the graph definition
func (m *Manager) Setup(ctx context.Context) error {
	if err := m.ApplyBaseSchema(ctx); err != nil {
		return err
	}
	return m.ApplyGraphDefinition(ctx)
}

// run applies one phase. Benign errors are logged and skipped; everything
// else stops the phase.
func (m *Manager) run(ctx context.Context, operation string, statements []string) error {
	log := m.logger.With(zap.String("operation", operation))
	log.Info("Applying DDL", zap.Int("statements", len(statements)))
	for i, stmt := range statements {
		log.Debug("DDL statement", zap.Int("n", i+1), zap.String("sql", compact(stmt)))
	}

	batches := [][]string{statements}
	if !m.dialect.BatchDDL() {
		batches = make([][]string, 0, len(statements))
		for _, stmt := range statements {
			batches = append(batches, []string{stmt})
		}
	}

	for _, batch := range batches {
		err := m.changer.ApplyDDL(ctx, batch)
		if err == nil {
			continue
		}

		switch apperrors.KindOf(err) {
		case apperrors.ErrorTypeSchemaBenign:
			log.Warn("Schema object already present, continuing", zap.Error(err))
		case apperrors.ErrorTypeSchemaSyntax:
			log.Error("DDL rejected as invalid; schema was not created correctly", zap.Error(err))
			return fmt.Errorf("%s: %w", operation, err)
		case apperrors.ErrorTypeSchemaTimeout, apperrors.ErrorTypeConnectivity:
			log.Error("DDL failed", zap.Error(err))
			return fmt.Errorf("%s: %w", operation, err)
		default:
			log.Error("Unexpected DDL error", zap.Error(err), zap.Stack("stack"))
			if !apperrors.IsErrorType(err, apperrors.ErrorTypeUnexpected) {
				err = apperrors.NewUnexpected(operation, err)
			}
			return fmt.Errorf("%s: %w", operation, err)
		}
	}

	log.Info("DDL completed")
	return nil
}
