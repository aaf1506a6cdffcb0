// Package graph projects the social graph into Neo4j for Cypher tooling.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext, log *zap.Logger) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.OrGet(log),
	}
}

// Connect opens a driver and verifies the server is reachable
func Connect(ctx context.Context, uri, user, password string, log *zap.Logger) (*Repository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewConnectivity(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewConnectivity(uri, err)
	}
	return NewRepository(driver, log), nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// EnsureConstraints creates a uniqueness constraint on every node key.
// Failures are logged and skipped; MERGE still works without them.
func (r *Repository) EnsureConstraints(ctx context.Context, snap *Snapshot) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, ns := range snap.Nodes {
		query, err := constraintQuery(ns.Label, ns.KeyProperty)
		if err != nil {
			return err
		}
		result, err := session.Run(ctx, query, nil)
		if err == nil {
			// Some server errors only surface once the result is consumed
			_, err = result.Consume(ctx)
		}
		if err != nil {
			r.logger.Warn("Failed to create constraint",
				zap.String("label", ns.Label),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Project merges the snapshot into Neo4j in a single write transaction.
// Nodes are written before edges so every MATCH finds its endpoints.
func (r *Repository) Project(ctx context.Context, snap *Snapshot) (ProjectResult, error) {
	// Build every query first so a bad identifier fails before any write
	nodeQueries := make([]string, len(snap.Nodes))
	for i, ns := range snap.Nodes {
		q, err := nodeMergeQuery(ns)
		if err != nil {
			return ProjectResult{}, err
		}
		nodeQueries[i] = q
	}
	edgeQueries := make([]string, len(snap.Edges))
	for i, es := range snap.Edges {
		q, err := edgeMergeQuery(es)
		if err != nil {
			return ProjectResult{}, err
		}
		edgeQueries[i] = q
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for i, ns := range snap.Nodes {
			if len(ns.Nodes) == 0 {
				continue
			}
			if _, err := tx.Run(ctx, nodeQueries[i], map[string]any{"rows": nodeRows(ns.Nodes)}); err != nil {
				return nil, fmt.Errorf("failed to merge %s nodes: %w", ns.Label, err)
			}
		}
		for i, es := range snap.Edges {
			if len(es.Edges) == 0 {
				continue
			}
			if _, err := tx.Run(ctx, edgeQueries[i], map[string]any{"rows": edgeRows(es.Edges)}); err != nil {
				return nil, fmt.Errorf("failed to merge %s edges: %w", es.Type, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return ProjectResult{}, apperrors.NewUnexpected("project graph", err)
	}

	nodes, edges := snap.Counts()
	r.logger.Info("Graph projected",
		zap.Int("nodes", nodes),
		zap.Int("edges", edges),
	)
	return ProjectResult{Nodes: nodes, Edges: edges}, nil
}

// CountRelationships returns how many relationships of the given type exist
func (r *Repository) CountRelationships(ctx context.Context, relType string) (int64, error) {
	if err := checkIdentifiers(relType); err != nil {
		return 0, err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r) AS total", relType), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch record: %w", err)
	}
	return getInt64FromRecord(record, "total"), nil
}
