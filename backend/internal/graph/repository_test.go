package graph

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// createTestRepository requires a running Neo4j instance
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables
func createTestRepository(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set")
	}
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}

	repo, err := Connect(context.Background(), uri, user, os.Getenv("NEO4J_PASSWORD"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_ProjectIsIdempotent(t *testing.T) {
	repo := createTestRepository(t)
	ctx := context.Background()

	suffix := time.Now().Format("20060102150405")
	label := "TestPerson" + suffix
	relType := "TEST_KNOWS_" + suffix

	defer func() {
		session := repo.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (n:"+label+") DETACH DELETE n", nil)
	}()

	snap := &Snapshot{
		Nodes: []NodeSet{{
			Label:       label,
			KeyProperty: "person_id",
			Nodes: []Node{
				{ID: "a", Properties: map[string]any{"name": "Alice", "age": int64(30)}},
				{ID: "b", Properties: map[string]any{"name": "Bob", "age": nil}},
			},
		}},
		Edges: []EdgeSet{{
			Type:   relType,
			Source: label, SourceKey: "person_id",
			Dest: label, DestKey: "person_id",
			Edges: []Edge{{From: "a", To: "b"}},
		}},
	}

	require.NoError(t, repo.EnsureConstraints(ctx, snap))
	for i := 0; i < 2; i++ {
		res, err := repo.Project(ctx, snap)
		require.NoError(t, err)
		assert.Equal(t, ProjectResult{Nodes: 2, Edges: 1}, res)
	}

	total, err := repo.CountRelationships(ctx, relType)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRepository_EnsureConstraintsCreatesOnce(t *testing.T) {
	repo := createTestRepository(t)
	ctx := context.Background()

	label := "TestTopic" + time.Now().Format("20060102150405")
	name := strings.ToLower(label) + "_topic_id_unique"
	snap := &Snapshot{Nodes: []NodeSet{{Label: label, KeyProperty: "topic_id"}}}

	session := repo.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	defer func() {
		_, _ = session.Run(ctx, "DROP CONSTRAINT "+name+" IF EXISTS", nil)
	}()

	require.NoError(t, repo.EnsureConstraints(ctx, snap))
	require.NoError(t, repo.EnsureConstraints(ctx, snap))

	result, err := session.Run(ctx, "SHOW CONSTRAINTS YIELD name WHERE name = $name RETURN name", map[string]any{"name": name})
	require.NoError(t, err)
	records, err := result.Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
