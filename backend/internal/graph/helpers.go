package graph

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// checkIdentifiers rejects anything that cannot be spliced into Cypher as a
// label, relationship type or property name.
func checkIdentifiers(ids ...string) error {
	for _, id := range ids {
		if !identifierPattern.MatchString(id) {
			return ErrInvalidIdentifier{Identifier: id}
		}
	}
	return nil
}

// ============================================================================
// Cypher
// ============================================================================

func constraintQuery(label, key string) (string, error) {
	if err := checkIdentifiers(label, key); err != nil {
		return "", err
	}
	name := strings.ToLower(label) + "_" + key + "_unique"
	return fmt.Sprintf("CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE", name, label, key), nil
}

func nodeMergeQuery(ns NodeSet) (string, error) {
	if err := checkIdentifiers(ns.Label, ns.KeyProperty); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"UNWIND $rows AS row MERGE (n:%s {%s: row.id}) SET n += row.props",
		ns.Label, ns.KeyProperty,
	), nil
}

func edgeMergeQuery(es EdgeSet) (string, error) {
	if err := checkIdentifiers(es.Type, es.Source, es.SourceKey, es.Dest, es.DestKey); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"UNWIND $rows AS row MATCH (a:%s {%s: row.from}) MATCH (b:%s {%s: row.to}) MERGE (a)-[:%s]->(b)",
		es.Source, es.SourceKey, es.Dest, es.DestKey, es.Type,
	), nil
}

// ============================================================================
// Parameters
// ============================================================================

func nodeRows(nodes []Node) []any {
	rows := make([]any, len(nodes))
	for i, n := range nodes {
		props := make(map[string]any, len(n.Properties))
		for k, v := range n.Properties {
			props[k] = propertyValue(v)
		}
		rows[i] = map[string]any{"id": n.ID, "props": props}
	}
	return rows
}

func edgeRows(edges []Edge) []any {
	rows := make([]any, len(edges))
	for i, e := range edges {
		rows[i] = map[string]any{"from": e.From, "to": e.To}
	}
	return rows
}

// propertyValue keeps values Bolt can carry natively and stringifies the rest
func propertyValue(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int64, float64:
		return val
	case time.Time:
		return val.UTC()
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

// ============================================================================
// Records
// ============================================================================

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}
