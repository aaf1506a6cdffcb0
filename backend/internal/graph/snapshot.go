package graph

import (
	"context"
	"fmt"
	"strings"

	"instavibe/backend/internal/schema"
	"instavibe/backend/internal/store"
)

// ReadSnapshot copies the nodes and edges described by g out of the
// relational store.
func ReadSnapshot(ctx context.Context, q store.Querier, g schema.GraphDefinition) (*Snapshot, error) {
	snap := &Snapshot{}

	for _, nt := range g.Nodes {
		columns := append([]string{nt.Key}, nt.Properties...)
		sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), nt.Table)
		rows, err := q.Query(ctx, sql, nil, columns)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s nodes: %w", nt.Label(), err)
		}

		ns := NodeSet{Label: nt.Label(), KeyProperty: nt.Key, Nodes: make([]Node, 0, len(rows))}
		for _, row := range rows {
			props := make(map[string]any, len(nt.Properties))
			for _, p := range nt.Properties {
				props[p] = row[p]
			}
			ns.Nodes = append(ns.Nodes, Node{ID: row.GetString(nt.Key), Properties: props})
		}
		snap.Nodes = append(snap.Nodes, ns)
	}

	for _, et := range g.Edges {
		columns := []string{et.SourceKey, et.DestKey}
		sql := fmt.Sprintf("SELECT %s, %s FROM %s", et.SourceKey, et.DestKey, et.Table)
		rows, err := q.Query(ctx, sql, nil, columns)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s edges: %w", et.Label, err)
		}

		es := EdgeSet{
			Type:      et.Label,
			Source:    et.Source,
			SourceKey: et.SourceRef,
			Dest:      et.Dest,
			DestKey:   et.DestRef,
			Edges:     make([]Edge, 0, len(rows)),
		}
		for _, row := range rows {
			from, to := row.GetString(et.SourceKey), row.GetString(et.DestKey)
			if from == "" || to == "" {
				continue
			}
			es.Edges = append(es.Edges, Edge{From: from, To: to})
		}
		snap.Edges = append(snap.Edges, es)
	}

	return snap, nil
}
