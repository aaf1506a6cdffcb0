package graph

import "fmt"

// NodeSet holds every node of one label, keyed by KeyProperty
type NodeSet struct {
	Label       string
	KeyProperty string
	Nodes       []Node
}

// Node is one row of a node table
type Node struct {
	ID         string
	Properties map[string]any
}

// EdgeSet holds every edge of one relationship type
type EdgeSet struct {
	Type      string
	Source    string // source node label
	SourceKey string
	Dest      string // destination node label
	DestKey   string
	Edges     []Edge
}

// Edge connects two node ids
type Edge struct {
	From string
	To   string
}

// Snapshot is a point-in-time copy of the social graph
type Snapshot struct {
	Nodes []NodeSet
	Edges []EdgeSet
}

// Counts totals nodes and edges
func (s *Snapshot) Counts() (nodes, edges int) {
	for _, ns := range s.Nodes {
		nodes += len(ns.Nodes)
	}
	for _, es := range s.Edges {
		edges += len(es.Edges)
	}
	return nodes, edges
}

// ProjectResult reports what a projection wrote
type ProjectResult struct {
	Nodes int
	Edges int
}

// Errors

type ErrInvalidIdentifier struct {
	Identifier string
}

func (e ErrInvalidIdentifier) Error() string {
	return fmt.Sprintf("invalid graph identifier: %q", e.Identifier)
}
