package schema

import (
	"instavibe/backend/internal/constants"
	"instavibe/backend/internal/model"
)

// NodeTable exposes a table's rows as graph nodes
type NodeTable struct {
	Table      string
	Key        string
	Properties []string
}

// Label is the node label; node tables are labelled after their table
func (n NodeTable) Label() string { return n.Table }

// EdgeTable exposes a table's rows as edges between two node tables
type EdgeTable struct {
	Table     string
	Label     string
	SourceKey string
	Source    string // node table referenced by SourceKey
	SourceRef string
	DestKey   string
	Dest      string // node table referenced by DestKey
	DestRef   string
}

// Aliased reports whether the edge label differs from its table name
func (e EdgeTable) Aliased() bool { return e.Label != e.Table }

// GraphDefinition is a read-only property graph over relational tables
type GraphDefinition struct {
	Name  string
	Nodes []NodeTable
	Edges []EdgeTable
}

// Node returns the node table with the given name
func (g GraphDefinition) Node(table string) (NodeTable, bool) {
	for _, n := range g.Nodes {
		if n.Table == table {
			return n, true
		}
	}
	return NodeTable{}, false
}

// SocialGraph connects people, events, posts and locations
var SocialGraph = GraphDefinition{
	Name: constants.GraphName,
	Nodes: []NodeTable{
		{Table: model.PersonTable.Name, Key: "person_id", Properties: []string{"name", "age"}},
		{Table: model.EventTable.Name, Key: "event_id", Properties: []string{"name", "description", "event_date"}},
		{Table: model.PostTable.Name, Key: "post_id", Properties: []string{"text", "sentiment", "post_timestamp"}},
		{Table: model.LocationTable.Name, Key: "location_id", Properties: []string{"name", "description", "latitude", "longitude", "address"}},
	},
	Edges: []EdgeTable{
		{
			Table: model.FriendshipTable.Name, Label: "Friendship",
			SourceKey: "person_id_a", Source: "Person", SourceRef: "person_id",
			DestKey: "person_id_b", Dest: "Person", DestRef: "person_id",
		},
		{
			Table: model.AttendanceTable.Name, Label: "Attended",
			SourceKey: "person_id", Source: "Person", SourceRef: "person_id",
			DestKey: "event_id", Dest: "Event", DestRef: "event_id",
		},
		{
			Table: model.MentionTable.Name, Label: "Mentioned",
			SourceKey: "post_id", Source: "Post", SourceRef: "post_id",
			DestKey: "mentioned_person_id", Dest: "Person", DestRef: "person_id",
		},
		{
			Table: model.PostTable.Name, Label: "Wrote",
			SourceKey: "author_id", Source: "Person", SourceRef: "person_id",
			DestKey: "post_id", Dest: "Post", DestRef: "post_id",
		},
		{
			Table: model.EventLocationTable.Name, Label: "HasLocation",
			SourceKey: "event_id", Source: "Event", SourceRef: "event_id",
			DestKey: "location_id", Dest: "Location", DestRef: "location_id",
		},
	},
}
