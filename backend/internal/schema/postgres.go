package schema

import (
	"fmt"
	"strings"
)

// Postgres renders the same layout for PostgreSQL. Audit columns default to
// the transaction timestamp; the property graph becomes two views.
type Postgres struct{}

func (Postgres) Name() string   { return "postgres" }
func (Postgres) BatchDDL() bool { return false }

func (Postgres) BaseStatements() []string {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS Person (
			person_id VARCHAR(36) NOT NULL PRIMARY KEY,
			name TEXT,
			age BIGINT,
			create_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp()
		)`,
		`CREATE TABLE IF NOT EXISTS Event (
			event_id VARCHAR(36) NOT NULL PRIMARY KEY,
			name TEXT,
			description TEXT,
			event_date TIMESTAMPTZ,
			create_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp()
		)`,
		`CREATE TABLE IF NOT EXISTS Post (
			post_id VARCHAR(36) NOT NULL PRIMARY KEY,
			author_id VARCHAR(36) NOT NULL,
			text TEXT,
			sentiment VARCHAR(50),
			post_timestamp TIMESTAMPTZ,
			create_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp()
		)`,
		`CREATE TABLE IF NOT EXISTS Friendship (
			person_id_a VARCHAR(36) NOT NULL,
			person_id_b VARCHAR(36) NOT NULL,
			friendship_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp(),
			PRIMARY KEY (person_id_a, person_id_b)
		)`,
		`CREATE TABLE IF NOT EXISTS Attendance (
			person_id VARCHAR(36) NOT NULL,
			event_id VARCHAR(36) NOT NULL,
			attendance_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp(),
			PRIMARY KEY (person_id, event_id)
		)`,
		`CREATE TABLE IF NOT EXISTS Topic (
			topic_id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			description TEXT,
			create_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp()
		)`,
		`CREATE TABLE IF NOT EXISTS TopicContent (
			topic_id VARCHAR(36) NOT NULL REFERENCES Topic (topic_id) ON DELETE CASCADE,
			content_id VARCHAR(36) NOT NULL,
			page_no BIGINT NOT NULL,
			content_json JSONB NOT NULL,
			create_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp(),
			PRIMARY KEY (topic_id, content_id)
		)`,
		// No foreign keys on Mention; integrity comes from insert order.
		`CREATE TABLE IF NOT EXISTS Mention (
			post_id VARCHAR(36) NOT NULL,
			mentioned_person_id VARCHAR(36) NOT NULL,
			mention_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp(),
			PRIMARY KEY (post_id, mentioned_person_id)
		)`,
		`CREATE TABLE IF NOT EXISTS Location (
			location_id VARCHAR(36) NOT NULL PRIMARY KEY,
			name TEXT,
			description TEXT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			address TEXT,
			create_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp()
		)`,
		`CREATE TABLE IF NOT EXISTS EventLocation (
			event_id VARCHAR(36) NOT NULL,
			location_id VARCHAR(36) NOT NULL,
			create_time TIMESTAMPTZ NOT NULL DEFAULT transaction_timestamp(),
			PRIMARY KEY (event_id, location_id),
			CONSTRAINT FK_Event FOREIGN KEY (event_id) REFERENCES Event (event_id),
			CONSTRAINT FK_Location FOREIGN KEY (location_id) REFERENCES Location (location_id)
		)`,
	}
	return append(tables, indexStatements...)
}

// GraphStatements renders one view of labelled nodes and one of labelled
// edges. CREATE OR REPLACE keeps them re-runnable.
func (Postgres) GraphStatements(g GraphDefinition) []string {
	prefix := strings.ToLower(g.Name)

	nodes := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, fmt.Sprintf(
			"SELECT '%s'::text AS node_label, %s AS node_id FROM %s",
			n.Label(), n.Key, n.Table))
	}

	edges := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, fmt.Sprintf(
			"SELECT '%s'::text AS edge_label, '%s'::text AS source_label, %s AS source_id, '%s'::text AS destination_label, %s AS destination_id FROM %s",
			e.Label, e.Source, e.SourceKey, e.Dest, e.DestKey, e.Table))
	}

	return []string{
		fmt.Sprintf("CREATE OR REPLACE VIEW %s_nodes AS\n%s", prefix, strings.Join(nodes, "\nUNION ALL\n")),
		fmt.Sprintf("CREATE OR REPLACE VIEW %s_edges AS\n%s", prefix, strings.Join(edges, "\nUNION ALL\n")),
	}
}
