package schema

import (
	"fmt"
	"strings"
)

// Spanner renders GoogleSQL DDL. Audit columns accept the commit timestamp,
// TopicContent is interleaved in Topic and EventLocation carries foreign keys.
type Spanner struct{}

func (Spanner) Name() string   { return "spanner" }
func (Spanner) BatchDDL() bool { return true }

func (Spanner) BaseStatements() []string {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS Person (
			person_id STRING(36) NOT NULL,
			name STRING(MAX),
			age INT64,
			create_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (person_id)`,
		`CREATE TABLE IF NOT EXISTS Event (
			event_id STRING(36) NOT NULL,
			name STRING(MAX),
			description STRING(MAX),
			event_date TIMESTAMP,
			create_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (event_id)`,
		`CREATE TABLE IF NOT EXISTS Post (
			post_id STRING(36) NOT NULL,
			author_id STRING(36) NOT NULL,
			text STRING(MAX),
			sentiment STRING(50),
			post_timestamp TIMESTAMP,
			create_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (post_id)`,
		`CREATE TABLE IF NOT EXISTS Friendship (
			person_id_a STRING(36) NOT NULL,
			person_id_b STRING(36) NOT NULL,
			friendship_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (person_id_a, person_id_b)`,
		`CREATE TABLE IF NOT EXISTS Attendance (
			person_id STRING(36) NOT NULL,
			event_id STRING(36) NOT NULL,
			attendance_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (person_id, event_id)`,
		`CREATE TABLE IF NOT EXISTS Topic (
			topic_id STRING(36) NOT NULL,
			name STRING(200) NOT NULL,
			description STRING(MAX),
			create_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (topic_id)`,
		`CREATE TABLE IF NOT EXISTS TopicContent (
			topic_id STRING(36) NOT NULL,
			content_id STRING(36) NOT NULL,
			page_no INT64 NOT NULL,
			content_json JSON NOT NULL,
			create_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (topic_id, content_id),
			INTERLEAVE IN PARENT Topic ON DELETE CASCADE`,
		// No foreign keys on Mention; integrity comes from insert order.
		`CREATE TABLE IF NOT EXISTS Mention (
			post_id STRING(36) NOT NULL,
			mentioned_person_id STRING(36) NOT NULL,
			mention_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (post_id, mentioned_person_id)`,
		`CREATE TABLE IF NOT EXISTS Location (
			location_id STRING(36) NOT NULL,
			name STRING(MAX),
			description STRING(MAX),
			latitude FLOAT64,
			longitude FLOAT64,
			address STRING(MAX),
			create_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true)
		) PRIMARY KEY (location_id)`,
		`CREATE TABLE IF NOT EXISTS EventLocation (
			event_id STRING(36) NOT NULL,
			location_id STRING(36) NOT NULL,
			create_time TIMESTAMP NOT NULL OPTIONS(allow_commit_timestamp=true),
			CONSTRAINT FK_Event FOREIGN KEY (event_id) REFERENCES Event (event_id),
			CONSTRAINT FK_Location FOREIGN KEY (location_id) REFERENCES Location (location_id)
		) PRIMARY KEY (event_id, location_id)`,
	}
	return append(tables, indexStatements...)
}

// GraphStatements renders CREATE PROPERTY GRAPH over the base tables
func (Spanner) GraphStatements(g GraphDefinition) []string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE PROPERTY GRAPH IF NOT EXISTS %s\n  NODE TABLES (\n", g.Name)
	for i, n := range g.Nodes {
		fmt.Fprintf(&b, "    %s KEY (%s)", n.Table, n.Key)
		b.WriteString(listSep(i, len(g.Nodes)))
	}
	b.WriteString("  )\n  EDGE TABLES (\n")
	for i, e := range g.Edges {
		b.WriteString("    " + e.Table)
		if e.Aliased() {
			b.WriteString(" AS " + e.Label)
		}
		fmt.Fprintf(&b, "\n      SOURCE KEY (%s) REFERENCES %s (%s)", e.SourceKey, e.Source, e.SourceRef)
		fmt.Fprintf(&b, "\n      DESTINATION KEY (%s) REFERENCES %s (%s)", e.DestKey, e.Dest, e.DestRef)
		b.WriteString(listSep(i, len(g.Edges)))
	}
	b.WriteString("  )")
	return []string{b.String()}
}

func listSep(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}
