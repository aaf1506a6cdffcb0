package schema

import (
	"fmt"
	"strings"

	"instavibe/backend/pkg/config"
	apperrors "instavibe/backend/pkg/errors"
)

// Dialect renders the schema for one database engine
type Dialect interface {
	Name() string
	BaseStatements() []string
	GraphStatements(g GraphDefinition) []string
	// BatchDDL reports whether a phase is submitted as a single DDL batch.
	// Otherwise statements are applied and classified one at a time.
	BatchDDL() bool
}

// DialectFor returns the dialect for a configured backend name
func DialectFor(backend string) (Dialect, error) {
	switch backend {
	case config.BackendSpanner:
		return Spanner{}, nil
	case config.BackendPostgres:
		return Postgres{}, nil
	}
	return nil, apperrors.NewConfigValidationFailed("DB_BACKEND", fmt.Sprintf("no schema dialect for %q", backend))
}

// indexes shared by both dialects; the syntax is identical
var indexStatements = []string{
	"CREATE INDEX IF NOT EXISTS PersonByName ON Person(name)",
	"CREATE INDEX IF NOT EXISTS EventByDate ON Event(event_date DESC)",
	"CREATE INDEX IF NOT EXISTS PostByTimestamp ON Post(post_timestamp DESC)",
	"CREATE INDEX IF NOT EXISTS PostByAuthor ON Post(author_id, post_timestamp DESC)",
	"CREATE INDEX IF NOT EXISTS FriendshipByPersonB ON Friendship(person_id_b, person_id_a)",
	"CREATE INDEX IF NOT EXISTS AttendanceByEvent ON Attendance(event_id, person_id)",
	"CREATE INDEX IF NOT EXISTS MentionByPerson ON Mention(mentioned_person_id, post_id)",
	"CREATE INDEX IF NOT EXISTS EventLocationByLocationId ON EventLocation(location_id, event_id)",
	"CREATE UNIQUE INDEX IF NOT EXISTS TopicByName ON Topic(name)",
	"CREATE INDEX IF NOT EXISTS TopicContentByPage ON TopicContent(topic_id, page_no)",
}

// compact collapses a multi-line statement onto one line for logging
func compact(stmt string) string {
	return strings.Join(strings.Fields(stmt), " ")
}
