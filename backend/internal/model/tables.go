package model

// Table describes how one entity is persisted. Columns lists the data
// columns in the same order as the record's Values; AuditColumn is filled
// by the database with the commit timestamp.
type Table struct {
	Name        string
	Columns     []string
	AuditColumn string
}

// Record is a typed row destined for exactly one table
type Record interface {
	Table() Table
	Values() []any
}

var (
	PersonTable = Table{
		Name:        "Person",
		Columns:     []string{"person_id", "name", "age"},
		AuditColumn: "create_time",
	}
	EventTable = Table{
		Name:        "Event",
		Columns:     []string{"event_id", "name", "description", "event_date"},
		AuditColumn: "create_time",
	}
	LocationTable = Table{
		Name:        "Location",
		Columns:     []string{"location_id", "name", "description", "latitude", "longitude", "address"},
		AuditColumn: "create_time",
	}
	TopicTable = Table{
		Name:        "Topic",
		Columns:     []string{"topic_id", "name", "description"},
		AuditColumn: "create_time",
	}
	TopicContentTable = Table{
		Name:        "TopicContent",
		Columns:     []string{"topic_id", "content_id", "page_no", "content_json"},
		AuditColumn: "create_time",
	}
	PostTable = Table{
		Name:        "Post",
		Columns:     []string{"post_id", "author_id", "text", "sentiment", "post_timestamp"},
		AuditColumn: "create_time",
	}
	FriendshipTable = Table{
		Name:        "Friendship",
		Columns:     []string{"person_id_a", "person_id_b"},
		AuditColumn: "friendship_time",
	}
	AttendanceTable = Table{
		Name:        "Attendance",
		Columns:     []string{"person_id", "event_id"},
		AuditColumn: "attendance_time",
	}
	MentionTable = Table{
		Name:        "Mention",
		Columns:     []string{"post_id", "mentioned_person_id"},
		AuditColumn: "mention_time",
	}
	EventLocationTable = Table{
		Name:        "EventLocation",
		Columns:     []string{"event_id", "location_id"},
		AuditColumn: "create_time",
	}
)

// InsertOrder is parent-before-child: every row's references are inserted
// before the row itself.
var InsertOrder = []Table{
	PersonTable,
	EventTable,
	LocationTable,
	TopicTable,
	TopicContentTable,
	PostTable,
	FriendshipTable,
	AttendanceTable,
	MentionTable,
	EventLocationTable,
}

func (Person) Table() Table        { return PersonTable }
func (Event) Table() Table         { return EventTable }
func (Location) Table() Table      { return LocationTable }
func (Topic) Table() Table         { return TopicTable }
func (TopicContent) Table() Table  { return TopicContentTable }
func (Post) Table() Table          { return PostTable }
func (Friendship) Table() Table    { return FriendshipTable }
func (Attendance) Table() Table    { return AttendanceTable }
func (Mention) Table() Table       { return MentionTable }
func (EventLocation) Table() Table { return EventLocationTable }

func (p Person) Values() []any {
	return []any{p.PersonID, p.Name, p.Age}
}

func (e Event) Values() []any {
	return []any{e.EventID, e.Name, e.Description, e.EventDate}
}

func (l Location) Values() []any {
	return []any{l.LocationID, l.Name, l.Description, l.Latitude, l.Longitude, l.Address}
}

func (t Topic) Values() []any {
	return []any{t.TopicID, t.Name, t.Description}
}

func (c TopicContent) Values() []any {
	return []any{c.TopicID, c.ContentID, c.PageNo, c.ContentJSON}
}

func (p Post) Values() []any {
	return []any{p.PostID, p.AuthorID, p.Text, string(p.Sentiment), p.PostTimestamp}
}

func (f Friendship) Values() []any {
	return []any{f.PersonIDA, f.PersonIDB}
}

func (a Attendance) Values() []any {
	return []any{a.PersonID, a.EventID}
}

func (m Mention) Values() []any {
	return []any{m.PostID, m.MentionedPersonID}
}

func (el EventLocation) Values() []any {
	return []any{el.EventID, el.LocationID}
}

// Batch is the set of rows for one table inside a transaction
type Batch struct {
	Table   Table
	Records []Record
}

// Rows returns the records' values in column order
func (b Batch) Rows() [][]any {
	rows := make([][]any, 0, len(b.Records))
	for _, r := range b.Records {
		rows = append(rows, r.Values())
	}
	return rows
}
