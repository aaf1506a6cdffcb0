package seed

import (
	"instavibe/backend/internal/model"
	apperrors "instavibe/backend/pkg/errors"
)

// Plan holds every row of one seed run, ready to be inserted
type Plan struct {
	People         []model.Person
	Events         []model.Event
	Locations      []model.Location
	Topics         []model.Topic
	TopicContents  []model.TopicContent
	Posts          []model.Post
	Friendships    []model.Friendship
	Attendances    []model.Attendance
	Mentions       []model.Mention
	EventLocations []model.EventLocation

	// Skipped lists the rows dropped during validation
	Skipped []*apperrors.ErrRowValidation
}

// Batches returns the non-empty tables in parent-before-child order
func (p *Plan) Batches() []model.Batch {
	all := []model.Batch{
		{Table: model.PersonTable, Records: records(p.People)},
		{Table: model.EventTable, Records: records(p.Events)},
		{Table: model.LocationTable, Records: records(p.Locations)},
		{Table: model.TopicTable, Records: records(p.Topics)},
		{Table: model.TopicContentTable, Records: records(p.TopicContents)},
		{Table: model.PostTable, Records: records(p.Posts)},
		{Table: model.FriendshipTable, Records: records(p.Friendships)},
		{Table: model.AttendanceTable, Records: records(p.Attendances)},
		{Table: model.MentionTable, Records: records(p.Mentions)},
		{Table: model.EventLocationTable, Records: records(p.EventLocations)},
	}

	batches := all[:0]
	for _, b := range all {
		if len(b.Records) > 0 {
			batches = append(batches, b)
		}
	}
	return batches
}

// Empty reports whether the plan has no rows at all
func (p *Plan) Empty() bool {
	return len(p.Batches()) == 0
}

// Counts returns the number of rows per table
func (p *Plan) Counts() map[string]int {
	counts := make(map[string]int, len(model.InsertOrder))
	for _, b := range p.Batches() {
		counts[b.Table.Name] = len(b.Records)
	}
	return counts
}

func records[T model.Record](rows []T) []model.Record {
	out := make([]model.Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
