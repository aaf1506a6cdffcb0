package seed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"instavibe/backend/internal/constants"
	"instavibe/backend/internal/model"
	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

// Option configures a Builder
type Option func(*Builder)

// WithClock fixes the reference time used for relative event and post dates
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.clock = now }
}

// WithIDGenerator replaces uuid generation
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) { b.newID = gen }
}

type locationKey struct {
	name      string
	latitude  float64
	longitude float64
}

// Builder resolves a Dataset into a Plan. It carries the name-to-id maps
// and dedupe sets for one build; every step reads and extends them.
type Builder struct {
	clock  func() time.Time
	newID  func() string
	logger *zap.Logger

	now            time.Time
	people         map[string]string
	events         map[string]string
	topics         map[string]string
	locations      map[locationKey]string
	eventLocations map[model.EventLocation]struct{}
	friendships    map[model.Friendship]struct{}
	attendance     map[model.Attendance]struct{}
	plan           *Plan
}

// NewBuilder creates a builder with fresh ids and the current time by default
func NewBuilder(log *zap.Logger, opts ...Option) *Builder {
	b := &Builder{
		clock:  time.Now,
		newID:  uuid.NewString,
		logger: logger.OrGet(log),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves ds into a plan. Each call starts from empty state and
// generates new ids.
func (b *Builder) Build(ds *Dataset) *Plan {
	b.now = b.clock().UTC()
	b.people = make(map[string]string)
	b.events = make(map[string]string)
	b.topics = make(map[string]string)
	b.locations = make(map[locationKey]string)
	b.eventLocations = make(map[model.EventLocation]struct{})
	b.friendships = make(map[model.Friendship]struct{})
	b.attendance = make(map[model.Attendance]struct{})
	b.plan = &Plan{}

	b.addPeople(ds.People)
	b.addEvents(ds.Events)
	b.addTopics(ds.Topics)
	b.addFriendships(ds.Friendships)
	b.addAttendance(ds.Attendance)
	b.addPosts(ds.Posts)

	b.logger.Info("Seed plan prepared",
		zap.Int("people", len(b.plan.People)),
		zap.Int("events", len(b.plan.Events)),
		zap.Int("locations", len(b.plan.Locations)),
		zap.Int("topics", len(b.plan.Topics)),
		zap.Int("topic_pages", len(b.plan.TopicContents)),
		zap.Int("friendships", len(b.plan.Friendships)),
		zap.Int("attendance", len(b.plan.Attendances)),
		zap.Int("posts", len(b.plan.Posts)),
		zap.Int("mentions", len(b.plan.Mentions)),
		zap.Int("skipped", len(b.plan.Skipped)),
	)
	return b.plan
}

func (b *Builder) skip(entity, format string, args ...any) {
	err := apperrors.NewRowValidation(entity, fmt.Sprintf(format, args...))
	b.plan.Skipped = append(b.plan.Skipped, err)
	b.logger.Warn("Skipping row", zap.String("entity", entity), zap.String("reason", err.Reason))
}

func (b *Builder) ago(days, hours int) time.Time {
	return b.now.Add(-(time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour))
}

func (b *Builder) addPeople(people []PersonSeed) {
	for _, p := range people {
		if p.Name == "" {
			b.skip("Person", "missing name")
			continue
		}
		if _, dup := b.people[p.Name]; dup {
			b.skip("Person", "duplicate name %q", p.Name)
			continue
		}
		id := b.newID()
		b.people[p.Name] = id
		b.plan.People = append(b.plan.People, model.Person{PersonID: id, Name: p.Name, Age: p.Age})
	}
}

func (b *Builder) addEvents(events []EventSeed) {
	for _, e := range events {
		if e.Name == "" {
			b.skip("Event", "missing name")
			continue
		}
		if _, dup := b.events[e.Name]; dup {
			b.skip("Event", "duplicate name %q", e.Name)
			continue
		}
		date, err := b.eventDate(e)
		if err != nil {
			b.skip("Event", "could not parse date for %q (value: %q): %v", e.Name, e.Date, err)
			continue
		}

		id := b.newID()
		b.events[e.Name] = id
		b.plan.Events = append(b.plan.Events, model.Event{
			EventID:     id,
			Name:        e.Name,
			Description: e.Description,
			EventDate:   date,
		})

		for _, loc := range e.Locations {
			locationID, ok := b.location(e.Name, loc)
			if !ok {
				continue
			}
			el := model.EventLocation{EventID: id, LocationID: locationID}
			if _, dup := b.eventLocations[el]; dup {
				b.skip("EventLocation", "duplicate location %q for event %q", loc.Name, e.Name)
				continue
			}
			b.eventLocations[el] = struct{}{}
			b.plan.EventLocations = append(b.plan.EventLocations, el)
		}
	}
}

var naiveLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"}

// eventDate returns the event time in UTC. Dates without a zone are taken as UTC.
func (b *Builder) eventDate(e EventSeed) (time.Time, error) {
	if e.Date == "" {
		return b.ago(e.DaysAgo, e.HoursAgo), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, e.Date); err == nil {
		return t.UTC(), nil
	}
	var lastErr error
	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, e.Date, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// location returns the id for a location, creating the Location row the
// first time its (name, latitude, longitude) is seen.
func (b *Builder) location(event string, loc LocationSeed) (string, bool) {
	if loc.Name == "" {
		b.skip("Location", "location without a name for event %q", event)
		return "", false
	}
	key := locationKey{name: loc.Name, latitude: loc.Latitude, longitude: loc.Longitude}
	if id, ok := b.locations[key]; ok {
		return id, true
	}
	id := b.newID()
	b.locations[key] = id
	b.plan.Locations = append(b.plan.Locations, model.Location{
		LocationID:  id,
		Name:        loc.Name,
		Description: loc.Description,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Address:     loc.Address,
	})
	return id, true
}

func (b *Builder) addTopics(topics []TopicSeed) {
	for _, t := range topics {
		switch {
		case t.Name == "":
			b.skip("Topic", "missing name")
			continue
		case len(t.Name) > constants.MaxTopicNameLength:
			b.skip("Topic", "name longer than %d characters", constants.MaxTopicNameLength)
			continue
		}
		if _, dup := b.topics[t.Name]; dup {
			b.skip("Topic", "duplicate name %q", t.Name)
			continue
		}

		id := b.newID()
		b.topics[t.Name] = id
		b.plan.Topics = append(b.plan.Topics, model.Topic{TopicID: id, Name: t.Name, Description: t.Description})

		for i, page := range t.Pages {
			content, err := json.Marshal(model.Page{Title: page.Title, Body: page.Body})
			if err != nil {
				b.skip("TopicContent", "page %d of %q: %v", i+1, t.Name, err)
				continue
			}
			b.plan.TopicContents = append(b.plan.TopicContents, model.TopicContent{
				TopicID:     id,
				ContentID:   b.newID(),
				PageNo:      int64(i + 1),
				ContentJSON: content,
			})
		}
	}
}

func (b *Builder) addFriendships(pairs [][]string) {
	for _, pair := range pairs {
		if len(pair) != 2 {
			b.skip("Friendship", "expected two names, got %v", pair)
			continue
		}
		idA, okA := b.people[pair[0]]
		idB, okB := b.people[pair[1]]
		if !okA || !okB {
			b.skip("Friendship", "missing person (%q or %q)", pair[0], pair[1])
			continue
		}
		if idA == idB {
			b.skip("Friendship", "self-friendship for %q", pair[0])
			continue
		}
		f := model.NewFriendship(idA, idB)
		if _, dup := b.friendships[f]; dup {
			continue
		}
		b.friendships[f] = struct{}{}
		b.plan.Friendships = append(b.plan.Friendships, f)
	}
}

func (b *Builder) addAttendance(pairs [][]string) {
	for _, pair := range pairs {
		if len(pair) != 2 {
			b.skip("Attendance", "expected person and event, got %v", pair)
			continue
		}
		personID, okP := b.people[pair[0]]
		eventID, okE := b.events[pair[1]]
		if !okP || !okE {
			b.skip("Attendance", "missing person (%q) or event (%q)", pair[0], pair[1])
			continue
		}
		a := model.Attendance{PersonID: personID, EventID: eventID}
		if _, dup := b.attendance[a]; dup {
			b.skip("Attendance", "duplicate record for %q at %q", pair[0], pair[1])
			continue
		}
		b.attendance[a] = struct{}{}
		b.plan.Attendances = append(b.plan.Attendances, a)
	}
}

func (b *Builder) addPosts(posts []PostSeed) {
	for _, p := range posts {
		authorID, ok := b.people[p.Author]
		if !ok {
			b.skip("Post", "unknown or missing author %q: %s", p.Author, truncate(p.Text, 50))
			continue
		}
		sentiment := model.Sentiment(p.Sentiment)
		if !sentiment.Valid() {
			b.skip("Post", "invalid sentiment %q: %s", p.Sentiment, truncate(p.Text, 50))
			continue
		}

		postID := b.newID()
		b.plan.Posts = append(b.plan.Posts, model.Post{
			PostID:        postID,
			AuthorID:      authorID,
			Text:          p.Text,
			Sentiment:     sentiment,
			PostTimestamp: b.ago(p.DaysAgo, p.HoursAgo),
		})

		if p.Mention == "" {
			continue
		}
		mentionedID, ok := b.people[p.Mention]
		if !ok {
			b.skip("Mention", "mentioned person %q not found for post %q", p.Mention, truncate(p.Text, 50))
			continue
		}
		b.plan.Mentions = append(b.plan.Mentions, model.Mention{PostID: postID, MentionedPersonID: mentionedID})
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
