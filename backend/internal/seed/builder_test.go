package seed

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"instavibe/backend/internal/model"
)

var fixedNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

// sequentialIDs returns ids that sort in generation order
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%04d", n)
	}
}

// descendingIDs returns ids that sort in reverse generation order
func descendingIDs() func() string {
	n := 10000
	return func() string {
		n--
		return fmt.Sprintf("id-%04d", n)
	}
}

func newTestBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	base := []Option{WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs())}
	return NewBuilder(zaptest.NewLogger(t), append(base, opts...)...)
}

func people(names ...string) []PersonSeed {
	out := make([]PersonSeed, len(names))
	for i, n := range names {
		out[i] = PersonSeed{Name: n}
	}
	return out
}

func TestBuild_DefaultDataset(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	plan := newTestBuilder(t).Build(ds)

	assert.Len(t, plan.People, 15)
	assert.Len(t, plan.Events, 7)
	assert.Len(t, plan.Locations, 10)
	assert.Len(t, plan.EventLocations, 10)
	assert.Len(t, plan.Topics, 5)
	assert.Len(t, plan.TopicContents, 11)
	assert.Len(t, plan.Friendships, 30)
	assert.Len(t, plan.Attendances, 21)
	assert.Len(t, plan.Posts, 20)
	assert.Len(t, plan.Mentions, 9)

	// Grace and Liam are mentioned but do not exist
	require.Len(t, plan.Skipped, 2)
	for _, s := range plan.Skipped {
		assert.Equal(t, "Mention", s.Entity)
	}
}

func TestBuild_FriendshipsCanonicalAndUnique(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	// Descending ids force the builder to swap most pairs
	plan := newTestBuilder(t, WithIDGenerator(descendingIDs())).Build(ds)

	seen := map[model.Friendship]bool{}
	for _, f := range plan.Friendships {
		assert.Less(t, f.PersonIDA, f.PersonIDB)
		assert.False(t, seen[f], "pair %v appears twice", f)
		seen[f] = true
	}
}

func TestBuild_AliceBobScenario(t *testing.T) {
	ds := &Dataset{
		People:      people("Alice", "Bob"),
		Friendships: [][]string{{"Alice", "Bob"}, {"Bob", "Alice"}},
	}

	plan := newTestBuilder(t, WithIDGenerator(descendingIDs())).Build(ds)

	require.Len(t, plan.Friendships, 1)
	alice, bob := plan.People[0].PersonID, plan.People[1].PersonID
	assert.Equal(t, model.Friendship{PersonIDA: bob, PersonIDB: alice}, plan.Friendships[0])
	assert.Empty(t, plan.Skipped)
}

func TestBuild_SelfFriendshipSkipped(t *testing.T) {
	ds := &Dataset{
		People:      people("Alice"),
		Friendships: [][]string{{"Alice", "Alice"}},
	}

	plan := newTestBuilder(t).Build(ds)

	assert.Empty(t, plan.Friendships)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "Friendship", plan.Skipped[0].Entity)
}

func TestBuild_MalformedPairsSkipped(t *testing.T) {
	ds := &Dataset{
		People:      people("Alice", "Bob"),
		Friendships: [][]string{{"Alice"}, {"Alice", "Zed"}},
		Attendance:  [][]string{{"Alice", "Nowhere", "extra"}},
	}

	plan := newTestBuilder(t).Build(ds)

	assert.Empty(t, plan.Friendships)
	assert.Empty(t, plan.Attendances)
	assert.Len(t, plan.Skipped, 3)
}

func TestBuild_TopicPagesNumberedFromOne(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	plan := newTestBuilder(t).Build(ds)

	pages := map[string][]int64{}
	for _, c := range plan.TopicContents {
		pages[c.TopicID] = append(pages[c.TopicID], c.PageNo)
	}
	require.Len(t, pages, 5)
	for _, topic := range plan.Topics {
		got := pages[topic.TopicID]
		for i, n := range got {
			assert.Equal(t, int64(i+1), n, topic.Name)
		}
	}

	var first model.Page
	require.NoError(t, json.Unmarshal(plan.TopicContents[0].ContentJSON, &first))
	assert.Equal(t, "What is AI?", first.Title)
}

func TestBuild_EventLocationsReferenceBatch(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	plan := newTestBuilder(t).Build(ds)

	events := map[string]bool{}
	for _, e := range plan.Events {
		events[e.EventID] = true
	}
	locations := map[string]bool{}
	for _, l := range plan.Locations {
		locations[l.LocationID] = true
	}
	for _, el := range plan.EventLocations {
		assert.True(t, events[el.EventID], "event %s missing", el.EventID)
		assert.True(t, locations[el.LocationID], "location %s missing", el.LocationID)
	}
}

func TestBuild_SharedLocationDeduplicated(t *testing.T) {
	hall := LocationSeed{Name: "Community Hall", Latitude: 34.05, Longitude: -118.24, Address: "123 Main St"}
	moved := hall
	moved.Latitude = 34.06

	ds := &Dataset{Events: []EventSeed{
		{Name: "Bake Sale", Locations: []LocationSeed{hall}},
		{Name: "Potluck", Locations: []LocationSeed{hall}},
		{Name: "Swap Meet", Locations: []LocationSeed{moved}},
	}}

	plan := newTestBuilder(t).Build(ds)

	require.Len(t, plan.Locations, 2)
	require.Len(t, plan.EventLocations, 3)
	assert.Equal(t, plan.EventLocations[0].LocationID, plan.EventLocations[1].LocationID)
	assert.NotEqual(t, plan.EventLocations[0].EventID, plan.EventLocations[1].EventID)
	assert.NotEqual(t, plan.EventLocations[0].LocationID, plan.EventLocations[2].LocationID)
}

func TestBuild_RepeatedLocationForEventSkipped(t *testing.T) {
	hall := LocationSeed{Name: "Community Hall", Latitude: 34.05, Longitude: -118.24}
	ds := &Dataset{Events: []EventSeed{
		{Name: "Bake Sale", Locations: []LocationSeed{hall, hall}},
	}}

	plan := newTestBuilder(t).Build(ds)

	require.Len(t, plan.Locations, 1)
	require.Len(t, plan.EventLocations, 1)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "EventLocation", plan.Skipped[0].Entity)
	assert.Contains(t, plan.Skipped[0].Reason, "Community Hall")
}

func TestBuild_UnknownAuthorSkipsOnlyThatPost(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := NewBuilder(zap.New(core), WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs()))

	ds := &Dataset{
		People: people("Alice", "Bob"),
		Posts: []PostSeed{
			{Author: "Alice", Text: "one", Sentiment: "positive"},
			{Author: "Zoe", Text: "two", Sentiment: "neutral"},
			{Author: "Bob", Text: "three", Sentiment: "negative"},
		},
	}

	plan := b.Build(ds)

	assert.Len(t, plan.Posts, 2)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "Post", plan.Skipped[0].Entity)
	assert.Equal(t, 1, logs.FilterMessage("Skipping row").Len())
}

func TestBuild_UnknownMentionKeepsPost(t *testing.T) {
	ds := &Dataset{
		People: people("Alice", "Bob"),
		Posts: []PostSeed{
			{Author: "Alice", Text: "hi Grace", Sentiment: "neutral", Mention: "Grace"},
			{Author: "Alice", Text: "hi Bob", Sentiment: "positive", Mention: "Bob"},
		},
	}

	plan := newTestBuilder(t).Build(ds)

	require.Len(t, plan.Posts, 2)
	require.Len(t, plan.Mentions, 1)
	assert.Equal(t, plan.Posts[1].PostID, plan.Mentions[0].PostID)
	assert.Equal(t, plan.People[1].PersonID, plan.Mentions[0].MentionedPersonID)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "Mention", plan.Skipped[0].Entity)
}

func TestBuild_InvalidSentimentSkipsPost(t *testing.T) {
	ds := &Dataset{
		People: people("Alice"),
		Posts:  []PostSeed{{Author: "Alice", Text: "meh", Sentiment: "ecstatic", Mention: "Alice"}},
	}

	plan := newTestBuilder(t).Build(ds)

	assert.Empty(t, plan.Posts)
	assert.Empty(t, plan.Mentions)
	assert.Len(t, plan.Skipped, 1)
}

func TestBuild_RelativeTimes(t *testing.T) {
	ds := &Dataset{
		People: people("Alice"),
		Events: []EventSeed{{Name: "Picnic", DaysAgo: 4, HoursAgo: 6}},
		Posts:  []PostSeed{{Author: "Alice", Text: "x", Sentiment: "neutral", DaysAgo: 2, HoursAgo: 15}},
	}

	plan := newTestBuilder(t).Build(ds)

	assert.Equal(t, fixedNow.Add(-(4*24+6)*time.Hour), plan.Events[0].EventDate)
	assert.Equal(t, fixedNow.Add(-(2*24+15)*time.Hour), plan.Posts[0].PostTimestamp)
}

func TestBuild_ExplicitEventDates(t *testing.T) {
	ds := &Dataset{
		People: people("Alice"),
		Events: []EventSeed{
			{Name: "Zoned", Date: "2025-03-01T10:00:00-08:00"},
			{Name: "Naive", Date: "2025-03-02T09:30:00"},
			{Name: "Broken", Date: "next tuesday", Locations: []LocationSeed{{Name: "Somewhere"}}},
		},
		Attendance: [][]string{{"Alice", "Broken"}, {"Alice", "Zoned"}},
	}

	plan := newTestBuilder(t).Build(ds)

	require.Len(t, plan.Events, 2)
	assert.Equal(t, time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), plan.Events[0].EventDate)
	assert.Equal(t, time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC), plan.Events[1].EventDate)

	// The broken event, its location and its attendance all disappear
	assert.Empty(t, plan.Locations)
	assert.Empty(t, plan.EventLocations)
	require.Len(t, plan.Attendances, 1)
	assert.Equal(t, plan.Events[0].EventID, plan.Attendances[0].EventID)
	assert.Len(t, plan.Skipped, 2)
}

func TestBuild_DuplicateNamesSkipped(t *testing.T) {
	ds := &Dataset{
		People:     people("Alice", "Alice"),
		Topics:     []TopicSeed{{Name: "Film"}, {Name: "Film"}},
		Events:     []EventSeed{{Name: "Picnic"}},
		Attendance: [][]string{{"Alice", "Picnic"}, {"Alice", "Picnic"}},
	}

	plan := newTestBuilder(t).Build(ds)

	assert.Len(t, plan.People, 1)
	assert.Len(t, plan.Topics, 1)
	assert.Len(t, plan.Attendances, 1)
	assert.Len(t, plan.Skipped, 3)
}

func TestBuild_FreshIDsPerRun(t *testing.T) {
	ds := &Dataset{People: people("Alice")}
	b := NewBuilder(zaptest.NewLogger(t))

	first := b.Build(ds)
	second := b.Build(ds)

	assert.NotEqual(t, first.People[0].PersonID, second.People[0].PersonID)
	assert.Len(t, first.People[0].PersonID, 36)
}
