package model

import (
	"encoding/json"
	"time"
)

// Sentiment is the enum-like label attached to a post
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the known labels
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Person is a user of the app
type Person struct {
	PersonID string
	Name     string
	Age      *int64
}

// Event is something people attend
type Event struct {
	EventID     string
	Name        string
	Description string
	EventDate   time.Time
}

// Post is a piece of text written by one person
type Post struct {
	PostID        string
	AuthorID      string
	Text          string
	Sentiment     Sentiment
	PostTimestamp time.Time
}

// Friendship is an undirected pair stored canonically (PersonIDA < PersonIDB).
// Build it with NewFriendship.
type Friendship struct {
	PersonIDA string
	PersonIDB string
}

// NewFriendship orders the two ids so the smaller one comes first
func NewFriendship(a, b string) Friendship {
	if b < a {
		a, b = b, a
	}
	return Friendship{PersonIDA: a, PersonIDB: b}
}

// Attendance links a person to an event they went to
type Attendance struct {
	PersonID string
	EventID  string
}

// Mention links a post to a person named in it
type Mention struct {
	PostID            string
	MentionedPersonID string
}

// Location is a physical place hosting events
type Location struct {
	LocationID  string
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	Address     string
}

// EventLocation links an event to one of its locations
type EventLocation struct {
	EventID    string
	LocationID string
}

// Topic groups an ordered set of content pages
type Topic struct {
	TopicID     string
	Name        string
	Description string
}

// TopicContent is one page of a topic. PageNo starts at 1.
type TopicContent struct {
	TopicID     string
	ContentID   string
	PageNo      int64
	ContentJSON json.RawMessage
}

// Page is the document stored in TopicContent.content_json
type Page struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
