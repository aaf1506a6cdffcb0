package social

import "time"

// PersonRef is the short form of a person used in lists
type PersonRef struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
}

// PostView is a post joined with its author
type PostView struct {
	PostID        string    `json:"post_id"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	Text          string    `json:"text"`
	Sentiment     string    `json:"sentiment"`
	PostTimestamp time.Time `json:"post_timestamp"`
}

// LocationView is one place an event is held
type LocationView struct {
	LocationID  string  `json:"location_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
}

// EventView is an event with everyone who attended and where it happened
type EventView struct {
	EventID     string         `json:"event_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	EventDate   time.Time      `json:"event_date"`
	Attendees   []PersonRef    `json:"attendees"`
	Locations   []LocationView `json:"locations"`
}

// EventRef is an event a person attended
type EventRef struct {
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	EventDate time.Time `json:"event_date"`
}

// Profile is everything the person page shows
type Profile struct {
	PersonID string      `json:"person_id"`
	Name     string      `json:"name"`
	Age      *int64      `json:"age,omitempty"`
	Friends  []PersonRef `json:"friends"`
	Posts    []PostView  `json:"posts"`
	Events   []EventRef  `json:"events"`
}

// PageView is one decoded topic page
type PageView struct {
	PageNo int64  `json:"page_no"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// TopicView is a topic with its pages in page order
type TopicView struct {
	TopicID     string     `json:"topic_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Pages       []PageView `json:"pages"`
}
