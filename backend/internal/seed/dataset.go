package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed fixtures/instavibe.toml
var defaultFixture []byte

// Dataset is the curated input, keyed by human-readable names
type Dataset struct {
	Friendships [][]string   `toml:"friendships"`
	Attendance  [][]string   `toml:"attendance"`
	People      []PersonSeed `toml:"people"`
	Events      []EventSeed  `toml:"events"`
	Topics      []TopicSeed  `toml:"topics"`
	Posts       []PostSeed   `toml:"posts"`
}

type PersonSeed struct {
	Name string `toml:"name"`
	Age  *int64 `toml:"age"`
}

// EventSeed is dated either by an explicit RFC 3339 Date or, when Date is
// empty, by an offset back from the load time.
type EventSeed struct {
	Name        string         `toml:"name"`
	Description string         `toml:"description"`
	Date        string         `toml:"date"`
	DaysAgo     int            `toml:"days_ago"`
	HoursAgo    int            `toml:"hours_ago"`
	Locations   []LocationSeed `toml:"locations"`
}

type LocationSeed struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Latitude    float64 `toml:"latitude"`
	Longitude   float64 `toml:"longitude"`
	Address     string  `toml:"address"`
}

type TopicSeed struct {
	Name        string     `toml:"name"`
	Description string     `toml:"description"`
	Pages       []PageSeed `toml:"pages"`
}

type PageSeed struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

type PostSeed struct {
	Author    string `toml:"author"`
	Text      string `toml:"text"`
	Sentiment string `toml:"sentiment"`
	Mention   string `toml:"mention"`
	DaysAgo   int    `toml:"days_ago"`
	HoursAgo  int    `toml:"hours_ago"`
}

// DefaultDataset returns the embedded curated dataset
func DefaultDataset() (*Dataset, error) {
	return DecodeDataset(bytes.NewReader(defaultFixture))
}

// LoadDataset reads a TOML fixture from path, or the embedded one when path is empty
func LoadDataset(path string) (*Dataset, error) {
	if path == "" {
		return DefaultDataset()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()
	return DecodeDataset(f)
}

// DecodeDataset parses a TOML fixture. Unknown keys are rejected so a typo
// does not silently drop data.
func DecodeDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &ds, nil
}
