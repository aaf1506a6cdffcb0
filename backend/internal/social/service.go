// Package social answers the read-side questions the web front-end asks:
// the feed, recent events, a person's profile and a topic's pages.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"instavibe/backend/internal/constants"
	"instavibe/backend/internal/model"
	"instavibe/backend/internal/store"
	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

// Lookups that succeed but match nothing. These are distinct from a query
// that fails, which carries one of the read-query error kinds.
var (
	ErrPersonNotFound = errors.New("person not found")
	ErrTopicNotFound  = errors.New("topic not found")
)

// Service runs read queries against the seeded tables
type Service struct {
	q      store.Querier
	logger *zap.Logger
}

// NewService creates a new read service
func NewService(q store.Querier, log *zap.Logger) *Service {
	return &Service{q: q, logger: logger.OrGet(log)}
}

func (s *Service) query(ctx context.Context, sql string, params []store.Param, columns []string) ([]store.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.QueryTimeout)
	defer cancel()

	rows, err := s.q.Query(ctx, sql, params, columns)
	if err != nil {
		s.logger.Warn("Read query failed",
			zap.String("kind", string(apperrors.KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}
	return rows, nil
}

// RecentPosts returns the newest posts with their authors' names
func (s *Service) RecentPosts(ctx context.Context, limit int) ([]PostView, error) {
	rows, err := s.query(ctx, recentPostsSQL, []store.Param{store.Int64Param("limit", int64(limit))}, postColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return postViews(rows), nil
}

// RecentEvents returns the latest events, each with its attendees and
// locations. The three queries run concurrently.
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]EventView, error) {
	params := []store.Param{store.Int64Param("limit", int64(limit))}

	var events, attendees, locations []store.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.query(gctx, recentEventsSQL, params, eventColumns)
		return err
	})
	g.Go(func() error {
		var err error
		attendees, err = s.query(gctx, recentAttendeesSQL, params, attendeeColumns)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = s.query(gctx, recentLocationsSQL, params, locationColumns)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	out := make([]EventView, 0, len(events))
	index := make(map[string]int, len(events))
	for _, row := range events {
		id := row.GetString("event_id")
		index[id] = len(out)
		out = append(out, EventView{
			EventID:     id,
			Name:        row.GetString("name"),
			Description: row.GetString("description"),
			EventDate:   row.GetTime("event_date"),
			Attendees:   []PersonRef{},
			Locations:   []LocationView{},
		})
	}
	for _, row := range attendees {
		if i, ok := index[row.GetString("event_id")]; ok {
			out[i].Attendees = append(out[i].Attendees, PersonRef{
				PersonID: row.GetString("person_id"),
				Name:     row.GetString("name"),
			})
		}
	}
	for _, row := range locations {
		if i, ok := index[row.GetString("event_id")]; ok {
			out[i].Locations = append(out[i].Locations, LocationView{
				LocationID:  row.GetString("location_id"),
				Name:        row.GetString("name"),
				Description: row.GetString("description"),
				Latitude:    row.GetFloat64("latitude"),
				Longitude:   row.GetFloat64("longitude"),
				Address:     row.GetString("address"),
			})
		}
	}
	return out, nil
}

// PersonProfile returns a person with their friends, posts and attended
// events. A missing person is ErrPersonNotFound.
func (s *Service) PersonProfile(ctx context.Context, personID string) (*Profile, error) {
	params := []store.Param{store.StringParam("person_id", personID)}

	rows, err := s.query(ctx, personSQL, params, personColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load person: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
	}

	p := &Profile{
		PersonID: rows[0].GetString("person_id"),
		Name:     rows[0].GetString("name"),
		Friends:  []PersonRef{},
		Posts:    []PostView{},
		Events:   []EventRef{},
	}
	if age, ok := rows[0]["age"].(int64); ok {
		p.Age = &age
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		friends, err := s.query(gctx, friendsSQL, params, friendColumns)
		for _, row := range friends {
			p.Friends = append(p.Friends, PersonRef{PersonID: row.GetString("person_id"), Name: row.GetString("name")})
		}
		return err
	})
	g.Go(func() error {
		posts, err := s.query(gctx, postsByAuthorSQL, params, postColumns)
		p.Posts = append(p.Posts, postViews(posts)...)
		return err
	})
	g.Go(func() error {
		events, err := s.query(gctx, attendedEventsSQL, params, eventRefColumns)
		for _, row := range events {
			p.Events = append(p.Events, EventRef{
				EventID:   row.GetString("event_id"),
				Name:      row.GetString("name"),
				EventDate: row.GetTime("event_date"),
			})
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

// TopicPages returns the topic with the given name and its pages in order.
// An unknown name is ErrTopicNotFound.
func (s *Service) TopicPages(ctx context.Context, name string) (*TopicView, error) {
	rows, err := s.query(ctx, topicPagesSQL, []store.Param{store.StringParam("name", name)}, topicColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, name)
	}

	t := &TopicView{
		TopicID:     rows[0].GetString("topic_id"),
		Name:        rows[0].GetString("name"),
		Description: rows[0].GetString("description"),
		Pages:       []PageView{},
	}
	for _, row := range rows {
		// Names are unique after seeding; ignore stray duplicates
		if row.GetString("topic_id") != t.TopicID || row["content_json"] == nil {
			continue
		}
		page, err := decodePage(row["content_json"])
		if err != nil {
			s.logger.Warn("Skipping unreadable page",
				zap.String("topic", name),
				zap.Int64("page_no", row.GetInt64("page_no")),
				zap.Error(err),
			)
			continue
		}
		t.Pages = append(t.Pages, PageView{PageNo: row.GetInt64("page_no"), Title: page.Title, Body: page.Body})
	}
	return t, nil
}

func postViews(rows []store.Row) []PostView {
	out := make([]PostView, 0, len(rows))
	for _, row := range rows {
		out = append(out, PostView{
			PostID:        row.GetString("post_id"),
			AuthorID:      row.GetString("author_id"),
			AuthorName:    row.GetString("author_name"),
			Text:          row.GetString("text"),
			Sentiment:     row.GetString("sentiment"),
			PostTimestamp: row.GetTime("post_timestamp"),
		})
	}
	return out
}

// decodePage accepts the JSON column as either backend returns it: already
// decoded into a map, or as raw text.
func decodePage(v any) (model.Page, error) {
	var raw []byte
	switch val := v.(type) {
	case string:
		raw = []byte(val)
	case []byte:
		raw = val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return model.Page{}, err
		}
		raw = b
	}

	var page model.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return model.Page{}, err
	}
	return page, nil
}
