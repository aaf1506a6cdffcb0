package api

import (
	"time"

	"github.com/dustin/go-humanize"

	"instavibe/backend/internal/social"
)

// humanizeTime renders t relative to now ("3 days ago"). The zero time,
// which is what a NULL timestamp decodes to, reads as "just now".
func humanizeTime(t, now time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	return humanize.RelTime(t.UTC(), now.UTC(), "ago", "from now")
}

type postJSON struct {
	social.PostView
	PostedAgo string `json:"posted_ago"`
}

type eventJSON struct {
	social.EventView
	When string `json:"when"`
}

type eventRefJSON struct {
	social.EventRef
	When string `json:"when"`
}

type profileJSON struct {
	*social.Profile
	Posts  []postJSON     `json:"posts"`
	Events []eventRefJSON `json:"events"`
}

func presentPosts(posts []social.PostView, now time.Time) []postJSON {
	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON{PostView: p, PostedAgo: humanizeTime(p.PostTimestamp, now)})
	}
	return out
}

func presentEvents(events []social.EventView, now time.Time) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, eventJSON{EventView: e, When: humanizeTime(e.EventDate, now)})
	}
	return out
}

func presentProfile(p *social.Profile, now time.Time) profileJSON {
	events := make([]eventRefJSON, 0, len(p.Events))
	for _, e := range p.Events {
		events = append(events, eventRefJSON{EventRef: e, When: humanizeTime(e.EventDate, now)})
	}
	return profileJSON{Profile: p, Posts: presentPosts(p.Posts, now), Events: events}
}
