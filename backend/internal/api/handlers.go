package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"instavibe/backend/internal/social"
	apperrors "instavibe/backend/pkg/errors"
)

// Read failures never surface as a 5xx. The page renders with what it has
// and a flash message says what is missing. Only a lookup that ran and
// matched nothing answers 404.

func (h *Handler) home(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now()

	var (
		posts     []social.PostView
		events    []social.EventView
		postsErr  error
		eventsErr error
		g         errgroup.Group
	)
	g.Go(func() error {
		posts, postsErr = h.reader.RecentPosts(ctx, h.feedLimit)
		return nil
	})
	g.Go(func() error {
		events, eventsErr = h.reader.RecentEvents(ctx, h.feedLimit)
		return nil
	})
	_ = g.Wait()

	flash := []string{}
	if postsErr != nil {
		h.logger.Warn("Failed to load posts for home page", zap.Error(postsErr))
		flash = append(flash, "Could not load recent posts.")
	}
	if eventsErr != nil {
		h.logger.Warn("Failed to load events for home page", zap.Error(eventsErr))
		flash = append(flash, "Could not load recent events.")
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":                 presentPosts(posts, now),
		"all_events_attendance": presentEvents(events, now),
		"flash":                 flash,
	})
}

func (h *Handler) person(c *gin.Context) {
	personID := c.Param("id")

	profile, err := h.reader.PersonProfile(c.Request.Context(), personID)
	if err != nil {
		if errors.Is(err, social.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"person": nil, "flash": []string{"Person not found."}})
			return
		}
		h.logger.Warn("Failed to load profile",
			zap.String("person_id", personID),
			zap.String("kind", string(apperrors.KindOf(err))),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"person": nil, "flash": []string{"Could not load this profile."}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"person": presentProfile(profile, h.now()),
		"flash":  []string{},
	})
}

func (h *Handler) topic(c *gin.Context) {
	name := c.Param("name")

	topic, err := h.reader.TopicPages(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, social.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"topic": nil, "flash": []string{"Topic not found."}})
			return
		}
		h.logger.Warn("Failed to load topic",
			zap.String("topic", name),
			zap.String("kind", string(apperrors.KindOf(err))),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"topic": nil, "flash": []string{"Could not load this topic."}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": topic, "flash": []string{}})
}
