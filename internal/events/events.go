// Package events publishes article lifecycle events to a Redis stream.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
)

// StreamName is the Redis stream articles events are appended to.
const StreamName = "article-events"

// EventType names an article lifecycle event.
type EventType string

// ArticleCreated is emitted after an article is stored.
const ArticleCreated EventType = "article.created"

// ArticleEvent is the JSON document stored under the "event" stream field.
type ArticleEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	ArticleID int64     `json:"article_id"`
	ViewID    string    `json:"view_id,omitempty"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp"`
}

// NewArticleCreated builds the event for a freshly inserted article.
func NewArticleCreated(a *domain.Article) ArticleEvent {
	return ArticleEvent{
		EventID:   uuid.New(),
		EventType: ArticleCreated,
		ArticleID: a.ID,
		ViewID:    a.ViewID,
		Title:     a.Title,
		Date:      a.Date,
		Tags:      a.Tags,
		Timestamp: time.Now().UTC(),
	}
}
