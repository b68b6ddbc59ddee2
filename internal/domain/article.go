// Package domain holds the article model and its date ordering.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation errors returned for malformed create payloads.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidDate  = errors.New("invalid date")
)

// Article is a stored news article. Articles are immutable once inserted.
type Article struct {
	ID        int64     `json:"id"`
	ViewID    string    `json:"view_id,omitempty"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Date      string    `json:"date"`
	Link      string    `json:"link"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest is the body of POST /api/v1/article.
type CreateRequest struct {
	ViewID string   `json:"view_id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Date   string   `binding:"required" json:"date"`
	Link   string   `json:"link"`
	Tags   []string `json:"tags"`
}

// Validate checks the fields the store relies on. Date must be a full,
// real calendar date in YYYY/MM/DD form.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return fmt.Errorf("%w: date", ErrMissingField)
	}
	if _, err := ParseStoredDate(r.Date); err != nil {
		return err
	}
	return nil
}

// ToArticle builds the article to insert. Duplicate tags are dropped keeping the
// first occurrence, and a missing view id is taken from the link when possible.
func (r *CreateRequest) ToArticle() *Article {
	viewID := strings.TrimSpace(r.ViewID)
	if viewID == "" {
		viewID = ViewIDFromLink(r.Link)
	}

	return &Article{
		ViewID: viewID,
		Title:  r.Title,
		Author: r.Author,
		Date:   strings.TrimSpace(r.Date),
		Link:   r.Link,
		Tags:   DedupeTags(r.Tags),
	}
}

// DedupeTags returns tags without exact duplicates or empty labels, in first-seen order.
// The result is never nil.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}

var viewIDPattern = regexp.MustCompile(`/article/view/id/(\d+)/?$`)

// ViewIDFromLink extracts the numeric id from links shaped like
// http://www.bnext.com.tw/article/view/id/37797. It returns "" otherwise.
func ViewIDFromLink(link string) string {
	m := viewIDPattern.FindStringSubmatch(strings.TrimSpace(link))
	if m == nil {
		return ""
	}
	return m[1]
}

// Clone returns a copy that shares no slices with a.
func (a *Article) Clone() Article {
	c := *a
	c.Tags = append(make([]string, 0, len(a.Tags)), a.Tags...)
	return c
}
