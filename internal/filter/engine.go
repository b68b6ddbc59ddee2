// Package filter selects stored articles matching a set of optional criteria.
package filter

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
)

// Source supplies the articles to filter, in insertion order.
type Source interface {
	All(ctx context.Context) ([]domain.Article, error)
}

// Engine evaluates Criteria against a Source. It holds no per-request state
// and is safe for concurrent use.
type Engine struct {
	src           Source
	caseSensitive bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithCaseSensitive makes tag and author equality compare code points exactly.
// By default both compare under Unicode case folding.
func WithCaseSensitive(on bool) Option {
	return func(e *Engine) { e.caseSensitive = on }
}

// NewEngine returns an Engine reading from src.
func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{src: src}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CaseSensitive reports the configured tag and author comparison mode.
func (e *Engine) CaseSensitive() bool {
	return e.caseSensitive
}

// Filter returns the articles satisfying every present criterion, in
// insertion order. Empty criteria select nothing. The result is never nil.
func (e *Engine) Filter(ctx context.Context, c Criteria) ([]domain.Article, error) {
	if c.IsEmpty() {
		return []domain.Article{}, nil
	}

	articles, err := e.src.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	preds := e.predicates(c)
	out := make([]domain.Article, 0, len(articles))

	for i := range articles {
		if matchesAll(&articles[i], preds) {
			out = append(out, articles[i])
		}
	}

	return out, nil
}

type predicate func(*domain.Article) bool

func matchesAll(a *domain.Article, preds []predicate) bool {
	for _, p := range preds {
		if !p(a) {
			return false
		}
	}
	return true
}

func (e *Engine) predicates(c Criteria) []predicate {
	// cases.Caser is stateful, so each call gets its own.
	eq := func(a, b string) bool { return a == b }
	if !e.caseSensitive {
		fold := cases.Fold()
		eq = func(a, b string) bool { return a == b || fold.String(a) == fold.String(b) }
	}

	var preds []predicate

	if c.Tags != nil {
		want := *c.Tags
		preds = append(preds, func(a *domain.Article) bool {
			for _, tag := range a.Tags {
				if eq(tag, want) {
					return true
				}
			}
			return false
		})
	}

	if c.Author != nil {
		want := *c.Author
		preds = append(preds, func(a *domain.Article) bool { return eq(a.Author, want) })
	}

	if c.Title != nil {
		want := *c.Title
		preds = append(preds, func(a *domain.Article) bool { return strings.Contains(a.Title, want) })
	}

	if c.DateFrom != nil {
		from := *c.DateFrom
		preds = append(preds, func(a *domain.Article) bool {
			k, ok := storedKey(a)
			return ok && k.Compare(from) >= 0
		})
	}

	if c.DateTo != nil {
		to := *c.DateTo
		preds = append(preds, func(a *domain.Article) bool {
			k, ok := storedKey(a)
			return ok && k.Compare(to) <= 0
		})
	}

	return preds
}

// storedKey parses an article's date. Rows with an unparseable date never
// satisfy a date bound.
func storedKey(a *domain.Article) (domain.DateKey, bool) {
	k, err := domain.ParseDateKey(a.Date)
	return k, err == nil
}
