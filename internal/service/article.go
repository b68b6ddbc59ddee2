// Package service coordinates the article store, filter engine, event
// publisher and metrics behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
	"github.com/jonesrussell/north-cloud/article-service/internal/events"
	"github.com/jonesrussell/north-cloud/article-service/internal/filter"
	"github.com/jonesrussell/north-cloud/article-service/internal/metrics"
	"github.com/jonesrussell/north-cloud/article-service/internal/store"
)

// EventPublisher emits article events without blocking the caller.
type EventPublisher interface {
	PublishAsync(ctx context.Context, event events.ArticleEvent)
}

// ArticleService implements the article use cases.
type ArticleService struct {
	store   store.Store
	engine  *filter.Engine
	events  EventPublisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  infralogger.Logger
}

// NewArticleService wires the service. events and m may be nil.
func NewArticleService(
	st store.Store,
	engine *filter.Engine,
	pub EventPublisher,
	m *metrics.Metrics,
	logger infralogger.Logger,
) *ArticleService {
	return &ArticleService{
		store:   st,
		engine:  engine,
		events:  pub,
		metrics: m,
		tracer:  metrics.Tracer(),
		logger:  logger,
	}
}

// Create validates req, stores the article and announces it.
// Validation failures wrap domain.ErrMissingField or domain.ErrInvalidDate.
func (s *ArticleService) Create(ctx context.Context, req *domain.CreateRequest) (*domain.Article, error) {
	ctx, span := s.tracer.Start(ctx, "article.create",
		trace.WithAttributes(attribute.String("article.view_id", req.ViewID)))
	defer span.End()

	if validateErr := req.Validate(); validateErr != nil {
		recordError(span, validateErr)
		return nil, validateErr
	}

	article := req.ToArticle()
	if _, insertErr := s.store.Insert(ctx, article); insertErr != nil {
		recordError(span, insertErr)
		return nil, fmt.Errorf("insert article: %w", insertErr)
	}
	span.SetAttributes(attribute.Int64("article.id", article.ID))

	s.metrics.RecordCreate()
	if s.events != nil {
		s.events.PublishAsync(ctx, events.NewArticleCreated(article))
	}

	s.logger.Info("Article created",
		infralogger.Int64("article_id", article.ID),
		infralogger.String("view_id", article.ViewID),
	)

	return article, nil
}

// GetByID returns the article with id, or nil when there is none.
func (s *ArticleService) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	ctx, span := s.tracer.Start(ctx, "article.get_by_id",
		trace.WithAttributes(attribute.Int64("article.id", id)))
	defer span.End()

	article, err := s.store.GetByID(ctx, id)
	return s.lookupResult(span, metrics.LookupByID, article, err)
}

// GetByViewID returns the newest article with viewID, or nil when there is none.
func (s *ArticleService) GetByViewID(ctx context.Context, viewID string) (*domain.Article, error) {
	ctx, span := s.tracer.Start(ctx, "article.get_by_view_id",
		trace.WithAttributes(attribute.String("article.view_id", viewID)))
	defer span.End()

	article, err := s.store.GetByViewID(ctx, viewID)
	return s.lookupResult(span, metrics.LookupByViewID, article, err)
}

func (s *ArticleService) lookupResult(
	span trace.Span,
	kind string,
	article *domain.Article,
	err error,
) (*domain.Article, error) {
	if errors.Is(err, store.ErrNotFound) {
		s.metrics.RecordLookup(kind, false)
		span.SetAttributes(attribute.Bool("article.found", false))
		return nil, nil
	}
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("get article by %s: %w", kind, err)
	}

	s.metrics.RecordLookup(kind, true)
	span.SetAttributes(attribute.Bool("article.found", true))
	return article, nil
}

// Filter returns the articles matching c in insertion order. Never nil on success.
func (s *ArticleService) Filter(ctx context.Context, c filter.Criteria) ([]domain.Article, error) {
	ctx, span := s.tracer.Start(ctx, "article.filter",
		trace.WithAttributes(
			attribute.Bool("filter.tags", c.Tags != nil),
			attribute.Bool("filter.author", c.Author != nil),
			attribute.Bool("filter.title", c.Title != nil),
			attribute.Bool("filter.date_from", c.DateFrom != nil),
			attribute.Bool("filter.date_to", c.DateTo != nil),
		))
	defer span.End()

	start := time.Now()

	articles, err := s.engine.Filter(ctx, c)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("filter articles: %w", err)
	}

	s.metrics.RecordFilter(time.Since(start), len(articles))
	span.SetAttributes(attribute.Int("filter.matches", len(articles)))
	return articles, nil
}

// Clear removes every stored article.
func (s *ArticleService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}
	s.logger.Warn("All articles cleared")
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
