package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
)

// articleRow mirrors the articles table.
type articleRow struct {
	ID        int64          `db:"id"`
	ViewID    sql.NullString `db:"view_id"`
	Title     string         `db:"title"`
	Author    string         `db:"author"`
	Date      string         `db:"published_on"`
	Link      string         `db:"link"`
	Tags      pq.StringArray `db:"tags"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *articleRow) toArticle() *domain.Article {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &domain.Article{
		ID:        r.ID,
		ViewID:    r.ViewID.String,
		Title:     r.Title,
		Author:    r.Author,
		Date:      r.Date,
		Link:      r.Link,
		Tags:      tags,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

const selectColumns = `id, view_id, title, author, published_on, link, tags, created_at`

// PostgresStore stores articles in the articles table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert implements Store.
func (s *PostgresStore) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	query := `
		INSERT INTO articles (view_id, title, author, published_on, link, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	var viewID sql.NullString
	if article.ViewID != "" {
		viewID = sql.NullString{String: article.ViewID, Valid: true}
	}

	var createdAt time.Time
	scanErr := s.db.QueryRowxContext(ctx, query,
		viewID,
		article.Title,
		article.Author,
		article.Date,
		article.Link,
		pq.StringArray(tags),
	).Scan(&article.ID, &createdAt)
	if scanErr != nil {
		return 0, fmt.Errorf("insert article: %w", scanErr)
	}

	article.CreatedAt = createdAt.UTC()
	article.Tags = tags
	return article.ID, nil
}

// GetByID implements Store.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	query := `SELECT ` + selectColumns + ` FROM articles WHERE id = $1`

	var row articleRow
	if getErr := s.db.GetContext(ctx, &row, query, id); getErr != nil {
		if errors.Is(getErr, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get article %d: %w", id, getErr)
	}

	return row.toArticle(), nil
}

// GetByViewID implements Store.
func (s *PostgresStore) GetByViewID(ctx context.Context, viewID string) (*domain.Article, error) {
	if viewID == "" {
		return nil, ErrNotFound
	}

	query := `SELECT ` + selectColumns + ` FROM articles WHERE view_id = $1 ORDER BY id DESC LIMIT 1`

	var row articleRow
	if getErr := s.db.GetContext(ctx, &row, query, viewID); getErr != nil {
		if errors.Is(getErr, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get article by view id %q: %w", viewID, getErr)
	}

	return row.toArticle(), nil
}

// All implements Store.
func (s *PostgresStore) All(ctx context.Context) ([]domain.Article, error) {
	query := `SELECT ` + selectColumns + ` FROM articles ORDER BY id`

	var rows []articleRow
	if selectErr := s.db.SelectContext(ctx, &rows, query); selectErr != nil {
		return nil, fmt.Errorf("list articles: %w", selectErr)
	}

	out := make([]domain.Article, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toArticle())
	}
	return out, nil
}

// Clear implements Store. The id sequence is left alone so ids are never reused.
func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, execErr := s.db.ExecContext(ctx, `DELETE FROM articles`); execErr != nil {
		return fmt.Errorf("clear articles: %w", execErr)
	}
	return nil
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
