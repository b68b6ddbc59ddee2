// Package store persists articles. Two implementations exist: an in-process
// MemoryStore and a PostgresStore backed by sqlx.
package store

import (
	"context"
	"errors"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
)

// ErrNotFound is returned by lookups that match no article.
var ErrNotFound = errors.New("article not found")

// Store is the article persistence contract.
//
// Insert assigns a fresh id and creation time, writes them back onto the
// article and returns the id. All returns every article in insertion order as
// a copy the caller may keep. GetByViewID returns the newest article carrying
// the view id.
type Store interface {
	Insert(ctx context.Context, article *domain.Article) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	GetByViewID(ctx context.Context, viewID string) (*domain.Article, error)
	All(ctx context.Context) ([]domain.Article, error)
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Driver names accepted by configuration.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)
