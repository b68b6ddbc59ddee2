package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
)

// MemoryStore keeps articles in a slice guarded by a RWMutex.
// Ids start at 1 and are never reused, even after Clear.
type MemoryStore struct {
	mu       sync.RWMutex
	articles []domain.Article
	byID     map[int64]int
	byViewID map[string]int
	lastID   int64
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[int64]int),
		byViewID: make(map[string]int),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Insert implements Store.
func (s *MemoryStore) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	article.ID = s.lastID
	article.CreatedAt = s.now()
	if article.Tags == nil {
		article.Tags = []string{}
	}

	idx := len(s.articles)
	s.articles = append(s.articles, article.Clone())
	s.byID[article.ID] = idx
	if article.ViewID != "" {
		s.byViewID[article.ViewID] = idx
	}

	return article.ID, nil
}

// GetByID implements Store.
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	a := s.articles[idx].Clone()
	return &a, nil
}

// GetByViewID implements Store.
func (s *MemoryStore) GetByViewID(ctx context.Context, viewID string) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byViewID[viewID]
	if !ok || viewID == "" {
		return nil, ErrNotFound
	}
	a := s.articles[idx].Clone()
	return &a, nil
}

// All implements Store.
func (s *MemoryStore) All(ctx context.Context) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Article, len(s.articles))
	for i := range s.articles {
		out[i] = s.articles[i].Clone()
	}
	return out, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.articles = nil
	clear(s.byID)
	clear(s.byViewID)
	return nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len reports how many articles are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}
