package store_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
	"github.com/jonesrussell/north-cloud/article-service/internal/store"
)

var _ store.Store = (*store.PostgresStore)(nil)

var articleColumns = []string{"id", "view_id", "title", "author", "published_on", "link", "tags", "created_at"}

func newMockStore(t *testing.T) (*store.PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return store.NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresStore_Insert(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO articles").
		WithArgs("37797", "標題", "李欣宜", "2015/10/27", "http://www.bnext.com.tw/article/view/id/37797", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	a := &domain.Article{
		ViewID: "37797",
		Title:  "標題",
		Author: "李欣宜",
		Date:   "2015/10/27",
		Link:   "http://www.bnext.com.tw/article/view/id/37797",
	}

	id, err := s.Insert(t.Context(), a)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, created, a.CreatedAt)
	assert.NotNil(t, a.Tags)
}

func TestPostgresStore_InsertWithoutViewIDStoresNull(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO articles").
		WithArgs(nil, "t", "", "2015/10/27", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	_, err := s.Insert(t.Context(), &domain.Article{Title: "t", Date: "2015/10/27"})
	require.NoError(t, err)
}

func TestPostgresStore_InsertError(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO articles").WillReturnError(sql.ErrConnDone)

	_, err := s.Insert(t.Context(), &domain.Article{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestPostgresStore_GetByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
		check   func(*testing.T, *domain.Article)
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT (.+) FROM articles WHERE id = \\$1").
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows(articleColumns).
						AddRow(int64(3), "37797", "title", "author", "2015/10/27", "link", "{智慧城市,Parkme}", time.Now()))
			},
			check: func(t *testing.T, a *domain.Article) {
				t.Helper()
				assert.Equal(t, int64(3), a.ID)
				assert.Equal(t, "37797", a.ViewID)
				assert.Equal(t, []string{"智慧城市", "Parkme"}, a.Tags)
			},
		},
		{
			name: "null view id and empty tags",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT (.+) FROM articles WHERE id = \\$1").
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows(articleColumns).
						AddRow(int64(3), nil, "title", "author", "2015/10/27", "link", "{}", time.Now()))
			},
			check: func(t *testing.T, a *domain.Article) {
				t.Helper()
				assert.Empty(t, a.ViewID)
				assert.NotNil(t, a.Tags)
				assert.Empty(t, a.Tags)
			},
		},
		{
			name: "missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT (.+) FROM articles WHERE id = \\$1").
					WithArgs(int64(3)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: store.ErrNotFound,
		},
		{
			name: "database failure",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT (.+) FROM articles WHERE id = \\$1").
					WithArgs(int64(3)).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, mock := newMockStore(t)
			tt.setup(mock)

			got, err := s.GetByID(t.Context(), 3)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestPostgresStore_GetByViewID(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM articles WHERE view_id = \\$1 ORDER BY id DESC LIMIT 1").
		WithArgs("37805").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(int64(9), "37805", "newest", "a", "2015/10/27", "l", "{}", time.Now()))
	mock.ExpectQuery("SELECT (.+) FROM articles WHERE view_id").
		WithArgs("0").
		WillReturnError(sql.ErrNoRows)

	got, err := s.GetByViewID(t.Context(), "37805")
	require.NoError(t, err)
	assert.Equal(t, "newest", got.Title)

	_, err = s.GetByViewID(t.Context(), "0")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetByViewID(t.Context(), "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_AllOrderedByID(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM articles ORDER BY id").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(int64(1), nil, "first", "a", "2015/10/27", "l", "{x}", time.Now()).
			AddRow(int64(2), "2", "second", "b", "2015/10/28", "l", "{y,z}", time.Now()))

	all, err := s.All(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Title)
	assert.Equal(t, []string{"y", "z"}, all[1].Tags)
}

func TestPostgresStore_AllEmpty(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM articles ORDER BY id").
		WillReturnRows(sqlmock.NewRows(articleColumns))

	all, err := s.All(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestPostgresStore_Clear(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM articles").WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, s.Clear(t.Context()))
}
