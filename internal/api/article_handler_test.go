package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/article-service/internal/api"
	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
	"github.com/jonesrussell/north-cloud/article-service/internal/filter"
	"github.com/jonesrussell/north-cloud/article-service/internal/service"
	"github.com/jonesrussell/north-cloud/article-service/internal/store"
)

const parkmeTitle = "[專訪] 全球最大停車App創辦人：並非停車位不夠，只是你找不到"

var parkmeBody = map[string]any{
	"title":  parkmeTitle,
	"author": "李欣宜",
	"date":   "2015/10/27",
	"link":   "http://www.bnext.com.tw/article/view/id/37797",
	"tags":   []string{"智慧城市", "車聯網", "停車應用", "Parkme", "Sam Friedman"},
}

func setupTestRouter(t *testing.T, svc api.ArticleService) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	api.SetupRoutes(router, api.NewArticleHandler(svc), nil)

	return router
}

func newServiceRouter(t *testing.T) *gin.Engine {
	t.Helper()

	st := store.NewMemoryStore()
	svc := service.NewArticleService(st, filter.NewEngine(st), nil, nil, infralogger.NewNop())
	return setupTestRouter(t, svc)
}

func do(t *testing.T, router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req, reqErr := http.NewRequestWithContext(t.Context(), method, target, bytes.NewReader(body))
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postArticle(t *testing.T, router *gin.Engine, body map[string]any) domain.Article {
	t.Helper()

	bodyJSON, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		t.Fatalf("failed to marshal body: %v", marshalErr)
	}

	w := do(t, router, http.MethodPost, "/api/v1/article", bodyJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var a domain.Article
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &a); decodeErr != nil {
		t.Fatalf("decode: %v", decodeErr)
	}
	return a
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []domain.Article {
	t.Helper()

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	var out []domain.Article
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list: %v (%s)", err, w.Body.String())
	}
	return out
}

func filterURL(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return "/api/v1/article/filter?" + q.Encode()
}

func TestArticleHandler_Create(t *testing.T) {
	router := newServiceRouter(t)

	a := postArticle(t, router, parkmeBody)

	if a.ID == 0 {
		t.Error("id not assigned")
	}
	if a.ViewID != "37797" {
		t.Errorf("view_id = %q, want 37797", a.ViewID)
	}
	if len(a.Tags) != 5 {
		t.Errorf("tags = %v", a.Tags)
	}
}

func TestArticleHandler_Create_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "kq8ZfnwA2pLx0Tr"},
		{"missing date", `{"title":"t"}`},
		{"partial date", `{"title":"t","date":"2015/10"}`},
		{"wrong type", `{"title":"t","date":"2015/10/27","tags":"Parkme"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newServiceRouter(t)

			w := do(t, router, http.MethodPost, "/api/v1/article", []byte(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}

			// nothing may have been stored
			list := decodeList(t, do(t, router, http.MethodGet, filterURL(map[string]string{"date_from": "0000"}), nil))
			if len(list) != 0 {
				t.Errorf("stored %d articles after rejected create", len(list))
			}
		})
	}
}

func TestArticleHandler_Filter_OriginalScenarios(t *testing.T) {
	router := newServiceRouter(t)
	postArticle(t, router, parkmeBody)

	tests := []struct {
		name   string
		params map[string]string
	}{
		{"tags lower case", map[string]string{"tags": "parkme"}},
		{"author utf8", map[string]string{"author": "李欣宜"}},
		{"title substring", map[string]string{"title": "專訪"}},
		{"date_from month", map[string]string{"date_from": "2015/10"}},
		{"date_to month", map[string]string{"date_to": "2015/11"}},
		{"all fields", map[string]string{
			"tags": "parkme", "author": "李欣宜", "title": "專訪",
			"date_from": "2015/10/27", "date_to": "2015/10/27",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := decodeList(t, do(t, router, http.MethodGet, filterURL(tt.params), nil))
			if len(list) != 1 {
				t.Fatalf("got %d articles, want 1", len(list))
			}
			if list[0].Title != parkmeTitle {
				t.Errorf("title = %q", list[0].Title)
			}
		})
	}
}

func TestArticleHandler_Filter_NoMatchIsEmptyArray(t *testing.T) {
	router := newServiceRouter(t)

	targets := []string{
		filterURL(map[string]string{"tags": "parkme"}),
		filterURL(map[string]string{"title": "專訪"}),
		filterURL(map[string]string{"author": "李欣宜"}),
		filterURL(map[string]string{"date_from": "2015/10/27"}),
		filterURL(map[string]string{"date_to": "2015/10/27"}),
		"/api/v1/article/filter",
	}

	for _, target := range targets {
		w := do(t, router, http.MethodGet, target, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", target, w.Code)
		}
		if w.Body.String() != "[]" {
			t.Errorf("%s: body = %q, want []", target, w.Body.String())
		}
	}
}

func TestArticleHandler_Filter_RawEscapedQuery(t *testing.T) {
	router := newServiceRouter(t)
	postArticle(t, router, parkmeBody)

	target := "/api/v1/article/filter?author=%E6%9D%8E%E6%AC%A3%E5%AE%9C&title=%E5%B0%88%E8%A8%AA"
	if list := decodeList(t, do(t, router, http.MethodGet, target, nil)); len(list) != 1 {
		t.Errorf("got %d articles, want 1", len(list))
	}

	// repeated parameter uses the first value
	target = "/api/v1/article/filter?tags=parkme&tags=nothing"
	if list := decodeList(t, do(t, router, http.MethodGet, target, nil)); len(list) != 1 {
		t.Errorf("repeated tags: got %d articles, want 1", len(list))
	}
}

func TestArticleHandler_Filter_InvalidDate(t *testing.T) {
	router := newServiceRouter(t)

	w := do(t, router, http.MethodGet, filterURL(map[string]string{"date_from": "2015/13"}), nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestArticleHandler_GetByID(t *testing.T) {
	router := newServiceRouter(t)
	created := postArticle(t, router, parkmeBody)

	w := do(t, router, http.MethodGet, "/api/v1/article/"+strconv.FormatInt(created.ID, 10), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got domain.Article
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != parkmeTitle {
		t.Errorf("title = %q", got.Title)
	}

	for _, target := range []string{"/api/v1/article/999", "/api/v1/article/abc"} {
		w := do(t, router, http.MethodGet, target, nil)
		if w.Code != http.StatusOK || w.Body.String() != "{}" {
			t.Errorf("%s: %d %q, want 200 {}", target, w.Code, w.Body.String())
		}
	}
}

func TestArticleHandler_GetByViewID(t *testing.T) {
	router := newServiceRouter(t)

	body := map[string]any{}
	for k, v := range parkmeBody {
		body[k] = v
	}
	body["link"] = "http://www.bnext.com.tw/article/view/id/37805"
	postArticle(t, router, body)

	w := do(t, router, http.MethodGet, "/api/v1/article?viewid=37805", nil)
	var got domain.Article
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ViewID != "37805" || got.Link != body["link"] {
		t.Errorf("got %+v", got)
	}

	for _, target := range []string{"/api/v1/article", "/api/v1/article?viewid=1", "/api/v1/article?viewid="} {
		w := do(t, router, http.MethodGet, target, nil)
		if w.Code != http.StatusOK || w.Body.String() != "{}" {
			t.Errorf("%s: %d %q, want 200 {}", target, w.Code, w.Body.String())
		}
	}
}

type mockArticleService struct {
	createFunc func(req *domain.CreateRequest) (*domain.Article, error)
	getFunc    func(id int64) (*domain.Article, error)
	filterFunc func(c filter.Criteria) ([]domain.Article, error)
}

func (m *mockArticleService) Create(_ context.Context, req *domain.CreateRequest) (*domain.Article, error) {
	if m.createFunc != nil {
		return m.createFunc(req)
	}
	return &domain.Article{ID: 1}, nil
}

func (m *mockArticleService) GetByID(_ context.Context, id int64) (*domain.Article, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return nil, nil
}

func (m *mockArticleService) GetByViewID(_ context.Context, _ string) (*domain.Article, error) {
	return nil, nil
}

func (m *mockArticleService) Filter(_ context.Context, c filter.Criteria) ([]domain.Article, error) {
	if m.filterFunc != nil {
		return m.filterFunc(c)
	}
	return nil, nil
}

func TestArticleHandler_ServiceErrors(t *testing.T) {
	boom := errors.New("connection refused")
	svc := &mockArticleService{
		createFunc: func(*domain.CreateRequest) (*domain.Article, error) { return nil, boom },
		getFunc:    func(int64) (*domain.Article, error) { return nil, boom },
		filterFunc: func(filter.Criteria) ([]domain.Article, error) { return nil, boom },
	}
	router := setupTestRouter(t, svc)

	requests := []struct {
		method, target string
		body           []byte
	}{
		{http.MethodPost, "/api/v1/article", []byte(`{"date":"2015/10/27"}`)},
		{http.MethodGet, "/api/v1/article/1", nil},
		{http.MethodGet, filterURL(map[string]string{"tags": "x"}), nil},
	}

	for _, r := range requests {
		w := do(t, router, r.method, r.target, r.body)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: status = %d, want 500", r.method, r.target, w.Code)
		}
	}
}

func TestArticleHandler_FilterNilResultRendersEmptyArray(t *testing.T) {
	router := setupTestRouter(t, &mockArticleService{})

	w := do(t, router, http.MethodGet, filterURL(map[string]string{"tags": "x"}), nil)
	if w.Body.String() != "[]" {
		t.Errorf("body = %q, want []", w.Body.String())
	}
}

func TestSetupRoutes_Metrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	api.SetupRoutes(router, api.NewArticleHandler(&mockArticleService{}), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	w := do(t, router, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("/metrics = %d %q", w.Code, w.Body.String())
	}
}
