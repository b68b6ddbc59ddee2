// Package api provides the HTTP handlers for the article service.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/article-service/internal/domain"
	"github.com/jonesrussell/north-cloud/article-service/internal/filter"
)

// ArticleService is what the handlers need from the service layer.
// Lookups return a nil article, not an error, when nothing matches.
type ArticleService interface {
	Create(ctx context.Context, req *domain.CreateRequest) (*domain.Article, error)
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	GetByViewID(ctx context.Context, viewID string) (*domain.Article, error)
	Filter(ctx context.Context, c filter.Criteria) ([]domain.Article, error)
}

// ArticleHandler serves /api/v1/article.
type ArticleHandler struct {
	svc ArticleService
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(svc ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// Create handles POST /api/v1/article.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req domain.CreateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
		return
	}

	article, createErr := h.svc.Create(c.Request.Context(), &req)
	if createErr != nil {
		if isValidationError(createErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": createErr.Error()})
			return
		}
		internalError(c, createErr)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// GetByViewID handles GET /api/v1/article?viewid=.
// A missing parameter or unknown view id yields {}.
func (h *ArticleHandler) GetByViewID(c *gin.Context) {
	viewID := c.Query("viewid")
	if viewID == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	article, getErr := h.svc.GetByViewID(c.Request.Context(), viewID)
	renderOne(c, article, getErr)
}

// GetByID handles GET /api/v1/article/:id.
// A non-numeric or unknown id yields {}.
func (h *ArticleHandler) GetByID(c *gin.Context) {
	id, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	article, getErr := h.svc.GetByID(c.Request.Context(), id)
	renderOne(c, article, getErr)
}

// Filter handles GET /api/v1/article/filter.
func (h *ArticleHandler) Filter(c *gin.Context) {
	var raw filter.RawCriteria
	if bindErr := c.ShouldBindQuery(&raw); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
		return
	}

	criteria, parseErr := filter.ParseCriteria(raw)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}

	articles, filterErr := h.svc.Filter(c.Request.Context(), criteria)
	if filterErr != nil {
		internalError(c, filterErr)
		return
	}

	if articles == nil {
		articles = []domain.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

func renderOne(c *gin.Context, article *domain.Article, err error) {
	if err != nil {
		internalError(c, err)
		return
	}
	if article == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, article)
}

// internalError records err for the request logger and answers 500.
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidDate) || errors.Is(err, domain.ErrMissingField)
}
