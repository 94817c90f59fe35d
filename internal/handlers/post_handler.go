package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/artconnect/backend/internal/models"
	"github.com/artconnect/backend/internal/repositories"
	"github.com/artconnect/backend/pkg/retry"
	"github.com/labstack/echo/v4"
)

const (
	publishAttempts     = 3
	publishInitialDelay = time.Second
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts) // Feed, or posts by user with ?user_id=
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost publishes a new post. Transient store failures are retried a
// bounded number of times with increasing backoff before surfacing.
func (h *PostHandler) CreatePost(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		UserID:      sess.FirebaseUID,
		UserName:    sess.Name,
		UserEmail:   sess.Email,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsForSale:   req.IsForSale,
		Price:       req.Price,
	}

	ctx := c.Request().Context()
	err := retry.Do(ctx, publishAttempts, publishInitialDelay, func() error {
		return h.postRepository.CreatePost(ctx, post)
	})
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves the feed or a user's posts, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	userID := c.QueryParam("user_id")
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit == 0 {
		limit = 20 // Default feed page size
	}

	var posts []models.Post
	var err error

	if userID != "" {
		posts, err = h.postRepository.GetPostsByUserID(c.Request().Context(), userID, skip, limit)
	} else {
		posts, err = h.postRepository.GetAllPosts(c.Request().Context(), skip, limit)
	}

	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// UpdatePost updates an existing post. Author only.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return domainHTTPError(err)
	}
	if post.UserID != sess.FirebaseUID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can update this post")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Description != "" {
		post.Description = req.Description
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if req.IsForSale != nil {
		post.IsForSale = *req.IsForSale
	}
	if req.Price != nil {
		post.Price = req.Price
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post. Author only.
func (h *PostHandler) DeletePost(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return domainHTTPError(err)
	}
	if post.UserID != sess.FirebaseUID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return domainHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
