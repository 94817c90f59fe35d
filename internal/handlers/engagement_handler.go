package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/artconnect/backend/internal/models"
	"github.com/artconnect/backend/internal/repositories"
	"github.com/artconnect/backend/pkg/retry"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EngagementHandler handles likes, comments and shares on posts
type EngagementHandler struct {
	postRepository repositories.PostRepository
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(postRepo repositories.PostRepository) *EngagementHandler {
	return &EngagementHandler{postRepository: postRepo}
}

// RegisterEngagementRoutes registers engagement-related routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
	g.POST("/posts/:post_id/comments", h.AddComment)
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.POST("/posts/:post_id/share", h.SharePost)
}

// ToggleLike flips the caller's like on a post: liked posts are unliked,
// unliked posts are liked. Toggle is its own inverse.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	ctx := c.Request().Context()
	var liked bool
	err := retry.Do(ctx, publishAttempts, publishInitialDelay, func() error {
		var toggleErr error
		liked, toggleErr = h.postRepository.ToggleLike(ctx, postID, sess.FirebaseUID)
		return toggleErr
	})
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": liked}})
}

// AddComment appends an immutable comment to a post
func (h *EngagementHandler) AddComment(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Text) == "" {
		return domainHTTPError(models.ErrEmptyComment)
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    sess.FirebaseUID,
		UserName:  sess.Name,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}

	ctx := c.Request().Context()
	err := retry.Do(ctx, publishAttempts, publishInitialDelay, func() error {
		return h.postRepository.AddComment(ctx, postID, comment)
	})
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments returns a post's comments in insertion order
func (h *EngagementHandler) GetComments(c echo.Context) error {
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post.CommentsList})
}

// SharePost increments the share counter. Clients fire this once per
// successful external share, there is no per-user gating.
func (h *EngagementHandler) SharePost(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if err := h.postRepository.IncrementShares(c.Request().Context(), postID); err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
