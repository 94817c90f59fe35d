package handlers

import (
	"net/http"

	"github.com/artconnect/backend/internal/repositories"
	"github.com/artconnect/backend/pkg/retry"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository) *FollowHandler {
	return &FollowHandler{followRepository: followRepo}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:uid/follow", h.FollowUser)
	g.DELETE("/users/:uid/follow", h.UnfollowUser)
	g.GET("/users/:uid/follow/status", h.GetFollowStatus)
	g.GET("/users/:uid/followers", h.GetFollowers)
	g.GET("/users/:uid/following", h.GetFollowing)
}

// FollowUser follows a user. Following an already-followed user is a no-op
// because the underlying set-add is idempotent.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("uid")

	ctx := c.Request().Context()
	err := retry.Do(ctx, publishAttempts, publishInitialDelay, func() error {
		return h.followRepository.Follow(ctx, sess.FirebaseUID, targetID)
	})
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user. Unfollowing a non-followed target is a no-op.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("uid")

	ctx := c.Request().Context()
	err := retry.Do(ctx, publishAttempts, publishInitialDelay, func() error {
		return h.followRepository.Unfollow(ctx, sess.FirebaseUID, targetID)
	})
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowStatus checks whether the authenticated user follows the target
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("uid")

	following, err := h.followRepository.IsFollowing(c.Request().Context(), sess.FirebaseUID, targetID)
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}

// GetFollowers returns the followers-set of a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	followers, err := h.followRepository.GetFollowers(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": followers})
}

// GetFollowing returns the following-set of a user
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	following, err := h.followRepository.GetFollowing(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": following})
}
