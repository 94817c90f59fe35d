package handlers

import (
	"errors"
	"net/http"

	"github.com/artconnect/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// sessionFromContext returns the Session installed by the JWT middleware,
// or nil when the request is unauthenticated.
func sessionFromContext(c echo.Context) *models.Session {
	sess, _ := c.Get("session").(*models.Session)
	return sess
}

// domainHTTPError maps the error taxonomy to an HTTP response. Terminal
// errors get their user-facing status; anything unclassified is a store or
// network failure that already exhausted its retries.
func domainHTTPError(err error) *echo.HTTPError {
	var invalid *models.InvalidTransitionError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrSelfFollow),
		errors.Is(err, models.ErrEmptyComment),
		errors.Is(err, models.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &invalid):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrStatusConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
}
