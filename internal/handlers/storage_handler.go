package handlers

import (
	"net/http"

	"github.com/artconnect/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

// StorageHandler is a thin pass-through to the external media store
type StorageHandler struct {
	store *storage.MediaStore
}

// NewStorageHandler creates a new StorageHandler
func NewStorageHandler(store *storage.MediaStore) *StorageHandler {
	return &StorageHandler{store: store}
}

// RegisterStorageRoutes registers media storage routes
func (h *StorageHandler) RegisterStorageRoutes(g *echo.Group) {
	g.POST("/storage/upload", h.Upload)
	g.DELETE("/storage/:public_id", h.Delete)
	g.GET("/storage/:public_id", h.Metadata)
}

// UploadRequest defines the request body for a media upload
type UploadRequest struct {
	Payload string `json:"payload" validate:"required"` // base64 data URI or remote URL
	Folder  string `json:"folder,omitempty"`
}

// Upload stores a media payload under the caller's folder
func (h *StorageHandler) Upload(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.store.Upload(c.Request().Context(), req.Payload, sess.FirebaseUID, req.Folder)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": result})
}

// Delete removes a stored media asset
func (h *StorageHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("public_id")); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Metadata returns the stored descriptor of a media asset
func (h *StorageHandler) Metadata(c echo.Context) error {
	result, err := h.store.Metadata(c.Request().Context(), c.Param("public_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}
