package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/artconnect/backend/internal/models"
	"github.com/artconnect/backend/internal/repositories"
	"github.com/artconnect/backend/pkg/mailer"
	"github.com/artconnect/backend/pkg/retry"
	"github.com/labstack/echo/v4"
)

// PurchaseHandler handles purchase order HTTP requests. Status changes go
// through the transition table in models; nothing here re-derives legality.
type PurchaseHandler struct {
	purchaseRepository repositories.PurchaseRepository
	postRepository     repositories.PostRepository
	mailer             *mailer.Mailer
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseRepo repositories.PurchaseRepository, postRepo repositories.PostRepository, m *mailer.Mailer) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseRepository: purchaseRepo,
		postRepository:     postRepo,
		mailer:             m,
	}
}

// RegisterPurchaseRoutes registers purchase-related routes
func (h *PurchaseHandler) RegisterPurchaseRoutes(g *echo.Group) {
	g.POST("/purchases", h.CreatePurchase)
	g.GET("/purchases/mine", h.GetMyPurchases)
	g.GET("/purchases/requests", h.GetPurchaseRequests)
	g.GET("/purchases/:id", h.GetPurchase)
	g.POST("/purchases/:id/status", h.UpdateStatus)
	g.POST("/purchases/send-notification", h.SendNotification)
	g.POST("/purchases/send-status-update", h.SendStatusUpdate)
}

// CreatePurchase submits a buy action for an artwork. When the request
// carries an idempotency key an order already created with the same key is
// returned unchanged, so a double-tapped confirm produces one record.
func (h *PurchaseHandler) CreatePurchase(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if req.IdempotencyKey != "" {
		existing, err := h.purchaseRepository.GetPurchaseByIdempotencyKey(ctx, sess.FirebaseUID, req.IdempotencyKey)
		if err == nil {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "data": existing})
		}
		if !errors.Is(err, models.ErrNotFound) {
			return domainHTTPError(err)
		}
	}

	post, err := h.postRepository.GetPostByID(ctx, req.PostID)
	if err != nil {
		return domainHTTPError(err)
	}
	if !post.IsForSale {
		return echo.NewHTTPError(http.StatusBadRequest, "This artwork is not for sale")
	}
	if post.UserID == sess.FirebaseUID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot buy your own artwork")
	}

	purchase := &models.Purchase{
		PostID:         req.PostID,
		ArtworkTitle:   post.Title,
		ArtworkImage:   post.ImageURL,
		ArtistID:       post.UserID,
		ArtistName:     post.UserName,
		ArtistEmail:    post.UserEmail,
		BuyerID:        sess.FirebaseUID,
		BuyerName:      req.BuyerName,
		BuyerEmail:     req.BuyerEmail,
		BuyerPhone:     req.BuyerPhone,
		BuyerAddress:   req.BuyerAddress,
		BuyerCity:      req.BuyerCity,
		BuyerState:     req.BuyerState,
		BuyerPincode:   req.BuyerPincode,
		Price:          req.Price,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
	}

	err = retry.Do(ctx, publishAttempts, publishInitialDelay, func() error {
		return h.purchaseRepository.CreatePurchase(ctx, purchase)
	})
	if err != nil {
		return domainHTTPError(err)
	}

	// Emails are a best-effort side channel; the order is already committed.
	go h.mailer.DispatchPurchaseEmails(purchase)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": purchase})
}

// GetMyPurchases lists the authenticated buyer's orders
func (h *PurchaseHandler) GetMyPurchases(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	status, err := statusFilter(c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	purchases, err := h.purchaseRepository.GetPurchasesByBuyerID(c.Request().Context(), sess.FirebaseUID, status)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": purchases})
}

// GetPurchaseRequests lists the purchase requests on the authenticated
// artist's works
func (h *PurchaseHandler) GetPurchaseRequests(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	status, err := statusFilter(c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	purchases, err := h.purchaseRepository.GetPurchasesByArtistID(c.Request().Context(), sess.FirebaseUID, status)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": purchases})
}

// GetPurchase retrieves a single order. Only its buyer or artist may see it.
func (h *PurchaseHandler) GetPurchase(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	purchase, err := h.purchaseRepository.GetPurchaseByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainHTTPError(err)
	}
	if _, ok := purchase.ActorFor(sess.FirebaseUID); !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Not a party to this purchase")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": purchase})
}

// UpdateStatus moves an order through the lifecycle state machine. The
// caller's role on the order gates which transitions it may invoke, and the
// write is conditioned on the status the transition was validated against.
func (h *PurchaseHandler) UpdateStatus(c echo.Context) error {
	sess := sessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	purchaseID := c.Param("id")

	var req models.UpdatePurchaseStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	to, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown order status: "+req.Status)
	}

	ctx := c.Request().Context()
	purchase, err := h.purchaseRepository.GetPurchaseByID(ctx, purchaseID)
	if err != nil {
		return domainHTTPError(err)
	}

	actor, ok := purchase.ActorFor(sess.FirebaseUID)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Not a party to this purchase")
	}

	if err := models.CanTransition(purchase.Status, to, actor); err != nil {
		return domainHTTPError(err)
	}

	now := time.Now()
	err = retry.Do(ctx, publishAttempts, publishInitialDelay, func() error {
		return h.purchaseRepository.UpdateStatus(ctx, purchaseID, purchase.Status, to, now)
	})
	if err != nil {
		if errors.Is(err, models.ErrStatusConflict) {
			// A concurrent transition won; report against the fresh state.
			fresh, getErr := h.purchaseRepository.GetPurchaseByID(ctx, purchaseID)
			if getErr != nil {
				return domainHTTPError(getErr)
			}
			return domainHTTPError(&models.InvalidTransitionError{From: fresh.Status, To: to, Actor: actor})
		}
		return domainHTTPError(err)
	}

	purchase.Status = to
	purchase.UpdatedAt = now
	if to == models.StatusDelivered {
		purchase.DeliveredAt = &now
	}

	// Notify the counterpart after the durable commit; failure never rolls
	// back or re-reports the transition.
	go h.mailer.DispatchStatusUpdate(purchase, to, actor)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": purchase})
}

// SendNotificationRequest mirrors the glue-server purchase email endpoint.
type SendNotificationRequest struct {
	PurchaseID string `json:"purchase_id" validate:"required"`
}

// SendNotification re-sends the purchase creation emails for an order
func (h *PurchaseHandler) SendNotification(c echo.Context) error {
	var req SendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	purchase, err := h.purchaseRepository.GetPurchaseByID(c.Request().Context(), req.PurchaseID)
	if err != nil {
		return domainHTTPError(err)
	}

	go h.mailer.DispatchPurchaseEmails(purchase)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SendStatusUpdateRequest mirrors the glue-server status email endpoint.
type SendStatusUpdateRequest struct {
	PurchaseID string `json:"purchase_id" validate:"required"`
}

// SendStatusUpdate re-sends the status email for an order's current status
func (h *PurchaseHandler) SendStatusUpdate(c echo.Context) error {
	var req SendStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	purchase, err := h.purchaseRepository.GetPurchaseByID(c.Request().Context(), req.PurchaseID)
	if err != nil {
		return domainHTTPError(err)
	}

	if sendErr := h.mailer.SendStatusUpdate(purchase.BuyerEmail, purchase.BuyerName, purchase, purchase.Status); sendErr != nil {
		log.Printf("Status update email failed for purchase %s: %v", purchase.ID.Hex(), sendErr)
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Email delivery failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// statusFilter parses an optional status query param against the closed enum
func statusFilter(raw string) (models.OrderStatus, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	status, ok := models.ParseOrderStatus(raw)
	if !ok {
		return "", errors.New("unknown order status: " + raw)
	}
	return status, nil
}
