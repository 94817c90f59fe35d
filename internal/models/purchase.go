package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the closed set of purchase lifecycle states.
type OrderStatus string

const (
	StatusPending                     OrderStatus = "pending"
	StatusConfirmed                   OrderStatus = "confirmed"
	StatusShipped                     OrderStatus = "shipped"
	StatusDeliveryConfirmationPending OrderStatus = "delivery_confirmation_pending"
	StatusDelivered                   OrderStatus = "delivered"
	StatusCancelled                   OrderStatus = "cancelled"
)

// ParseOrderStatus converts a raw string into an OrderStatus, rejecting
// anything outside the closed enum.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusShipped,
		StatusDeliveryConfirmationPending, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Actor is the role whose identity gates which transitions it may invoke.
type Actor string

const (
	ActorSeller Actor = "seller" // the artist who owns the artwork
	ActorBuyer  Actor = "buyer"
)

// transitions is the single source of truth for the purchase lifecycle.
// Screens and API clients are not trusted to restrict themselves to it.
var transitions = map[OrderStatus]map[OrderStatus]Actor{
	StatusPending: {
		StatusConfirmed: ActorSeller,
		StatusCancelled: ActorSeller,
	},
	StatusConfirmed: {
		StatusShipped:   ActorSeller,
		StatusCancelled: ActorSeller,
	},
	StatusShipped: {
		// Seller asserts physical delivery; only the buyer's explicit
		// confirmation produces the trusted terminal "delivered".
		StatusDeliveryConfirmationPending: ActorSeller,
	},
	StatusDeliveryConfirmationPending: {
		StatusDelivered: ActorBuyer,
	},
}

// CanTransition validates a status change against the transition table,
// gated by the acting role. A nil return means the change is legal.
func CanTransition(from, to OrderStatus, actor Actor) error {
	allowed, ok := transitions[from][to]
	if !ok || allowed != actor {
		return &InvalidTransitionError{From: from, To: to, Actor: actor}
	}
	return nil
}

// NextStatuses returns the statuses the given actor may move an order into
// from the current state. Used to drive client option lists.
func NextStatuses(from OrderStatus, actor Actor) []OrderStatus {
	var next []OrderStatus
	for _, to := range []OrderStatus{
		StatusConfirmed, StatusShipped, StatusDeliveryConfirmationPending,
		StatusDelivered, StatusCancelled,
	} {
		if transitions[from][to] == actor {
			next = append(next, to)
		}
	}
	return next
}

// Purchase represents an order for an artwork, stored in MongoDB.
// One record per buy action; mutated only through the status state machine.
type Purchase struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID         string             `json:"post_id" bson:"post_id"`
	ArtworkTitle   string             `json:"artwork_title" bson:"artwork_title"`
	ArtworkImage   string             `json:"artwork_image,omitempty" bson:"artwork_image,omitempty"`
	ArtistID       string             `json:"artist_id" bson:"artist_id"` // Firebase UID of the seller
	ArtistName     string             `json:"artist_name" bson:"artist_name"`
	ArtistEmail    string             `json:"artist_email" bson:"artist_email"`
	BuyerID        string             `json:"buyer_id" bson:"buyer_id"` // Firebase UID of the buyer
	BuyerName      string             `json:"buyer_name" bson:"buyer_name"`
	BuyerEmail     string             `json:"buyer_email" bson:"buyer_email"`
	BuyerPhone     string             `json:"buyer_phone" bson:"buyer_phone"`
	BuyerAddress   string             `json:"buyer_address" bson:"buyer_address"`
	BuyerCity      string             `json:"buyer_city" bson:"buyer_city"`
	BuyerState     string             `json:"buyer_state" bson:"buyer_state"`
	BuyerPincode   string             `json:"buyer_pincode" bson:"buyer_pincode"`
	Price          float64            `json:"price" bson:"price"`
	PaymentMethod  string             `json:"payment_method" bson:"payment_method"` // cash or online
	Status         OrderStatus        `json:"status" bson:"status"`
	IdempotencyKey string             `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	DeliveredAt    *time.Time         `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
}

// ActorFor resolves the role a user plays on this purchase, if any.
func (p *Purchase) ActorFor(userID string) (Actor, bool) {
	switch userID {
	case p.ArtistID:
		return ActorSeller, true
	case p.BuyerID:
		return ActorBuyer, true
	}
	return "", false
}

// CreatePurchaseRequest defines the buyer form submitted with a buy action.
type CreatePurchaseRequest struct {
	PostID         string  `json:"post_id" validate:"required"`
	BuyerName      string  `json:"buyer_name" validate:"required,min=2,max=100"`
	BuyerEmail     string  `json:"buyer_email" validate:"required,email"`
	BuyerPhone     string  `json:"buyer_phone" validate:"required,min=7,max=15"`
	BuyerAddress   string  `json:"buyer_address" validate:"required,min=5"`
	BuyerCity      string  `json:"buyer_city" validate:"required"`
	BuyerState     string  `json:"buyer_state" validate:"required"`
	BuyerPincode   string  `json:"buyer_pincode" validate:"required,min=6,max=10"`
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=cash online"`
	Price          float64 `json:"price" validate:"gte=0"`
	IdempotencyKey string  `json:"idempotency_key,omitempty" validate:"omitempty,uuid4"`
}

// UpdatePurchaseStatusRequest defines the request body for a status transition.
type UpdatePurchaseStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
