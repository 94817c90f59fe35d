package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/artconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PurchaseRepository defines the interface for purchase order data operations
type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, purchase *models.Purchase) error
	GetPurchaseByID(ctx context.Context, id string) (*models.Purchase, error)
	GetPurchaseByIdempotencyKey(ctx context.Context, buyerID, key string) (*models.Purchase, error)
	GetPurchasesByBuyerID(ctx context.Context, buyerID string, status models.OrderStatus) ([]models.Purchase, error)
	GetPurchasesByArtistID(ctx context.Context, artistID string, status models.OrderStatus) ([]models.Purchase, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) error
}

// MongoPurchaseRepository implements PurchaseRepository for MongoDB
type MongoPurchaseRepository struct {
	collection *mongo.Collection
}

// NewMongoPurchaseRepository creates a new MongoPurchaseRepository
func NewMongoPurchaseRepository(db *mongo.Database) *MongoPurchaseRepository {
	return &MongoPurchaseRepository{collection: db.Collection("PURCHASES")}
}

// CreatePurchase creates a new purchase order with status pending
func (r *MongoPurchaseRepository) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	purchase.ID = primitive.NewObjectID()
	purchase.Status = models.StatusPending
	purchase.CreatedAt = time.Now()
	purchase.UpdatedAt = purchase.CreatedAt
	_, err := r.collection.InsertOne(ctx, purchase)
	return err
}

// GetPurchaseByID retrieves a purchase order by ID
func (r *MongoPurchaseRepository) GetPurchaseByID(ctx context.Context, id string) (*models.Purchase, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: purchase id must be hex", models.ErrInvalidID)
	}

	var purchase models.Purchase
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&purchase)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// GetPurchaseByIdempotencyKey finds an existing order created by this buyer
// with the same client-generated key, so a double-tapped buy action yields
// one record. The lookup is scoped to the buyer; another user replaying the
// same key sees nothing.
func (r *MongoPurchaseRepository) GetPurchaseByIdempotencyKey(ctx context.Context, buyerID, key string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.collection.FindOne(ctx, bson.M{"idempotency_key": key, "buyer_id": buyerID}).Decode(&purchase)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *MongoPurchaseRepository) listByField(ctx context.Context, field, value string, status models.OrderStatus) ([]models.Purchase, error) {
	filter := bson.M{field: value}
	if status != "" {
		filter["status"] = status
	}

	var purchases []models.Purchase
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// GetPurchasesByBuyerID lists a buyer's orders, optionally filtered by status
func (r *MongoPurchaseRepository) GetPurchasesByBuyerID(ctx context.Context, buyerID string, status models.OrderStatus) ([]models.Purchase, error) {
	return r.listByField(ctx, "buyer_id", buyerID, status)
}

// GetPurchasesByArtistID lists the purchase requests on an artist's works,
// optionally filtered by status
func (r *MongoPurchaseRepository) GetPurchasesByArtistID(ctx context.Context, artistID string, status models.OrderStatus) ([]models.Purchase, error) {
	return r.listByField(ctx, "artist_id", artistID, status)
}

// UpdateStatus moves an order from one status to another. The update is
// conditioned on the expected prior status, so two transition requests
// validating against the same stale read cannot both apply: the loser
// matches nothing and gets ErrStatusConflict.
func (r *MongoPurchaseRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: purchase id must be hex", models.ErrInvalidID)
	}

	set := bson.M{
		"status":     to,
		"updated_at": at,
	}
	if to == models.StatusDelivered {
		set["delivered_at"] = at
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the order is gone or a concurrent transition moved it first.
		if _, getErr := r.GetPurchaseByID(ctx, id); getErr != nil {
			return getErr
		}
		return models.ErrStatusConflict
	}
	return nil
}
