package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderProductDocument struct {
	Quantity int `bson:"quantity"`
	Product  struct {
		ID          string               `bson:"id"`
		Title       string               `bson:"title"`
		Price       primitive.Decimal128 `bson:"price"`
		Description string               `bson:"description"`
		ImageURL    string               `bson:"image_url"`
	} `bson:"product"`
}

type orderDocument struct {
	ID   string `bson:"_id"`
	User struct {
		UserID string `bson:"user_id"`
		Email  string `bson:"email"`
	} `bson:"user"`
	Products  []orderProductDocument `bson:"products"`
	CreatedAt time.Time              `bson:"created_at"`
}

func newOrderDocument(o *models.Order) (orderDocument, error) {
	var doc orderDocument
	doc.ID = o.ID
	doc.User.UserID = o.User.UserID
	doc.User.Email = o.User.Email
	doc.CreatedAt = o.CreatedAt
	doc.Products = make([]orderProductDocument, 0, len(o.Products))
	for _, op := range o.Products {
		price, err := toDecimal128(op.Product.Price)
		if err != nil {
			return orderDocument{}, err
		}
		var line orderProductDocument
		line.Quantity = op.Quantity
		line.Product.ID = op.Product.ID
		line.Product.Title = op.Product.Title
		line.Product.Price = price
		line.Product.Description = op.Product.Description
		line.Product.ImageURL = op.Product.ImageURL
		doc.Products = append(doc.Products, line)
	}
	return doc, nil
}

func (d orderDocument) model() (models.Order, error) {
	order := models.Order{
		ID:        d.ID,
		User:      models.OrderUser{UserID: d.User.UserID, Email: d.User.Email},
		Products:  make([]models.OrderProduct, 0, len(d.Products)),
		CreatedAt: d.CreatedAt,
	}
	for _, line := range d.Products {
		price, err := fromDecimal128(line.Product.Price)
		if err != nil {
			return models.Order{}, err
		}
		order.Products = append(order.Products, models.OrderProduct{
			Quantity: line.Quantity,
			Product: models.ProductSnapshot{
				ID:          line.Product.ID,
				Title:       line.Product.Title,
				Price:       price,
				Description: line.Product.Description,
				ImageURL:    line.Product.ImageURL,
			},
		})
	}
	return order, nil
}

// MongoOrderRepository stores orders in the "orders" collection. It does not
// implement CheckoutRepository: multi-document transactions need a replica set.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

// CreateIndexes indexes orders by owner and creation time.
func (r *MongoOrderRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user.user_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}

// GetByID returns an order by its ID.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var doc orderDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	order, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByUserID returns the orders of a user, oldest first.
func (r *MongoOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user.user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders of user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := doc.model()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Create inserts a new order.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = NewID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	doc, err := newOrderDocument(order)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Delete removes an order by its ID.
func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("order with ID %s %w", id, ErrNotFound)
	}
	return nil
}
