package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type ProductRequest struct {
	ProductID   string   `json:"productId"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	SaleEnabled *bool    `json:"saleEnabled"`
	SalePrice   *float64 `json:"salePrice"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
}

type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// ProductFinder resolves catalogue entries for carts and orders.
type ProductFinder interface {
	FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type mongoProductFinder struct {
	db *mongo.Database
}

func NewProductFinder(db *mongo.Database) ProductFinder {
	return mongoProductFinder{db: db}
}

// FindProducts returns the products keyed by hex id. Unknown or malformed
// ids yield productNotFoundError.
func (f mongoProductFinder) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			return nil, productNotFoundError{ProductID: id}
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := f.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}
	for _, id := range ids {
		if _, ok := byID[strings.TrimSpace(id)]; !ok {
			return nil, productNotFoundError{ProductID: id}
		}
	}
	return byID, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		p.IsOnSale = p.OnSale()
		products = append(products, p)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// productListFilter builds the browse filter. search is matched literally.
func productListFilter(category, search string) bson.M {
	filter := bson.M{}
	if category = strings.ToLower(strings.TrimSpace(category)); category != "" {
		filter["category"] = category
	}
	if search = strings.TrimSpace(search); search != "" {
		pattern := regexp.QuoteMeta(search)
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return filter
}

// buildNewProduct validates a create request and returns the document to insert.
func buildNewProduct(req ProductRequest, now time.Time) (models.Product, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return models.Product{}, errors.New("name is required")
	}
	if req.Price == nil || *req.Price <= 0 {
		return models.Product{}, errors.New("price must be greater than 0")
	}
	if req.Category == nil {
		return models.Product{}, errors.New("category is required")
	}
	category := strings.ToLower(strings.TrimSpace(*req.Category))
	if !models.IsValidCategory(category) {
		return models.Product{}, fmt.Errorf("category must be one of: %s", strings.Join(models.Categories, ", "))
	}

	product := models.Product{
		Name:      strings.TrimSpace(*req.Name),
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.ApplyPricing(req.Price, req.SaleEnabled, req.SalePrice)
	if err := product.ValidateSale(); err != nil {
		return models.Product{}, err
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		product.Image = strings.TrimSpace(*req.Image)
	}
	return product, nil
}

// buildProductUpdate turns a partial update into a $set document against
// the stored product.
func buildProductUpdate(existing models.Product, req ProductRequest, now time.Time) (bson.M, error) {
	set := bson.M{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.New("name is required")
		}
		set["name"] = name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, errors.New("price must be greater than 0")
		}
		set["price"] = *req.Price
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if !models.IsValidCategory(category) {
			return nil, fmt.Errorf("category must be one of: %s", strings.Join(models.Categories, ", "))
		}
		set["category"] = category
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		set["image"] = strings.TrimSpace(*req.Image)
	}

	priced := existing
	priced.ApplyPricing(req.Price, req.SaleEnabled, req.SalePrice)
	if err := priced.ValidateSale(); err != nil {
		return nil, err
	}
	if req.SaleEnabled != nil {
		set["saleEnabled"] = priced.SaleEnabled
	}
	if req.SalePrice != nil || priced.SalePrice != existing.SalePrice {
		set["salePrice"] = priced.SalePrice
	}

	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	set["updatedAt"] = now
	return set, nil
}
