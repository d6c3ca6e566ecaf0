package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// GetProducts lists the catalogue, newest first. Pagination applies only
// when both page and limit are given.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit page=%s limit=%s category=%s search=%s",
			route,
			c.Query("page"),
			c.Query("limit"),
			c.Query("category"),
			c.Query("search"),
		)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "Database unavailable")
			return
		}

		filter := productListFilter(c.Query("category"), c.Query("search"))
		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		paginated := pageStr != "" && limitStr != ""
		var page, limit int64
		if paginated {
			var err error
			page, limit, err = parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid pagination params")
				return
			}
			findOptions.SetSkip((page - 1) * limit).SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		resp := gin.H{"success": true, "products": products}
		if paginated {
			total, err := db.Collection("products").CountDocuments(ctx, filter)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Server error")
				return
			}
			resp["pagination"] = gin.H{"page": page, "limit": limit, "total": total}
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, resp)
	}
}

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		product.IsOnSale = product.OnSale()

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		product, err := buildNewProduct(req, time.Now())
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[PRODUCT] [INFO] created:", product.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
	}
}

// UpdateProduct accepts the id either in the path or as productId in the body.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products"
		defer handlePanic(c, route)

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		id, ok := productIDFromRequest(c, req.ProductID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var existing models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		set, err := buildProductUpdate(existing, req, time.Now())
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}
		if err != nil {
			log.Println("[PRODUCT] [ERROR] update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		updated.IsOnSale = updated.OnSale()

		log.Println("[PRODUCT] [INFO] updated:", id.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "product": updated})
	}
}

// DeleteProduct removes the document. The id comes from the path or from
// productId in the body.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products"
		defer handlePanic(c, route)

		var req ProductRequest
		if c.Param("id") == "" {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
				return
			}
		}

		id, ok := productIDFromRequest(c, req.ProductID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println("[PRODUCT] [ERROR] delete failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		log.Println("[PRODUCT] [INFO] deleted:", id.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
	}
}

func productIDFromRequest(c *gin.Context, bodyID string) (primitive.ObjectID, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	if raw == "" {
		raw = strings.TrimSpace(bodyID)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
