package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

const superAdminName = "Gucci Admin"

// SeedSuperAdmin creates the superadmin account once.
func SeedSuperAdmin(db *mongo.Database, email, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seed"
		defer handlePanic(c, route)

		email := normalizeEmail(email)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[SEED] [ERROR] superadmin lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create superadmin")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusBadRequest, route, "Superadmin already exists")
			return
		}

		admin, err := newUser(superAdminName, email, password, models.RoleSuperAdmin, time.Now())
		if err != nil {
			log.Println("[SEED] [ERROR] superadmin password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create superadmin")
			return
		}

		res, err := db.Collection("users").InsertOne(ctx, admin)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "Superadmin already exists")
				return
			}
			log.Println("[SEED] [ERROR] superadmin insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to create superadmin")
			return
		}
		userID, _ := res.InsertedID.(primitive.ObjectID)

		log.Println("[SEED] [INFO] superadmin created:", email)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Superadmin created successfully",
			"credentials": gin.H{
				"email":    email,
				"password": password,
				"role":     models.RoleSuperAdmin,
			},
			"userId": userID,
		})
	}
}

// SeedProducts loads the starter catalogue into an empty products collection.
func SeedProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seed-products"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		existing, err := db.Collection("products").CountDocuments(ctx, bson.M{})
		if err != nil {
			log.Println("[SEED] [ERROR] product count failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to seed products")
			return
		}
		if existing > 0 {
			respondWithError(c, http.StatusBadRequest, route, "Products already seeded")
			return
		}

		products := seedCatalogue(time.Now())
		docs := make([]interface{}, 0, len(products))
		for _, p := range products {
			docs = append(docs, p)
		}

		res, err := db.Collection("products").InsertMany(ctx, docs)
		if err != nil {
			log.Println("[SEED] [ERROR] product insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to seed products")
			return
		}

		inserted := len(res.InsertedIDs)
		log.Printf("[SEED] [INFO] %d products created", inserted)
		c.JSON(http.StatusCreated, gin.H{
			"success":       true,
			"message":       fmt.Sprintf("%d products created successfully", inserted),
			"insertedCount": inserted,
		})
	}
}

func seedCatalogue(now time.Time) []models.Product {
	product := func(name, description string, price float64, category, image string) models.Product {
		return models.Product{
			Name:        name,
			Description: description,
			Price:       price,
			Category:    category,
			Image:       image,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return []models.Product{
		product("Gucci Marmont Matelassé Shoulder Bag",
			"Crafted from Matelassé leather, this iconic shoulder bag features the signature GG Marmont hardware.",
			2200, models.CategoryWomen, "/gu.avif"),
		product("GG Supreme Canvas Tote",
			"A versatile tote bag made from GG Supreme canvas with leather trim. Perfect for everyday use.",
			1950, models.CategoryWomen, "/gu.avif"),
		product("Gucci Soho Leather Disco Bag",
			"The iconic Soho Disco bag in premium leather with a chain strap and tassel detail.",
			1890, models.CategoryWomen, "/gu.avif"),
		product("Gucci Brixton Loafer",
			"A luxurious loafer crafted from premium leather with the signature Horsebit hardware.",
			790, models.CategoryMen, "/mens-bag-gu.avif"),
		product("GG Marmont Leather Belt",
			"A versatile leather belt featuring the iconic GG Marmont buckle in antique gold.",
			450, models.CategoryMen, "/mens-bag-gu.avif"),
		product("Gucci Dionysus Medium Shoulder Bag",
			"An elegant shoulder bag featuring the distinctive Dionysus hardware in aged gold-toned metal.",
			2400, models.CategoryWomen, "/gu.avif"),
		product("Gucci Jackie 1961 Small Shoulder Bag",
			"A tribute to a vintage style, this shoulder bag combines heritage with contemporary design.",
			2100, models.CategoryWomen, "/men.avif"),
		product("Gucci Messenger Bag",
			"A practical yet stylish messenger bag crafted from premium GG canvas with leather accents.",
			1650, models.CategoryMen, "/mens-bag-gu.avif"),
	}
}
