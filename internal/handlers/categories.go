package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// GetCategories reports how many products each category holds. Categories
// without products are listed with a zero count.
func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		log.Printf("[%s] hit", route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "Database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		pipeline := mongo.Pipeline{
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$category"},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
		}

		cursor, err := db.Collection("products").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		defer cursor.Close(ctx)

		var counts []CategoryCount
		if err := cursor.All(ctx, &counts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		categories := mergeCategoryCounts(counts)
		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
	}
}

func mergeCategoryCounts(counts []CategoryCount) []CategoryCount {
	byName := make(map[string]int64, len(counts))
	for _, cc := range counts {
		byName[cc.Category] = cc.Count
	}
	out := make([]CategoryCount, 0, len(models.Categories))
	for _, name := range models.Categories {
		out = append(out, CategoryCount{Category: name, Count: byName[name]})
	}
	return out
}
