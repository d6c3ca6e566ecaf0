package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/models"
)

const dbTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] [%s] returning error %d: %s", route, c.GetString("requestId"), status, message)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respondValidationError turns binding failures into a field -> message map.
func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				fields[field] = fmt.Sprintf("%s is required", field)
			case "email":
				fields[field] = "Invalid email format"
			case "oneof":
				fields[field] = fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
			default:
				fields[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
		log.Printf("[%s] validation failed: %v", route, fields)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "validation failed",
			"errors":  fields,
		})
		return
	}

	respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
}

func respondFieldErrors(c *gin.Context, route string, message string, fields map[string]string) {
	log.Printf("[%s] %s: %v", route, message, fields)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"errors":  fields,
	})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// currentUser reads the identity stored by UserAuth/AuthGuard.
func currentUser(c *gin.Context) (primitive.ObjectID, string, bool) {
	value, ok := c.Get("userId")
	if !ok {
		return primitive.NilObjectID, "", false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	return userID, c.GetString("role"), true
}

// resolveOwner honours an optional ?userId= filter. Only admins may read
// another user's records.
func resolveOwner(c *gin.Context, callerID primitive.ObjectID, role string) (primitive.ObjectID, error) {
	requested := strings.TrimSpace(c.Query("userId"))
	if requested == "" || requested == callerID.Hex() {
		return callerID, nil
	}
	if !models.IsAdminRole(role) {
		return primitive.NilObjectID, errForbidden
	}
	ownerID, err := primitive.ObjectIDFromHex(requested)
	if err != nil {
		return primitive.NilObjectID, errInvalidUserID
	}
	return ownerID, nil
}

var (
	errForbidden     = errors.New("forbidden")
	errInvalidUserID = errors.New("invalid userId")
)

func respondOwnerError(c *gin.Context, route string, err error) {
	if errors.Is(err, errForbidden) {
		respondWithError(c, http.StatusForbidden, route, "Forbidden")
		return
	}
	respondWithError(c, http.StatusBadRequest, route, "User ID is invalid")
}
