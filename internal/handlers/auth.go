package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

const passwordHashCost = 12

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "AUTH REGISTER"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		email := normalizeEmail(req.Email)
		name := strings.TrimSpace(req.Name)
		if name == "" || strings.TrimSpace(req.Password) == "" {
			respondWithError(c, http.StatusBadRequest, route, "Missing required fields")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] register lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusBadRequest, route, "User already exists")
			return
		}

		user, err := newUser(name, email, req.Password, models.RoleUser, time.Now())
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusBadRequest, route, "User already exists")
				return
			}
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		user.ID, _ = res.InsertedID.(primitive.ObjectID)

		token, err := issueUserToken(user, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] register token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{"success": true, "user": user, "token": token})
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "AUTH LOGIN"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		email := normalizeEmail(req.Email)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err != mongo.ErrNoDocuments {
				log.Println("[AUTH] [ERROR] login lookup failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "Server error")
				return
			}
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}

		token, err := issueUserToken(user, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
	}
}

// Me returns the account behind the bearer token.
func Me(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "AUTH ME"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "User not found")
				return
			}
			log.Println("[AUTH] [ERROR] me lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newUser(name, email, password, role string, now time.Time) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func issueUserToken(user models.User, secret string, accessTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.ID.Hex(),
		"email":  user.Email,
		"role":   user.Role,
		"exp":    time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
