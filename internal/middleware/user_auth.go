package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID primitive.ObjectID
	Email  string
	Role   string
}

func parseBearer(header, secret string) (Identity, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return Identity{}, errors.New("missing token")
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Identity{}, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, errors.New("token validation failed")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("token claims invalid")
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return Identity{}, errors.New("userId claim missing")
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return Identity{}, errors.New("invalid userId claim")
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Identity{UserID: userID, Email: email, Role: role}, nil
}

// UserAuth validates user JWT tokens and injects userId, email and role into
// the context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR]", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		c.Set("userId", identity.UserID)
		c.Set("email", identity.Email)
		c.Set("role", identity.Role)
		c.Next()
	}
}
