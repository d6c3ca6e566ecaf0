package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/checkout"
	"storefront/internal/models"
)

type AddressRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	IsDefault   bool   `json:"isDefault"`
}

func (r AddressRequest) shippingAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Street:      r.Street,
		City:        r.City,
		State:       r.State,
		ZipCode:     r.ZipCode,
		Country:     r.Country,
		CountryCode: r.CountryCode,
	}
}

// buildAddress validates the request and returns the normalized document.
func buildAddress(req AddressRequest, userID primitive.ObjectID, now time.Time) (models.Address, error) {
	shipping := req.shippingAddress()
	if err := checkout.ValidateShippingAddress(shipping, false); err != nil {
		return models.Address{}, err
	}
	return models.Address{
		UserID:          userID,
		ShippingAddress: checkout.NormalizeAddress(shipping),
		IsDefault:       req.IsDefault,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func respondAddressError(c *gin.Context, route string, err error) {
	var verr checkout.ValidationError
	if errors.As(err, &verr) {
		message := "Invalid address"
		for _, msg := range verr.Fields {
			if strings.HasSuffix(msg, "is required") {
				message = "All fields are required"
				break
			}
		}
		respondFieldErrors(c, route, message, verr.Fields)
		return
	}
	respondWithError(c, http.StatusBadRequest, route, "Invalid address")
}

func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /addresses"
		defer handlePanic(c, route)

		callerID, role, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}
		ownerID, err := resolveOwner(c, callerID, role)
		if err != nil {
			respondOwnerError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		addresses, err := NewAddressBook(db).List(ctx, ownerID)
		if err != nil {
			log.Println("[ADDRESS] [ERROR] list failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to fetch addresses")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
	}
}

func CreateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /addresses"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		address, err := buildAddress(req, userID, time.Now())
		if err != nil {
			respondAddressError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		if err := NewAddressBook(db).Create(ctx, &address); err != nil {
			log.Println("[ADDRESS] [ERROR] create failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to save address")
			return
		}

		log.Println("[ADDRESS] [INFO] address saved for user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"message":   "Address saved successfully",
			"addressId": address.ID,
			"address":   address,
		})
	}
}

func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /addresses/:id"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Address ID is required")
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		address, err := buildAddress(req, userID, time.Now())
		if err != nil {
			respondAddressError(c, route, err)
			return
		}
		address.ID = id

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		if err := NewAddressBook(db).Update(ctx, address); err != nil {
			if errors.Is(err, errAddressNotFound) {
				respondWithError(c, http.StatusNotFound, route, "Address not found")
				return
			}
			log.Println("[ADDRESS] [ERROR] update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to update address")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address updated successfully"})
	}
}

func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /addresses/:id"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Address ID is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		if err := NewAddressBook(db).Delete(ctx, userID, id); err != nil {
			if errors.Is(err, errAddressNotFound) {
				respondWithError(c, http.StatusNotFound, route, "Address not found")
				return
			}
			log.Println("[ADDRESS] [ERROR] delete failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to delete address")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address deleted successfully"})
	}
}

func SetDefaultAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /addresses/:id/default"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Address ID is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		if err := NewAddressBook(db).SetDefault(ctx, userID, id); err != nil {
			if errors.Is(err, errAddressNotFound) {
				respondWithError(c, http.StatusNotFound, route, "Address not found")
				return
			}
			log.Println("[ADDRESS] [ERROR] set default failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Failed to update address")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Default address updated"})
	}
}
