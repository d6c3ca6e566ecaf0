package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func validAddressRequest() AddressRequest {
	return AddressRequest{
		FirstName:   " Ada ",
		LastName:    "Lovelace",
		Email:       "ADA@example.com",
		Phone:       "(555) 123-4567",
		Street:      "1 Main St",
		City:        "Springfield",
		State:       "IL",
		ZipCode:     "62701",
		CountryCode: "ca",
		IsDefault:   true,
	}
}

func TestBuildAddressKeepsFields(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	address, err := buildAddress(validAddressRequest(), userID, now)
	require.NoError(t, err)

	assert.Equal(t, userID, address.UserID)
	assert.Equal(t, "Ada", address.FirstName)
	assert.Equal(t, "ada@example.com", address.Email)
	assert.Equal(t, "CA", address.CountryCode)
	assert.Equal(t, "Canada", address.Country)
	assert.True(t, address.IsDefault)
	assert.Equal(t, now, address.CreatedAt)

	doc := addressUpdateDocument(address)
	assert.Equal(t, "Springfield", doc["city"])
	assert.Equal(t, "62701", doc["zipCode"])
	assert.Equal(t, true, doc["isDefault"])
	assert.NotContains(t, doc, "userId")
	assert.NotContains(t, doc, "createdAt")
}

func TestBuildAddressCountryIsOptional(t *testing.T) {
	req := validAddressRequest()
	req.CountryCode = ""
	req.Phone = "5551234567"

	address, err := buildAddress(req, primitive.NewObjectID(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, address.Country)
}

func TestUnsetDefaultFilter(t *testing.T) {
	userID := primitive.NewObjectID()
	except := primitive.NewObjectID()

	assert.Equal(t, bson.M{"userId": userID, "isDefault": true}, unsetDefaultFilter(userID, primitive.NilObjectID))
	assert.Equal(t, bson.M{
		"userId":    userID,
		"isDefault": true,
		"_id":       bson.M{"$ne": except},
	}, unsetDefaultFilter(userID, except))
}

func TestCreateAddressValidation(t *testing.T) {
	r := gin.New()
	r.POST("/addresses", asUser(primitive.NewObjectID(), models.RoleUser), CreateAddress(nil))

	req := validAddressRequest()
	req.Street = ""
	w := doJSON(t, r, http.MethodPost, "/addresses", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "All fields are required", body["message"])
	assert.Contains(t, body["errors"], "street")

	req = validAddressRequest()
	req.Phone = "555 123 4567 999"
	w = doJSON(t, r, http.MethodPost, "/addresses", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Invalid address", body["message"])
	assert.Equal(t, "Maximum 10 digits allowed", body["errors"].(map[string]interface{})["phone"])
}

func TestGetAddressesForbidsOtherUsers(t *testing.T) {
	r := gin.New()
	r.GET("/addresses", asUser(primitive.NewObjectID(), models.RoleUser), GetAddresses(nil))

	w := doJSON(t, r, http.MethodGet, "/addresses?userId="+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
