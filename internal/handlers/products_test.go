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

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }

func TestBuildProductUpdateDisablingSaleClearsSalePrice(t *testing.T) {
	now := time.Now()
	existing := models.Product{Name: "Jackie 1961", Price: 2200, SaleEnabled: true, SalePrice: 1800}

	set, err := buildProductUpdate(existing, ProductRequest{SaleEnabled: boolPtr(false)}, now)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"saleEnabled": false, "salePrice": 0.0, "updatedAt": now}, set)
}

func TestBuildProductUpdateRejectsPriceBelowSalePrice(t *testing.T) {
	existing := models.Product{Name: "Jackie 1961", Price: 2200, SaleEnabled: true, SalePrice: 1800}

	_, err := buildProductUpdate(existing, ProductRequest{Price: floatPtr(1500)}, time.Now())
	assert.ErrorIs(t, err, models.ErrSalePriceTooHigh)

	_, err = buildProductUpdate(models.Product{Price: 100}, ProductRequest{SaleEnabled: boolPtr(true)}, time.Now())
	assert.ErrorIs(t, err, models.ErrSalePriceRequired)
}

func TestBuildNewProduct(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	product, err := buildNewProduct(ProductRequest{
		Name:        strPtr("  Gucci Messenger Bag "),
		Description: strPtr("GG canvas"),
		Price:       floatPtr(1650),
		SaleEnabled: boolPtr(true),
		SalePrice:   floatPtr(1400),
		Category:    strPtr("Men"),
		Image:       strPtr("/mens-bag-gu.avif"),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "Gucci Messenger Bag", product.Name)
	assert.Equal(t, "GG canvas", product.Description)
	assert.Equal(t, 1650.0, product.Price)
	assert.Equal(t, models.CategoryMen, product.Category)
	assert.Equal(t, "/mens-bag-gu.avif", product.Image)
	assert.True(t, product.IsOnSale)
	assert.Equal(t, 1400.0, product.EffectivePrice())
	assert.Equal(t, now, product.CreatedAt)
	assert.Equal(t, now, product.UpdatedAt)
}

func TestBuildNewProductValidation(t *testing.T) {
	tests := []struct {
		name string
		req  ProductRequest
	}{
		{"missing name", ProductRequest{Price: floatPtr(10), Category: strPtr("men")}},
		{"zero price", ProductRequest{Name: strPtr("Bag"), Price: floatPtr(0), Category: strPtr("men")}},
		{"missing category", ProductRequest{Name: strPtr("Bag"), Price: floatPtr(10)}},
		{"unknown category", ProductRequest{Name: strPtr("Bag"), Price: floatPtr(10), Category: strPtr("kids")}},
		{"sale without price", ProductRequest{Name: strPtr("Bag"), Price: floatPtr(10), Category: strPtr("men"), SaleEnabled: boolPtr(true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildNewProduct(tt.req, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestBuildProductUpdate(t *testing.T) {
	now := time.Now()
	existing := models.Product{Name: "Belt", Price: 450, Category: models.CategoryMen}

	set, err := buildProductUpdate(existing, ProductRequest{
		Name:     strPtr("GG Marmont Leather Belt"),
		Price:    floatPtr(480),
		Category: strPtr("women"),
		Image:    strPtr(""),
	}, now)
	require.NoError(t, err)
	assert.Equal(t, bson.M{
		"name":      "GG Marmont Leather Belt",
		"price":     480.0,
		"category":  models.CategoryWomen,
		"image":     "",
		"updatedAt": now,
	}, set)

	_, err = buildProductUpdate(existing, ProductRequest{}, now)
	assert.EqualError(t, err, "no fields to update")

	_, err = buildProductUpdate(existing, ProductRequest{Price: floatPtr(-1)}, now)
	assert.Error(t, err)
}

func TestProductListFilterEscapesSearch(t *testing.T) {
	filter := productListFilter(" Women ", "g.g (supreme)")
	assert.Equal(t, models.CategoryWomen, filter["category"])

	or := filter["$or"].([]bson.M)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"$regex": `g\.g \(supreme\)`, "$options": "i"}, or[0]["name"])

	assert.Empty(t, productListFilter("", "  "))
}

func TestMergeCategoryCounts(t *testing.T) {
	counts := mergeCategoryCounts([]CategoryCount{{Category: models.CategoryWomen, Count: 5}})
	assert.Equal(t, []CategoryCount{
		{Category: models.CategoryWomen, Count: 5},
		{Category: models.CategoryMen, Count: 0},
	}, counts)
}

func TestProductIDFromRequest(t *testing.T) {
	id := primitive.NewObjectID()

	r := gin.New()
	var got primitive.ObjectID
	var ok bool
	handler := func(c *gin.Context) {
		got, ok = productIDFromRequest(c, id.Hex())
	}
	r.DELETE("/products", handler)
	r.DELETE("/products/:id", handler)

	doJSON(t, r, http.MethodDelete, "/products", nil)
	require.True(t, ok)
	assert.Equal(t, id, got)

	doJSON(t, r, http.MethodDelete, "/products/not-hex", nil)
	assert.False(t, ok)
}

func TestCreateProductRejectsInvalidBodyBeforeDatabase(t *testing.T) {
	r := gin.New()
	r.POST("/products", CreateProduct(nil))

	w := doJSON(t, r, http.MethodPost, "/products", gin.H{"name": "Bag", "price": -5, "category": "men"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "price must be greater than 0", body["message"])
}

func TestSeedCatalogue(t *testing.T) {
	products := seedCatalogue(time.Now())
	require.Len(t, products, 8)
	for _, p := range products {
		assert.True(t, models.IsValidCategory(p.Category), p.Name)
		assert.Greater(t, p.Price, 0.0, p.Name)
		assert.NotEmpty(t, p.Image, p.Name)
	}
}
