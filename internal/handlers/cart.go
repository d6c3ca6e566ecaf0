package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/cache"
	"storefront/internal/checkout"
	"storefront/internal/models"
)

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func cartItemFromProduct(product models.Product, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: product.ID.Hex(),
		Name:      product.Name,
		Price:     product.EffectivePrice(),
		Image:     product.Image,
		Category:  product.Category,
		Quantity:  quantity,
	}
}

func cartResponse(cart models.Cart) gin.H {
	totals := checkout.ComputeTotals(cart.Items, "")
	return gin.H{
		"success":  true,
		"items":    cart.Items,
		"count":    cart.Count(),
		"subtotal": totals.Subtotal,
	}
}

func respondCartError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, models.ErrQuantityOutOfRange):
		respondWithError(c, http.StatusBadRequest, route, "Quantity must be between 1 and 10")
	case errors.Is(err, models.ErrCartItemNotFound):
		respondWithError(c, http.StatusNotFound, route, "Item not in cart")
	default:
		log.Println("[CART] [ERROR]", err)
		respondWithError(c, http.StatusInternalServerError, route, "Server error")
	}
}

func GetCart(carts cache.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		cart, err := carts.Load(c.Request.Context(), userID.Hex())
		if err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// AddCartItem snapshots the product at its current price and merges it into
// the cart. Quantity defaults to one.
func AddCartItem(carts cache.CartStore, products ProductFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		productID := strings.TrimSpace(req.ProductID)
		found, err := products.FindProducts(ctx, []string{productID})
		if err != nil {
			var notFound productNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondCartError(c, route, err)
			return
		}

		cart, err := carts.Load(ctx, userID.Hex())
		if err != nil {
			respondCartError(c, route, err)
			return
		}
		if err := cart.Add(cartItemFromProduct(found[productID], req.Quantity)); err != nil {
			respondCartError(c, route, err)
			return
		}
		if err := carts.Save(ctx, cart); err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func UpdateCartItem(carts cache.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/items/:productId"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx := c.Request.Context()
		cart, err := carts.Load(ctx, userID.Hex())
		if err != nil {
			respondCartError(c, route, err)
			return
		}
		if err := cart.SetQuantity(c.Param("productId"), req.Quantity); err != nil {
			respondCartError(c, route, err)
			return
		}
		if err := carts.Save(ctx, cart); err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func RemoveCartItem(carts cache.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		ctx := c.Request.Context()
		cart, err := carts.Load(ctx, userID.Hex())
		if err != nil {
			respondCartError(c, route, err)
			return
		}
		if err := cart.Remove(c.Param("productId")); err != nil {
			respondCartError(c, route, err)
			return
		}
		if err := carts.Save(ctx, cart); err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func ClearCart(carts cache.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		if err := carts.Clear(c.Request.Context(), userID.Hex()); err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(models.Cart{Items: []models.CartItem{}}))
	}
}
