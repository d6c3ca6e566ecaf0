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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/checkout"
	"storefront/internal/models"
)

type orderItemRequest struct {
	ProductID string `json:"id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	OrderID         string                 `json:"orderId"`
	Items           []orderItemRequest     `json:"items" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	DeliveryOption  string                 `json:"deliveryOption" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Processing Shipped Delivered Cancelled"`
}

// priceOrderItems rebuilds the requested lines from the catalogue so the
// stored prices never come from the client.
func priceOrderItems(items []orderItemRequest, products map[string]models.Product) ([]models.CartItem, error) {
	if len(items) == 0 {
		return nil, errors.New("at least one item is required")
	}

	cart := models.Cart{Items: []models.CartItem{}}
	for _, item := range items {
		product, ok := products[strings.TrimSpace(item.ProductID)]
		if !ok {
			return nil, productNotFoundError{ProductID: item.ProductID}
		}
		if err := cart.Add(cartItemFromProduct(product, item.Quantity)); err != nil {
			return nil, fmt.Errorf("%s: %w", product.Name, err)
		}
	}
	return cart.Items, nil
}

// buildOrder validates everything except product existence and assembles the
// order document.
func buildOrder(req CreateOrderRequest, userID primitive.ObjectID, items []models.CartItem, now time.Time) (models.Order, error) {
	if _, ok := checkout.LookupDelivery(req.DeliveryOption); !ok {
		return models.Order{}, errors.New("invalid delivery option")
	}
	if !checkout.IsPaymentMethod(req.PaymentMethod) {
		return models.Order{}, errors.New("invalid payment method")
	}
	if err := checkout.ValidateShippingAddress(req.ShippingAddress, false); err != nil {
		return models.Order{}, err
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		orderID = models.NewOrderID(now)
	}

	totals := checkout.ComputeTotals(items, req.DeliveryOption)
	return models.Order{
		UserID:          userID,
		OrderID:         orderID,
		Items:           checkout.OrderItems(items),
		ShippingAddress: checkout.NormalizeAddress(req.ShippingAddress),
		DeliveryOption:  req.DeliveryOption,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Status:          models.OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func CreateOrder(db *mongo.Database, products ProductFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Missing required fields")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		ids := make([]string, 0, len(req.Items))
		for _, item := range req.Items {
			ids = append(ids, item.ProductID)
		}
		catalogue, err := products.FindProducts(ctx, ids)
		if err != nil {
			var notFound productNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusBadRequest, route, "Product not found: "+notFound.ProductID)
				return
			}
			log.Println("[ORDER] [ERROR] product lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		items, err := priceOrderItems(req.Items, catalogue)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		order, err := buildOrder(req, userID, items, time.Now())
		if err != nil {
			var verr checkout.ValidationError
			if errors.As(err, &verr) {
				respondFieldErrors(c, route, "Invalid shipping address", verr.Fields)
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		if err := NewOrderBook(db).Insert(ctx, &order); err != nil {
			if errors.Is(err, errOrderExists) {
				respondWithError(c, http.StatusConflict, route, "Order already exists")
				return
			}
			log.Println("[ORDER] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		log.Println("[ORDER] [INFO] order created:", order.OrderID)
		c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
	}
}

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
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

		orders, _, err := NewOrderBook(db).List(ctx, ownerID, "", 0, 0)
		if err != nil {
			log.Println("[ORDER] [ERROR] list failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderId"
		defer handlePanic(c, route)

		userID, role, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		order, err := NewOrderBook(db).Get(ctx, c.Param("orderId"))
		if err != nil {
			if errors.Is(err, errOrderNotFound) {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}
		// Other users' orders are reported as missing.
		if order.UserID != userID && !models.IsAdminRole(role) {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// ListAllOrders is the admin view over every order, optionally filtered by
// status and paginated.
func ListAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		orders, total, err := NewOrderBook(db).List(ctx, primitive.NilObjectID, strings.TrimSpace(c.Query("status")), page, limit)
		if err != nil {
			log.Println("[ORDER] [ERROR] admin list failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  orders,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/orders/:orderId/status"
		defer handlePanic(c, route)

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		book := NewOrderBook(db)
		order, err := book.Get(ctx, c.Param("orderId"))
		if err != nil {
			if errors.Is(err, errOrderNotFound) {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		if !models.CanTransitionOrder(order.Status, req.Status) {
			respondWithError(c, http.StatusBadRequest, route,
				fmt.Sprintf("Cannot change status from %s to %s", order.Status, req.Status))
			return
		}

		updated, err := book.UpdateStatus(ctx, order.OrderID, order.Status, req.Status)
		if err != nil {
			if errors.Is(err, errStatusChanged) {
				respondWithError(c, http.StatusConflict, route, "Order status changed, reload and retry")
				return
			}
			log.Println("[ORDER] [ERROR] status update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "Server error")
			return
		}

		log.Printf("[ORDER] [INFO] %s moved %s -> %s", updated.OrderID, order.Status, updated.Status)
		c.JSON(http.StatusOK, gin.H{"success": true, "order": updated})
	}
}
