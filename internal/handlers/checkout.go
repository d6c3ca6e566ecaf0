package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/cache"
	"storefront/internal/checkout"
	"storefront/internal/mailer"
	"storefront/internal/models"
)

type AddressStore interface {
	Get(ctx context.Context, userID, id primitive.ObjectID) (models.Address, error)
	Count(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Create(ctx context.Context, address *models.Address) error
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
}

// CheckoutDeps bundles everything the checkout endpoints touch.
type CheckoutDeps struct {
	Sessions  cache.SessionStore
	Carts     cache.CartStore
	Products  ProductFinder
	Payments  checkout.Processor
	Mail      mailer.Mailer
	Addresses AddressStore
	Orders    OrderStore
}

type ShippingRequest struct {
	AddressID   string                  `json:"addressId"`
	Address     *models.ShippingAddress `json:"address"`
	SaveAddress bool                    `json:"saveAddress"`
}

type DeliveryRequest struct {
	Option string `json:"option" binding:"required"`
}

type PaymentRequest struct {
	Method string        `json:"method" binding:"required"`
	Card   checkout.Card `json:"card"`
}

type StepRequest struct {
	Step int `json:"step" binding:"required"`
}

func respondCheckoutError(c *gin.Context, route string, err error) {
	var stepErr checkout.StepError
	var verr checkout.ValidationError
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		respondWithError(c, http.StatusNotFound, route, "Checkout session not found")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondWithError(c, http.StatusBadRequest, route, "Cart is empty")
	case errors.Is(err, checkout.ErrSessionComplete):
		respondWithError(c, http.StatusConflict, route, "Checkout already completed")
	case errors.Is(err, checkout.ErrPaymentInProgress):
		respondWithError(c, http.StatusConflict, route, "Payment already in progress")
	case errors.As(err, &stepErr):
		log.Printf("[%s] %v", route, stepErr)
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"success":     false,
			"message":     "Complete the " + stepErr.Required.String() + " step first",
			"currentStep": stepErr.Current,
		})
	case errors.As(err, &verr):
		respondFieldErrors(c, route, "validation failed", verr.Fields)
	default:
		log.Printf("[CHECKOUT] [ERROR] %s: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "Server error")
	}
}

// loadSession fetches the caller's session. Sessions that belong to someone
// else are reported as missing.
func loadSession(c *gin.Context, deps CheckoutDeps, route string) (*checkout.Session, primitive.ObjectID, bool) {
	userID, _, ok := currentUser(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
		return nil, primitive.NilObjectID, false
	}

	session, err := deps.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCheckoutError(c, route, err)
		return nil, primitive.NilObjectID, false
	}
	if session.UserID != userID.Hex() {
		respondCheckoutError(c, route, checkout.ErrSessionNotFound)
		return nil, primitive.NilObjectID, false
	}
	return session, userID, true
}

func saveSession(c *gin.Context, deps CheckoutDeps, route string, session *checkout.Session, status int) {
	if err := deps.Sessions.Put(c.Request.Context(), session); err != nil {
		respondCheckoutError(c, route, err)
		return
	}
	c.JSON(status, gin.H{"success": true, "session": session})
}

func GetDeliveryOptions() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "options": checkout.DeliveryOptions})
	}
}

// StartCheckout opens a session over the caller's current cart.
func StartCheckout(deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		userID, _, ok := currentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Unauthorized")
			return
		}

		cart, err := deps.Carts.Load(c.Request.Context(), userID.Hex())
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		session, err := checkout.NewSession(uuid.NewString(), userID.Hex(), cart.Items, time.Now())
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		log.Printf("[CHECKOUT] [INFO] session %s started for %s", session.ID, userID.Hex())
		saveSession(c, deps, route, session, http.StatusCreated)
	}
}

func GetCheckout(deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /checkout/:id"
		defer handlePanic(c, route)

		session, _, ok := loadSession(c, deps, route)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
	}
}

func ConfirmReview(deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/:id/review"
		defer handlePanic(c, route)

		session, _, ok := loadSession(c, deps, route)
		if !ok {
			return
		}
		if err := session.ConfirmReview(time.Now()); err != nil {
			respondCheckoutError(c, route, err)
			return
		}
		saveSession(c, deps, route, session, http.StatusOK)
	}
}

// SetShipping takes either a saved address id or a typed-in address. A
// typed-in address can be saved to the address book, becoming the default
// when the user has none yet.
func SetShipping(deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /checkout/:id/shipping"
		defer handlePanic(c, route)

		session, userID, ok := loadSession(c, deps, route)
		if !ok {
			return
		}

		var req ShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()
		now := time.Now()

		if addressID := strings.TrimSpace(req.AddressID); addressID != "" {
			id, err := primitive.ObjectIDFromHex(addressID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "Invalid address ID")
				return
			}
			saved, err := deps.Addresses.Get(ctx, userID, id)
			if err != nil {
				if errors.Is(err, errAddressNotFound) {
					respondWithError(c, http.StatusNotFound, route, "Address not found")
					return
				}
				respondCheckoutError(c, route, err)
				return
			}
			if err := session.SetShipping(saved.ShippingAddress, addressID, false, now); err != nil {
				respondCheckoutError(c, route, err)
				return
			}
			saveSession(c, deps, route, session, http.StatusOK)
			return
		}

		if req.Address == nil {
			respondWithError(c, http.StatusBadRequest, route, "addressId or address is required")
			return
		}
		previous, previousSavedID := session.ShippingAddress, session.SavedAddressID
		if err := session.SetShipping(*req.Address, "", req.SaveAddress, now); err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		if session.SaveAddress && previousSavedID != "" && previous != nil && *previous == *session.ShippingAddress {
			session.SavedAddressID = previousSavedID
		} else if session.SaveAddress {
			address, err := saveCheckoutAddress(ctx, deps.Addresses, userID, *session.ShippingAddress, now)
			if err != nil {
				respondCheckoutError(c, route, err)
				return
			}
			session.SavedAddressID = address.ID.Hex()
			log.Printf("[CHECKOUT] [INFO] session %s saved address %s", session.ID, session.SavedAddressID)
		}

		saveSession(c, deps, route, session, http.StatusOK)
	}
}

func saveCheckoutAddress(ctx context.Context, book AddressStore, userID primitive.ObjectID, shipping models.ShippingAddress, now time.Time) (models.Address, error) {
	count, err := book.Count(ctx, userID)
	if err != nil {
		return models.Address{}, err
	}
	address := models.Address{
		UserID:          userID,
		ShippingAddress: shipping,
		IsDefault:       count == 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := book.Create(ctx, &address); err != nil {
		return models.Address{}, err
	}
	return address, nil
}

func SetDelivery(deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /checkout/:id/delivery"
		defer handlePanic(c, route)

		session, _, ok := loadSession(c, deps, route)
		if !ok {
			return
		}

		var req DeliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if err := session.SetDelivery(strings.TrimSpace(req.Option), time.Now()); err != nil {
			respondCheckoutError(c, route, err)
			return
		}
		saveSession(c, deps, route, session, http.StatusOK)
	}
}

// orderedLines reprices the session lines from the catalogue so the charge
// never uses a stale snapshot price.
func orderedLines(ctx context.Context, products ProductFinder, items []models.CartItem) ([]models.CartItem, error) {
	ids := make([]string, 0, len(items))
	lines := make([]orderItemRequest, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
		lines = append(lines, orderItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	catalogue, err := products.FindProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	return priceOrderItems(lines, catalogue)
}

// removeOrderedLines takes the ordered units out of the cart. Lines added
// after checkout started stay in the cart.
func removeOrderedLines(ctx context.Context, carts cache.CartStore, userID string, ordered []models.CartItem) error {
	cart, err := carts.Load(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range ordered {
		cart.Deduct(item.ProductID, item.Quantity)
	}
	if len(cart.Items) == 0 {
		return carts.Clear(ctx, userID)
	}
	return carts.Save(ctx, cart)
}

// SubmitPayment charges the session total, places the order and takes the
// ordered lines out of the cart. Only one payment may run per session. A
// failed confirmation email does not fail the request.
func SubmitPayment(deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/:id/payment"
		defer handlePanic(c, route)

		session, userID, ok := loadSession(c, deps, route)
		if !ok {
			return
		}

		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		method := strings.TrimSpace(req.Method)
		if err := session.ReadyForPayment(method, req.Card); err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		sessionID := session.ID
		claimed, err := deps.Sessions.ClaimPayment(c.Request.Context(), sessionID)
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}
		if !claimed {
			respondCheckoutError(c, route, checkout.ErrPaymentInProgress)
			return
		}
		placed := false
		defer func() {
			if placed {
				return
			}
			if err := deps.Sessions.ReleasePayment(context.Background(), sessionID); err != nil {
				log.Printf("[CHECKOUT] [WARN] session %s payment claim not released: %v", sessionID, err)
			}
		}()

		// The session may have been completed between the first read and the claim.
		session, err = deps.Sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}
		if err := session.ReadyForPayment(method, req.Card); err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()
		now := time.Now()

		items, err := orderedLines(ctx, deps.Products, session.Items)
		if err != nil {
			var notFound productNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusConflict, route, "Product no longer available: "+notFound.ProductID)
				return
			}
			respondCheckoutError(c, route, err)
			return
		}
		session.Reprice(items, now)

		order := session.Order(models.NewOrderID(now), method, now)
		order.UserID = userID

		receipt, err := deps.Payments.Charge(c.Request.Context(), checkout.Charge{
			Method: method,
			Amount: order.Total,
			Card:   req.Card,
		})
		if err != nil {
			log.Printf("[CHECKOUT] [ERROR] session %s payment failed: %v", session.ID, err)
			respondWithError(c, http.StatusPaymentRequired, route, "Payment failed")
			return
		}

		if err := deps.Orders.Insert(ctx, &order); err != nil {
			respondCheckoutError(c, route, err)
			return
		}
		placed = true

		if err := session.Complete(method, order.OrderID, now); err != nil {
			respondCheckoutError(c, route, err)
			return
		}
		if err := deps.Sessions.Put(ctx, session); err != nil {
			log.Printf("[CHECKOUT] [WARN] session %s not updated after order %s: %v", session.ID, order.OrderID, err)
		}
		if err := removeOrderedLines(ctx, deps.Carts, userID.Hex(), session.Items); err != nil {
			log.Printf("[CHECKOUT] [WARN] cart for %s not updated: %v", userID.Hex(), err)
		}
		if err := deps.Mail.SendOrderConfirmation(ctx, order); err != nil {
			log.Printf("[CHECKOUT] [WARN] confirmation for %s not sent: %v", order.OrderID, err)
		}

		log.Printf("[CHECKOUT] [INFO] order %s placed from session %s", order.OrderID, session.ID)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"order":   order,
			"receipt": receipt,
			"session": session,
		})
	}
}

// GoToStep moves the session back to an earlier step.
func GoToStep(deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/:id/step"
		defer handlePanic(c, route)

		session, _, ok := loadSession(c, deps, route)
		if !ok {
			return
		}

		var req StepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if err := session.GoBack(checkout.Step(req.Step), time.Now()); err != nil {
			respondCheckoutError(c, route, err)
			return
		}
		saveSession(c, deps, route, session, http.StatusOK)
	}
}
