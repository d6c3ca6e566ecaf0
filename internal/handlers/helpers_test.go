package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/checkout"
	"storefront/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for UserAuth in handler tests.
func asUser(userID primitive.ObjectID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("role", role)
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type memoryCarts struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{carts: map[string]models.Cart{}}
}

func (m *memoryCarts) Load(_ context.Context, userID string) (models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return cart, nil
}

func (m *memoryCarts) Save(_ context.Context, cart models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.UserID] = cart
	return nil
}

func (m *memoryCarts) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string][]byte
	claims   map[string]bool
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string][]byte{}, claims: map[string]bool{}}
}

func (m *memorySessions) ClaimPayment(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claims[id] {
		return false, nil
	}
	m.claims[id] = true
	return true, nil
}

func (m *memorySessions) ReleasePayment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, id)
	return nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*checkout.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.sessions[id]
	if !ok {
		return nil, checkout.ErrSessionNotFound
	}
	var s checkout.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *memorySessions) Put(_ context.Context, s *checkout.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = raw
	return nil
}

type staticProducts map[string]models.Product

func (s staticProducts) FindProducts(_ context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	for _, id := range ids {
		p, ok := s[id]
		if !ok {
			return nil, productNotFoundError{ProductID: id}
		}
		out[id] = p
	}
	return out, nil
}

func newTestProduct(name string, price float64, category string) models.Product {
	return models.Product{ID: primitive.NewObjectID(), Name: name, Price: price, Category: category, Image: "/gu.avif"}
}

type memoryAddresses struct {
	mu        sync.Mutex
	addresses []models.Address
}

func (m *memoryAddresses) Get(_ context.Context, userID, id primitive.ObjectID) (models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.addresses {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return models.Address{}, errAddressNotFound
}

func (m *memoryAddresses) Count(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.addresses {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memoryAddresses) Create(_ context.Context, address *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	address.ID = primitive.NewObjectID()
	m.addresses = append(m.addresses, *address)
	return nil
}

type memoryOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (m *memoryOrders) Insert(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderID == order.OrderID {
			return errOrderExists
		}
	}
	order.ID = primitive.NewObjectID()
	m.orders = append(m.orders, *order)
	return nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []models.Order
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, order)
	return nil
}
