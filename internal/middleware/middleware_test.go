package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/protected", guard, func(c *gin.Context) {
		userID := c.MustGet("userId").(primitive.ObjectID)
		c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": c.GetString("role")})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuth(t *testing.T) {
	r := newRouter(UserAuth(testSecret))
	userID := primitive.NewObjectID()

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = doGet(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := signToken(t, jwt.MapClaims{"userId": userID.Hex(), "exp": time.Now().Add(-time.Minute).Unix()})
	w = doGet(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	valid := signToken(t, jwt.MapClaims{"userId": userID.Hex(), "role": "user", "exp": time.Now().Add(time.Hour).Unix()})
	w = doGet(r, "bearer "+valid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.Hex())
}

func TestUserAuthRejectsMissingUserID(t *testing.T) {
	r := newRouter(UserAuth(testSecret))
	token := signToken(t, jwt.MapClaims{"email": "a@b.c", "exp": time.Now().Add(time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+token).Code)
}

func TestAdminAuth(t *testing.T) {
	r := newRouter(AdminAuth(testSecret))
	userID := primitive.NewObjectID().Hex()
	exp := time.Now().Add(time.Hour).Unix()

	user := signToken(t, jwt.MapClaims{"userId": userID, "role": "user", "exp": exp})
	assert.Equal(t, http.StatusForbidden, doGet(r, "Bearer "+user).Code)

	admin := signToken(t, jwt.MapClaims{"userId": userID, "role": "admin", "exp": exp})
	assert.Equal(t, http.StatusOK, doGet(r, "Bearer "+admin).Code)

	super := signToken(t, jwt.MapClaims{"userId": userID, "role": "superadmin", "exp": exp})
	assert.Equal(t, http.StatusOK, doGet(r, "Bearer "+super).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newRouter(UserAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, http.StatusTeapot, w.Code)
}
