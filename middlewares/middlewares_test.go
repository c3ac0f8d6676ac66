package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserID), "role": c.GetString(ContextRole)})
	})
	r.GET("/", handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware())
	token, _, err := utils.GenerateToken(7, "ana", models.RoleStaff)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"staff"}`, w.Body.String())

	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	r := newRouter(WebSocketAuthMiddleware())
	token, _, err := utils.GenerateToken(3, "kitchen", models.RoleKitchen)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/?token="+token, nil)).Code)
}

func TestRequireRole(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set(ContextRole, role) }
	}

	tests := []struct {
		role string
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleKitchen, http.StatusOK},
		{models.RoleDelivery, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r := newRouter(withRole(tt.role), RequireRole(models.RoleKitchen, models.RoleStaff))
			assert.Equal(t, tt.want, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	r := newRouter(NewRateLimiter(2, time.Hour).RateLimit())

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too many requests")
}

func TestLoggerMiddlewareRequestID(t *testing.T) {
	r := newRouter(LoggerMiddleware())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", serve(r, req).Header().Get(RequestIDHeader))
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	r = gin.New()
	r.Use(CORSMiddlewares([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", serve(r, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}
