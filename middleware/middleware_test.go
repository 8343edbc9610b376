package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homeserve/models"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	all := append(handlers, func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	r.GET("/", all...)
	return r
}

func bearer(t *testing.T, p models.Principal) string {
	token, _, err := utils.GenerateToken(p, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newRouter(JWTAuthMiddleware())

	w := do(r, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")

	w = do(r, "Authorization", bearer(t, models.Principal{ID: "u-1", Role: models.RoleClient}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u-1","role":"client"}`, w.Body.String())
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	r := newRouter(JWTAuthMiddleware())
	token, _, err := utils.GenerateToken(models.Principal{ID: "u-1"}, -time.Minute)
	require.NoError(t, err)

	w := do(r, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(JWTAuthMiddleware(), RequireAdmin())

	w := do(r, "Authorization", bearer(t, models.Principal{ID: "u-1", Role: models.RoleClient}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), string(utils.KindAuthorization))

	w = do(r, "Authorization", bearer(t, models.Principal{ID: "a-1", Role: models.RoleAdmin}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(RateLimitMiddleware(3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, "X-Forwarded-For", "10.0.0.1").Code)
	}
	w := do(r, "X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Other clients have their own budget.
	assert.Equal(t, http.StatusOK, do(r, "X-Forwarded-For", "10.0.0.2").Code)
}

func TestRateLimiterStoreEvictsIdleClients(t *testing.T) {
	s := newRateLimiterStore(10)
	start := time.Now()
	s.getLimiter("10.0.0.1", start)
	s.getLimiter("10.0.0.2", start.Add(idleLimiterTTL+time.Minute))

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.NotContains(t, s.visitors, "10.0.0.1")
	assert.Contains(t, s.visitors, "10.0.0.2")
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Get("logger")
		assert.True(t, ok)
		c.String(http.StatusOK, c.GetString("requestID"))
	})

	w := do(r, RequestIDHeader, "req-42")
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-42", w.Body.String())

	w = do(r, "", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestGetClientIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", getClientIP(c))

	c.Request.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", getClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(c))
}
