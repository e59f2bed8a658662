package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeJWTService accepts the tokens listed in principals
type fakeJWTService struct {
	services.InterfaceJWTService
	principals map[string]*services.Principal
	inactive   map[string]bool
}

func (f *fakeJWTService) Authenticate(_ context.Context, token string) (*services.Principal, error) {
	if f.inactive[token] {
		return nil, services.ErrUserInactive
	}
	if p, ok := f.principals[token]; ok {
		return p, nil
	}
	return nil, services.ErrSessionInvalid
}

func newAuthRouter() *gin.Engine {
	jwtService := &fakeJWTService{
		principals: map[string]*services.Principal{
			"admin-token":     {UserID: 1, Username: "admin", Role: models.RoleAdmin},
			"secretary-token": {UserID: 2, Username: "sec", Role: models.RoleSecretary},
			"staff-token":     {UserID: 3, Username: "staff", Role: models.RoleStaff},
		},
		inactive: map[string]bool{"inactive-token": true},
	}
	r := gin.New()
	api := r.Group("/api", Authentication(jwtService))
	api.GET("/me", func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID})
	})
	api.DELETE("/blotters/:id", RequireRoles(models.RoleSecretary), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	api.GET("/users", RequireRoles(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func responseCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestAuthentication(t *testing.T) {
	r := newAuthRouter()

	w := doRequest(r, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.ErrTokenInvalid, responseCode(t, w))

	w = doRequest(r, http.MethodGet, "/api/me", "inactive-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, code.ErrUserInactive, responseCode(t, w))

	w = doRequest(r, http.MethodGet, "/api/me", "staff-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":3}`, w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodDelete, "/api/blotters/1", "admin-token").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodDelete, "/api/blotters/1", "secretary-token").Code)

	w := doRequest(r, http.MethodDelete, "/api/blotters/1", "staff-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, code.ErrForbidden, responseCode(t, w))

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/users", "admin-token").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/users", "secretary-token").Code)
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", extractToken("Bearer abc"))
	assert.Equal(t, "abc", extractToken("bearer abc"))
	assert.Equal(t, "", extractToken("abc"))
	assert.Equal(t, "", extractToken("Bearer "))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(IPRateLimiter(0.001, 2))
	r.GET("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/auth/login", "").Code)
	}
	w := doRequest(r, http.MethodGet, "/api/auth/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, code.ErrTooManyRequests, responseCode(t, w))
}

func TestPathAndCustomRateLimiters(t *testing.T) {
	r := gin.New()
	r.GET("/shared/:id", PathRateLimiter(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/per-user", CustomRateLimiter(0.001, 1, func(c *gin.Context) string {
		return c.Query("u")
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	// every id shares the route bucket
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/shared/1", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodGet, "/shared/2", "").Code)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/per-user?u=ana", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodGet, "/per-user?u=ana", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/per-user?u=ben", "").Code)
}

func TestLimiterSetSweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	set := newLimiterSet(normalizeRateConfig(RateLimiterConfig{Rate: 1, Burst: 1, ExpiryTime: time.Minute}))
	set.now = func() time.Time { return now }

	assert.True(t, set.allow("10.0.0.1"))
	assert.False(t, set.allow("10.0.0.1"))
	assert.True(t, set.allow("10.0.0.2"))
	assert.Equal(t, 2, set.size())

	now = now.Add(2 * time.Minute)
	assert.True(t, set.allow("10.0.0.3"))
	assert.Equal(t, 1, set.size())
}

func TestCacheServesAndPurges(t *testing.T) {
	PurgeCache()
	calls := 0
	r := gin.New()
	group := r.Group("/api/incident-types", PurgeOnWrite("/api/incident-types"))
	group.GET("", Cache(), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	group.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })

	first := doRequest(r, http.MethodGet, "/api/incident-types", "")
	second := doRequest(r, http.MethodGet, "/api/incident-types", "")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, CacheStats()["total_items"])

	doRequest(r, http.MethodPost, "/api/incident-types", "")
	third := doRequest(r, http.MethodGet, "/api/incident-types", "")
	assert.JSONEq(t, `{"calls":2}`, third.Body.String())
	assert.Equal(t, 2, calls)
	PurgeCache()
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/residents/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	doRequest(r, http.MethodGet, "/api/residents/7", "")
	doRequest(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/residents/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
