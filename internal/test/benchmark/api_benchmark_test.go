package benchmark

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/middleware"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/routes"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/test/testdb"
)

// startPortal serves the full router over a local listener with one
// secretary account.
func startPortal(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.PurgeCache()

	cfg := &config.Config{
		DBDriver:     "sqlite",
		JWTSecretKey: "bench-secret",
		SessionTTL:   time.Hour,
		BlobDriver:   "memory",
		CORSOrigin:   "*",
	}
	c := container.NewServiceContainer(testdb.Open(t), cfg, container.Infrastructure{
		Metrics: metrics.New(prometheus.NewRegistry()),
	})
	users := c.GetService("user").(services.InterfaceUserService)
	_, err := users.CreateUser(context.Background(), services.CreateUserInput{
		Username: "bench",
		Password: "bench-pass-123",
		Role:     models.RoleSecretary,
	})
	require.NoError(t, err)

	server := httptest.NewServer(routes.SetupRouter(c))
	t.Cleanup(server.Close)
	return server.URL + "/api"
}

func TestPublicPingUnderLoad(t *testing.T) {
	base := startPortal(t)

	// stays inside the public per-IP burst
	result := NewAPIBenchmark(base, 5, 15, "").RunGET(context.Background(), "/ping")
	assert.Equal(t, 15, result.SuccessCount)
	assert.Zero(t, result.FailureCount)
	assert.Equal(t, 15, result.StatusCodes[http.StatusOK])
	assert.Equal(t, 100.0, result.SuccessRate())
	assert.LessOrEqual(t, result.MinTime, result.MaxTime)
}

func TestResidentListWithSession(t *testing.T) {
	base := startPortal(t)
	ctx := context.Background()

	b := NewAPIBenchmark(base, 8, 40, "")
	require.NoError(t, b.Login(ctx, "bench", "bench-pass-123"))
	require.NotEmpty(t, b.AuthToken)

	result := b.RunGET(ctx, "/residents")
	assert.Equal(t, 40, result.SuccessCount, result.StatusCodes)

	var out bytes.Buffer
	result.Fprint(&out)
	assert.Contains(t, out.String(), "GET "+base+"/residents")
	assert.Contains(t, out.String(), "status 200:    40")
}

func TestWithoutSessionEveryRequestFails(t *testing.T) {
	base := startPortal(t)

	result := NewAPIBenchmark(base, 4, 8, "").RunGET(context.Background(), "/residents")
	assert.Zero(t, result.SuccessCount)
	assert.Equal(t, 8, result.FailureCount)
	assert.Equal(t, 8, result.StatusCodes[http.StatusUnauthorized])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	base := startPortal(t)

	b := NewAPIBenchmark(base, 1, 1, "")
	err := b.Login(context.Background(), "bench", "wrong")
	require.Error(t, err)
	assert.Empty(t, b.AuthToken)
}

func TestTransportErrorsAreCounted(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	result := NewAPIBenchmark(url, 2, 3, "").RunPOST(context.Background(), "/x", map[string]string{"a": "b"})
	assert.Equal(t, 3, result.FailureCount)
	assert.Len(t, result.Errors, 3)
	assert.Zero(t, result.AverageTime)

	var out bytes.Buffer
	result.Fprint(&out)
	assert.Contains(t, out.String(), "error:")
}

func TestUnencodablePayload(t *testing.T) {
	result := NewAPIBenchmark("http://127.0.0.1:1", 1, 1, "").RunPUT(context.Background(), "/x", make(chan int))
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "encode payload")
}
