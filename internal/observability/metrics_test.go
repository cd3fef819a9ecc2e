package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/enquiries", http.MethodGet, 200, 10*time.Millisecond)
	m.RecordRequest("/api/enquiries", http.MethodGet, 200, 30*time.Millisecond)
	m.RecordError("/api/enquiries/claim/:id", http.MethodPut, "CONFLICT")

	snap := m.Snapshot()
	require.Equal(t, int64(2), snap.Requests["/api/enquiries|GET|200"])
	require.Equal(t, int64(20), snap.AvgLatencyMilli["/api/enquiries|GET|200"])
	require.Equal(t, int64(1), snap.Errors["/api/enquiries/claim/:id|PUT|CONFLICT"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
	m.RecordError("/", http.MethodGet, "X")
	require.Empty(t, m.Snapshot().Requests)
}

func TestRequestLogger_RecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, int64(1), m.Snapshot().Requests["/items/:id|GET|204"])
}
