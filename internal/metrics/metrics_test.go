package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHelpers(t *testing.T) {
	RecordGateDecision("purchase.order", "denied", "pending", 0.002)
	assert.Equal(t, float64(1), testutil.ToFloat64(GateDecisionsTotal.WithLabelValues("purchase.order", "denied", "pending")))

	RecordForceReset("sale.order", errors.New("x"))
	assert.Equal(t, float64(1), testutil.ToFloat64(ForceResetsTotal.WithLabelValues("sale.order", "failed")))

	RecordCacheLookup("memory", true)
	RecordCacheLookup("memory", true)
	assert.Equal(t, float64(2), testutil.ToFloat64(ControlCacheTotal.WithLabelValues("memory", "hit")))
}

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/ping/:id", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "approvalhub_api_requests_total")
}
