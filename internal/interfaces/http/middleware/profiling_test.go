package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func labelsOf(c *gin.Context) map[string]string {
	labels := map[string]string{}
	pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}

func TestProfiling(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen map[string]string
	capture := func(c *gin.Context) {
		seen = labelsOf(c)
		c.Status(http.StatusOK)
	}

	router := gin.New()
	router.Use(Profiling(DefaultProfilingConfig()))
	router.POST("/api/v1/sales/:id/payments", capture)
	router.GET("/health", capture)

	t.Run("labels a versioned route", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/sales/42/payments", nil))

		assert.Equal(t, "sales", seen["controller"])
		assert.Equal(t, "/api/v1/sales/:id/payments", seen["route"])
		assert.Equal(t, http.MethodPost, seen["method"])
		assert.NotEmpty(t, seen["operation"])
		assert.NotContains(t, seen, "request_id")
	})

	t.Run("skips health checks", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, seen)
	})

	t.Run("disabled adds nothing", func(t *testing.T) {
		plain := gin.New()
		plain.Use(Profiling(ProfilingConfig{}))
		plain.GET("/api/v1/products", capture)

		plain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		assert.Empty(t, seen)
	})
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/sales/:id/payments": "sales",
		"/api/v2/analytics/rollup":   "analytics",
		"/health":                    "health",
		"/":                          "",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}

func TestOperationFromHandler(t *testing.T) {
	tests := []struct{ name, want string }{
		{"github.com/shopledger/backend/internal/interfaces/http/handler.(*SaleHandler).Create-fm", "SaleHandler.Create"},
		{"github.com/shopledger/backend/internal/interfaces/http/handler.(*ReportHandler).Rollup-fm", "ReportHandler.Rollup"},
		{"main.main.func1", "main.func1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, operationFromHandler(tt.name), tt.name)
	}
}
