package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusControllerServesScrapeEndpoint(t *testing.T) {
	router := mux.NewRouter()
	NewPrometheusController("").(*PrometheusController).Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, defaultScrapePath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestPrometheusControllerCustomPath(t *testing.T) {
	c := NewPrometheusController("/metrics")
	assert.Equal(t, "/metrics", c.Key())
}
