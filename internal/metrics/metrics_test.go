package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/magicalwebsite/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_TrialCounters(t *testing.T) {
	m := NewMetrics("test")

	m.TrialConsumed("travel", models.RoleUser)
	m.TrialConsumed("travel", models.RoleUser)
	m.TrialConsumed("unknown", models.RoleAdmin)
	m.TrialRejected(models.RoleUser)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TrialsConsumedTotal.WithLabelValues("travel", "user")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TrialsConsumedTotal.WithLabelValues("unknown", "admin")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TrialsRejectedTotal.WithLabelValues("user")))
}

func TestMetrics_TrialConsumed_FoldsUnknownDemoTypes(t *testing.T) {
	m := NewMetrics("test")

	for i := 0; i < 50; i++ {
		m.TrialConsumed(fmt.Sprintf("crafted-%d", i), models.RoleUser)
	}
	m.TrialConsumed("financial", models.RoleUser)
	m.TrialConsumed("", models.RoleUser)

	assert.Equal(t, 2, testutil.CollectAndCount(m.TrialsConsumedTotal))
	assert.Equal(t, float64(51), testutil.ToFloat64(m.TrialsConsumedTotal.WithLabelValues(otherDemoType, "user")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TrialsConsumedTotal.WithLabelValues("financial", "user")))
}

func TestMetrics_MetricsMiddleware(t *testing.T) {
	m := NewMetrics("test")

	r := chi.NewRouter()
	r.Use(m.MetricsMiddleware)
	r.Post("/api/admin/users/{id}/reset-trials", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/users/"+id+"/reset-trials", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/admin/users/{id}/reset-trials", "404"),
	))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404"),
	))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("test")
	m.TrialRejected(models.RoleUser)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `test_trials_rejected_total{role="user"} 1`))
	assert.Contains(t, string(body), "go_goroutines")
}
