package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestHandlerExposesCollectors(t *testing.T) {
	ProjectTransitions.WithLabelValues("Review", "ok").Inc()

	body := scrape(t)
	assert.Contains(t, body, `projecthub_projects_status_transitions_total{result="ok",status="Review"}`)
	assert.Contains(t, body, "go_goroutines")
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("smtp down")))
}
