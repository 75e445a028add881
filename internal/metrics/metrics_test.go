package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_Records(t *testing.T) {
	c := New("")
	c.NavigationBuilt("miss")
	c.NavigationBuilt("hit")
	c.NavigationBuilt("hit")
	c.CommitFinished("ok")
	c.CatalogMissed()
	c.SessionOpened()
	c.SessionOpened()
	c.SessionClosed()
	c.RecordHTTPRequest("POST", "/api/sessions", 201, 15*time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, `epwizard_navigation_builds_total{result="hit"} 2`)
	assert.Contains(t, body, `epwizard_navigation_builds_total{result="miss"} 1`)
	assert.Contains(t, body, `epwizard_commits_total{status="ok"} 1`)
	assert.Contains(t, body, `epwizard_catalog_misses_total 1`)
	assert.Contains(t, body, `epwizard_sessions_active 1`)
	assert.Contains(t, body, `epwizard_http_requests_total{method="POST",route="/api/sessions",status_code="201"} 1`)
	assert.Contains(t, body, `epwizard_http_request_duration_seconds_count{method="POST",route="/api/sessions"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestCollector_Namespace(t *testing.T) {
	c := New("custom")
	c.CatalogMissed()
	assert.Contains(t, scrape(t, c), "custom_catalog_misses_total 1")
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.NavigationBuilt("hit")
		c.CommitFinished("ok")
		c.CatalogMissed()
		c.SessionOpened()
		c.SessionClosed()
		c.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
