package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncPageRender("research", "detail")
	pr.IncPageRender("research", "detail")
	pr.ObserveRenderDuration("research", 15*time.Millisecond)
	pr.IncContentFetch(ResultFailed)
	pr.IncReload(ResultSuccess)
	pr.IncBuildFile(BuildSkipped)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.pageRenders.WithLabelValues("research", "detail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.fetches.WithLabelValues("failed")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)
}

func TestNilAndNoopRecorders(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncPageRender("home", "list")
		pr.IncReload(ResultFailed)
	})
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() { r.IncBuildFile(BuildWritten) })
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncReload(ResultSuccess)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `folio_reloads_total{result="success"} 1`)
}
