package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	pageRenders    *prom.CounterVec
	renderDuration *prom.HistogramVec
	fetches        *prom.CounterVec
	reloads        *prom.CounterVec
	buildFiles     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.pageRenders = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "page_renders_total",
			Help:      "Rendered pages by route and view (list, detail, notfound)",
		}, []string{"page", "view"})
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "folio",
			Name:      "render_duration_seconds",
			Help:      "Time to build and execute one page",
			Buckets:   prom.DefBuckets,
		}, []string{"page"})
		pr.fetches = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "content_fetches_total",
			Help:      "Remote content fetches by outcome",
		}, []string{"result"})
		pr.reloads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "reloads_total",
			Help:      "Data file reloads by outcome",
		}, []string{"result"})
		pr.buildFiles = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "build_files_total",
			Help:      "Static export output files by action",
		}, []string{"action"})
		reg.MustRegister(pr.pageRenders, pr.renderDuration, pr.fetches, pr.reloads, pr.buildFiles)
	})
	return pr
}

func (p *PrometheusRecorder) IncPageRender(page, view string) {
	if p == nil || p.pageRenders == nil {
		return
	}
	p.pageRenders.WithLabelValues(page, view).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(page string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(page).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncContentFetch(result ResultLabel) {
	if p == nil || p.fetches == nil {
		return
	}
	p.fetches.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncReload(result ResultLabel) {
	if p == nil || p.reloads == nil {
		return
	}
	p.reloads.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildFile(label BuildLabel) {
	if p == nil || p.buildFiles == nil {
		return
	}
	p.buildFiles.WithLabelValues(string(label)).Inc()
}
