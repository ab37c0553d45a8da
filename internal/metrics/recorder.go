package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildLabel is what the static export did with one output file.
type BuildLabel string

const (
	BuildWritten BuildLabel = "written"
	BuildSkipped BuildLabel = "skipped"
	BuildRemoved BuildLabel = "removed"
)

// Recorder defines observability hooks for serving and exporting the site.
// NoopRecorder is the default when metrics are disabled.
type Recorder interface {
	IncPageRender(page, view string)
	ObserveRenderDuration(page string, d time.Duration)
	IncContentFetch(result ResultLabel)
	IncReload(result ResultLabel)
	IncBuildFile(label BuildLabel)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncPageRender(string, string)                {}
func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncContentFetch(ResultLabel)                 {}
func (NoopRecorder) IncReload(ResultLabel)                       {}
func (NoopRecorder) IncBuildFile(BuildLabel)                     {}
