package render

import (
	"context"
	"sync"
)

// ChartRegion captures a Chart in process. The export-only header is drawn only while shown.
type ChartRegion struct {
	chart Chart
	opts  Options

	mu         sync.Mutex
	showHeader bool
}

func NewChartRegion(c Chart, opts Options) *ChartRegion {
	return &ChartRegion{chart: c, opts: opts}
}

func (r *ChartRegion) ShowExportOnly(context.Context) error {
	r.mu.Lock()
	r.showHeader = true
	r.mu.Unlock()
	return nil
}

func (r *ChartRegion) HideExportOnly(context.Context) error {
	r.mu.Lock()
	r.showHeader = false
	r.mu.Unlock()
	return nil
}

// ExportOnlyVisible reports whether the header is currently shown.
func (r *ChartRegion) ExportOnlyVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.showHeader
}

// Capture rasterizes the chart at scale times the configured size.
func (r *ChartRegion) Capture(ctx context.Context, scale float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := r.opts
	opts.Scale = scale
	opts.ShowHeader = r.ExportOnlyVisible()
	return r.chart.PNG(opts)
}
