package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"EarnChart/pkg/util"
)

// DefaultScale is the pixel-density multiplier used for exported images.
const DefaultScale = 2.0

// hideTimeout bounds restoring visibility after the capture context is gone.
const hideTimeout = 5 * time.Second

// Region is a rendered area that can be rasterized. Export-only elements stay hidden
// except between ShowExportOnly and HideExportOnly.
type Region interface {
	ShowExportOnly(ctx context.Context) error
	HideExportOnly(ctx context.Context) error
	Capture(ctx context.Context, scale float64) ([]byte, error)
}

// Sink receives the finished image.
type Sink interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// Error is a recoverable export failure. The analytics state is never affected by it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("export %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Filename returns the download name for a ticker's export.
func Filename(ticker string) string {
	return util.NormalizeTicker(ticker) + "-earnings-analysis.png"
}

// WithExportOnly shows the region's export-only elements, runs fn, and hides them again.
// Hiding happens on every path out of fn, including errors, panics and a cancelled ctx.
func WithExportOnly(ctx context.Context, r Region, fn func(ctx context.Context) error) (err error) {
	if err := r.ShowExportOnly(ctx); err != nil {
		// Show may have partially applied.
		hideErr := hide(ctx, r)
		return errors.Join(&Error{Op: "show", Err: err}, hideErr)
	}
	defer func() {
		if hideErr := hide(ctx, r); hideErr != nil {
			err = errors.Join(err, hideErr)
		}
	}()
	return fn(ctx)
}

func hide(ctx context.Context, r Region) error {
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hideTimeout)
	defer cancel()
	if err := r.HideExportOnly(hctx); err != nil {
		return &Error{Op: "hide", Err: err}
	}
	return nil
}

// Exporter captures regions at a fixed density and hands them to a Sink.
type Exporter struct {
	Scale float64
	Sink  Sink
}

func NewExporter(sink Sink, opts ...Option) *Exporter {
	e := &Exporter{Scale: DefaultScale, Sink: sink}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithScale overrides the pixel-density multiplier.
func WithScale(scale float64) Option {
	return func(e *Exporter) {
		if scale > 0 {
			e.Scale = scale
		}
	}
}

// Export captures r and saves it as Filename(ticker). Without a ticker or region nothing is
// captured and ("", nil) is returned.
func (e *Exporter) Export(ctx context.Context, r Region, ticker string) (string, error) {
	if r == nil || strings.TrimSpace(ticker) == "" {
		return "", nil
	}
	scale := e.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var img []byte
	err := WithExportOnly(ctx, r, func(ctx context.Context) error {
		var cerr error
		img, cerr = r.Capture(ctx, scale)
		if cerr != nil {
			return &Error{Op: "capture", Err: cerr}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if e.Sink == nil {
		return "", &Error{Op: "save", Err: errors.New("no sink configured")}
	}
	path, err := e.Sink.Save(ctx, Filename(ticker), img)
	if err != nil {
		return "", &Error{Op: "save", Err: err}
	}
	return path, nil
}
