package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// BrowserRegion captures an element of an HTML page with headless Chrome.
type BrowserRegion struct {
	ctx      context.Context
	cancel   context.CancelFunc
	selector string
	attr     string

	mu        sync.Mutex
	scriptErr []string
}

// BrowserOption configures a BrowserRegion.
type BrowserOption func(*browserConfig)

type browserConfig struct {
	width, height int
	timeout       time.Duration
	execPath      string
}

// WithWindowSize sets the browser viewport.
func WithWindowSize(w, h int) BrowserOption {
	return func(c *browserConfig) {
		c.width, c.height = w, h
	}
}

// WithLoadTimeout bounds loading the page.
func WithLoadTimeout(d time.Duration) BrowserOption {
	return func(c *browserConfig) {
		c.timeout = d
	}
}

// WithExecPath points at a specific Chrome binary.
func WithExecPath(path string) BrowserOption {
	return func(c *browserConfig) {
		c.execPath = path
	}
}

// NewBrowserRegion starts a headless browser, loads page and waits for selector. Elements
// carrying attr are treated as export-only. Close must be called to stop the browser.
func NewBrowserRegion(ctx context.Context, page []byte, selector, attr string, opts ...BrowserOption) (*BrowserRegion, error) {
	cfg := &browserConfig{width: 1280, height: 900, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(cfg.width, cfg.height),
	)
	if cfg.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	bctx, bcancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		bcancel()
		allocCancel()
	}

	b := &BrowserRegion{ctx: bctx, cancel: cancel, selector: selector, attr: attr}
	chromedp.ListenTarget(bctx, func(ev interface{}) {
		if e, ok := ev.(*runtime.EventExceptionThrown); ok && e.ExceptionDetails != nil {
			b.recordScriptError(e.ExceptionDetails)
		}
	})

	lctx, lcancel := context.WithTimeout(bctx, cfg.timeout)
	defer lcancel()
	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString(page)
	if err := chromedp.Run(lctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(selector, chromedp.ByQuery),
	); err != nil {
		cancel()
		return nil, fmt.Errorf("load page: %w", err)
	}

	return b, nil
}

func (b *BrowserRegion) recordScriptError(d *runtime.ExceptionDetails) {
	msg := d.Text
	if d.Exception != nil && d.Exception.Description != "" {
		msg = d.Exception.Description
	}
	b.mu.Lock()
	b.scriptErr = append(b.scriptErr, msg)
	b.mu.Unlock()
}

// ScriptErrors returns the uncaught exceptions the page has thrown so far.
func (b *BrowserRegion) ScriptErrors() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.scriptErr...)
}

func (b *BrowserRegion) setHidden(ctx context.Context, hidden bool) error {
	js := fmt.Sprintf(`document.querySelectorAll('[%s]').forEach(el => { el.hidden = %t; })`, b.attr, hidden)
	return b.run(ctx, chromedp.Evaluate(js, nil))
}

func (b *BrowserRegion) ShowExportOnly(ctx context.Context) error {
	return b.setHidden(ctx, false)
}

func (b *BrowserRegion) HideExportOnly(ctx context.Context) error {
	return b.setHidden(ctx, true)
}

// ExportOnlyVisible reports whether any export-only element is currently displayed.
func (b *BrowserRegion) ExportOnlyVisible(ctx context.Context) (bool, error) {
	var visible bool
	js := fmt.Sprintf(`Array.from(document.querySelectorAll('[%s]')).some(el => !el.hidden)`, b.attr)
	err := b.run(ctx, chromedp.Evaluate(js, &visible))
	return visible, err
}

// Capture screenshots the region. A page that threw uncaught exceptions may be half drawn,
// so it is not captured.
func (b *BrowserRegion) Capture(ctx context.Context, scale float64) ([]byte, error) {
	if errs := b.ScriptErrors(); len(errs) > 0 {
		return nil, fmt.Errorf("page script error: %s", strings.Join(errs, "; "))
	}
	var buf []byte
	if err := b.run(ctx, chromedp.ScreenshotScale(b.selector, scale, &buf, chromedp.ByQuery)); err != nil {
		return nil, err
	}
	return buf, nil
}

// run executes actions on the browser tab, honouring cancellation of ctx as well.
func (b *BrowserRegion) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(tctx, actions...)
}

// Close stops the browser.
func (b *BrowserRegion) Close() {
	b.cancel()
}
