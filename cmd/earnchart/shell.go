package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"EarnChart/internal/export"
	"EarnChart/internal/present"
	"EarnChart/internal/session"
	"EarnChart/internal/window"

	"github.com/fatih/color"
)

var errColor = color.New(color.FgRed)

const helpText = `commands:
  fetch <TICKER> <YYYY-MM-DD>   load price history around an earnings date
  window <1M|3M|6M|ALL>         change the visible window
  show                          print the current analysis
  export                        save the chart as PNG
  quit                          exit`

// shell drives a session from text commands. Fetches run in the background; only the
// latest one is applied.
type shell struct {
	state     *session.State
	fetcher   session.Fetcher
	exporter  *export.Exporter
	newRegion session.RegionFactory

	mu  sync.Mutex // guards out
	out io.Writer
	wg  sync.WaitGroup
}

func (sh *shell) printf(format string, a ...interface{}) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprintf(sh.out, format, a...)
}

func (sh *shell) printErr(msg string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	errColor.Fprintln(sh.out, msg)
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		sh.printf("%s\n", helpText)
	case "fetch", "f":
		if len(fields) != 3 {
			sh.printErr("usage: fetch <TICKER> <YYYY-MM-DD>")
			return false
		}
		sh.fetch(ctx, fields[1], fields[2])
	case "window", "w":
		if len(fields) != 2 {
			sh.printErr("usage: window <1M|3M|6M|ALL>")
			return false
		}
		w, err := window.Parse(fields[1])
		if err == nil {
			err = sh.state.SetWindow(w)
		}
		if err != nil {
			sh.printErr(err.Error())
			return false
		}
		sh.show()
	case "show", "s":
		sh.show()
	case "export", "e":
		sh.export(ctx)
	default:
		sh.printErr(fmt.Sprintf("unknown command %q, try help", cmd))
	}
	return false
}

func (sh *shell) fetch(ctx context.Context, ticker, date string) {
	req, ok := sh.state.Begin(ticker, date)
	if !ok {
		return
	}
	sh.printf("Loading %s around %s...\n", req.Ticker, req.EarningsDate)

	sh.wg.Add(1)
	go func() {
		defer sh.wg.Done()
		series, err := sh.fetcher.Fetch(ctx, req.Ticker, req.EarningsDate)
		if sh.state.Complete(req, series, err) {
			sh.show()
		}
	}()
}

// wait blocks until background fetches have finished.
func (sh *shell) wait() { sh.wg.Wait() }

func (sh *shell) show() {
	snap := sh.state.Snapshot()
	switch {
	case snap.Loading:
		sh.printf("Loading %s...\n", snap.Ticker)
		return
	case snap.Err != "":
		sh.printErr(snap.Err)
		return
	}

	d, ok := sh.state.Display()
	if !ok {
		sh.printf("Enter a ticker and earnings date to begin.\n")
		return
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	present.Print(sh.out, d)
}

func (sh *shell) export(ctx context.Context) {
	path, err := sh.state.Export(ctx, sh.exporter, sh.newRegion)
	switch {
	case err != nil:
		sh.printErr("Export failed: " + err.Error())
	case path == "":
		sh.printf("Nothing to export yet.\n")
	default:
		sh.printf("Saved %s\n", path)
	}
}
