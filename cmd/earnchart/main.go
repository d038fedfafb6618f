package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"EarnChart/internal/client"
	"EarnChart/internal/export"
	"EarnChart/internal/present"
	"EarnChart/internal/render"
	"EarnChart/internal/session"
	"EarnChart/internal/window"
	"EarnChart/pkg/config"
	applogger "EarnChart/pkg/logger"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	ticker := flag.String("ticker", "", "ticker symbol, case-insensitive")
	date := flag.String("date", "", "earnings date, YYYY-MM-DD")
	win := flag.String("window", "ALL", "window: 1M, 3M, 6M or ALL")
	doExport := flag.Bool("export", false, "save the chart as PNG and exit")
	interactive := flag.Bool("i", false, "stay in interactive mode after a one-shot query")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	level := "warn"
	if os.Getenv("LOG_LEVEL") != "" {
		level = cfg.Log.Level
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := &shell{
		state:     session.New(),
		fetcher:   client.New(cfg.Client.APIURL, client.WithTimeout(cfg.Client.Timeout), client.WithLogger(l)),
		exporter:  export.NewExporter(export.DirSink{Dir: cfg.Client.ExportDir}, export.WithScale(cfg.Client.ExportScale)),
		newRegion: regionFactory(cfg),
		out:       os.Stdout,
	}

	oneShot := *ticker != "" || *date != ""
	if oneShot {
		if err := runOnce(ctx, sh, *ticker, *date, *win, *doExport); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !*interactive {
			return
		}
	}

	repl(ctx, sh)
}

// runOnce fetches one query, applies the window, prints it and optionally exports.
func runOnce(ctx context.Context, sh *shell, ticker, date, win string, doExport bool) error {
	w, err := window.Parse(win)
	if err != nil {
		return err
	}
	if err := sh.state.Submit(ctx, sh.fetcher, ticker, date); err != nil {
		return fmt.Errorf("%s", session.UserMessage(err))
	}
	if snap := sh.state.Snapshot(); !snap.HasSeries {
		return fmt.Errorf("ticker and date are both required")
	}
	if err := sh.state.SetWindow(w); err != nil {
		return err
	}
	sh.show()
	if doExport {
		sh.export(ctx)
	}
	return nil
}

func repl(ctx context.Context, sh *shell) {
	fmt.Fprintln(sh.out, "EarnChart. Type help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			break
		}
		if sh.exec(ctx, scanner.Text()) || ctx.Err() != nil {
			break
		}
	}
	sh.wait()
}

// regionFactory picks the capture backend. "browser" renders the full page in headless
// Chrome; "chart" rasterizes the chart in process.
func regionFactory(cfg *config.Config) session.RegionFactory {
	if strings.EqualFold(cfg.Client.Renderer, "browser") {
		return func(ctx context.Context, c render.Chart, d present.Display) (export.Region, func(), error) {
			page, err := render.HTML(c, d, render.Options{})
			if err != nil {
				return nil, nil, err
			}
			var opts []export.BrowserOption
			if cfg.Client.ChromePath != "" {
				opts = append(opts, export.WithExecPath(cfg.Client.ChromePath))
			}
			br, err := export.NewBrowserRegion(ctx, page, render.RegionSelector, render.ExportOnlyAttr, opts...)
			if err != nil {
				return nil, nil, err
			}
			return br, br.Close, nil
		}
	}
	return func(_ context.Context, c render.Chart, _ present.Display) (export.Region, func(), error) {
		return render.NewChartRegion(c, render.Options{}), nil, nil
	}
}
