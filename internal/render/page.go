package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"EarnChart/internal/present"
)

// RegionSelector matches the exportable region of the page.
const RegionSelector = "#earnings-chart-region"

// ExportOnlyAttr marks elements that are hidden except while exporting.
const ExportOnlyAttr = "data-export-only"

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"positive": func(t present.Trend) bool { return t.Positive() },
	"deref":    func(t *present.Trend) present.Trend { return *t },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Display.Ticker}} Earnings Chart</title>
<style>
body { background: #0b0b0d; color: #e5e7eb; font-family: -apple-system, Segoe UI, sans-serif; margin: 0; padding: 24px; }
#earnings-chart-region { background: #161618; border-radius: 12px; padding: 24px; width: {{.Width}}px; }
.up { color: #22c55e; } .down { color: #ef4444; }
.muted { color: #9ca3af; font-size: 13px; }
.cards { display: grid; grid-template-columns: repeat(4, 1fr); gap: 16px; margin-top: 24px; }
.card { background: #1f1f23; border-radius: 8px; padding: 12px; }
.label { font-size: 11px; text-transform: uppercase; letter-spacing: .05em; color: #6b7280; }
.value { font-size: 20px; font-weight: 700; margin: 4px 0; }
img { width: 100%; }
</style>
</head>
<body>
<div id="earnings-chart-region">
  <header data-export-only hidden>
    <h1>{{.Title}}</h1>
    <p class="muted">{{.Subtitle}}</p>
  </header>
  <div>
    <h2>{{.Display.Ticker}} <span class="{{if positive .Display.HeadlineTrend}}up{{else}}down{{end}}">{{.Display.Headline}}</span></h2>
    <p class="muted">{{.Display.Period}} · Window {{.Display.Window}}</p>
  </div>
  {{if .Image}}<img alt="price chart" src="{{.Image}}">{{else}}<p class="muted">No data in window</p>{{end}}
  <div class="cards">
  {{range .Display.Cards}}
    <div class="card">
      <div class="label">{{.Label}}</div>
      <div class="value{{if .Trend}} {{if positive (deref .Trend)}}up{{else}}down{{end}}{{end}}">{{.Value}}</div>
      {{if .Sub}}<div class="muted">{{.Sub}}</div>{{end}}
    </div>
  {{end}}
  </div>
</div>
</body>
</html>
`))

type pageData struct {
	Display  present.Display
	Title    string
	Subtitle string
	Width    int
	Image    template.URL
}

// HTML renders a self-contained page for the chart and its stat cards. The chart image is
// embedded as a data URL so the page needs no server.
func HTML(c Chart, d present.Display, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	data := pageData{
		Display:  d,
		Title:    c.Title(),
		Subtitle: c.Subtitle(),
		Width:    opts.Width,
	}
	if len(c.Points) > 0 {
		img, err := c.PNG(Options{Width: opts.Width, Height: opts.Height, Scale: opts.Scale})
		if err != nil {
			return nil, err
		}
		data.Image = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img))
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
