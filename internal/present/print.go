package present

import (
	"fmt"
	"io"
	"strings"

	"EarnChart/internal/window"

	"github.com/fatih/color"
)

var (
	upColor   = color.New(color.FgGreen, color.Bold)
	downColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.FgHiBlack)
	headColor = color.New(color.FgCyan, color.Bold)
)

func colorFor(t Trend) *color.Color {
	if t.Positive() {
		return upColor
	}
	return downColor
}

// Print writes d as a terminal report.
func Print(w io.Writer, d Display) {
	headColor.Fprintf(w, "%s", d.Ticker)
	fmt.Fprint(w, "  ")
	colorFor(d.HeadlineTrend).Fprintf(w, "%s %s\n", d.HeadlineTrend.Indicator(), d.Headline)
	dimColor.Fprintln(w, d.Period)
	fmt.Fprintln(w, windowBar(d.Window))
	fmt.Fprintln(w)

	for _, c := range d.Cards {
		fmt.Fprintf(w, "  %-16s ", strings.ToUpper(c.Label))
		if c.Trend != nil {
			colorFor(*c.Trend).Fprintf(w, "%s %s", c.Trend.Indicator(), c.Value)
		} else {
			fmt.Fprint(w, c.Value)
		}
		if c.Sub != "" {
			dimColor.Fprintf(w, "  (%s)", c.Sub)
		}
		fmt.Fprintln(w)
	}
}

// windowBar renders the window toggles with the active one bracketed.
func windowBar(active window.Window) string {
	parts := make([]string, 0, len(window.Values()))
	for _, w := range window.Values() {
		if w == active {
			parts = append(parts, "["+w.String()+"]")
			continue
		}
		parts = append(parts, " "+w.String()+" ")
	}
	return strings.Join(parts, " ")
}
