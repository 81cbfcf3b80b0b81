package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/sdmsim/internal/metrics"
	"github.com/san-kum/sdmsim/internal/sim"
)

const sparkWidth = 40

// Summary renders the outcome of one run as a bordered panel.
func Summary(name, runID string, elapsed time.Duration, result *sim.Result) string {
	lines := []string{
		Title.Render(name) + "  " + Subtle.Render(runID),
		"",
		row("elapsed", elapsed.Round(time.Millisecond).String()),
		row("ticks", fmt.Sprintf("%d", result.Ticks)),
		row("steps", fmt.Sprintf("%d", result.Steps)),
		row("nulls", fmt.Sprintf("%d", result.Nulls)),
	}

	if n := len(result.Diagnostics); n > 0 {
		first, last := result.Diagnostics[0], result.Diagnostics[n-1]
		lines = append(lines,
			"",
			row("nsupers", fmt.Sprintf("%d -> %d", first.Nsupers, last.Nsupers)),
			row("numconc", fmt.Sprintf("%.4e -> %.4e m^-3", first.NumConc, last.NumConc)),
			row("mean radius", fmt.Sprintf("%.4e -> %.4e m", first.MeanRadius, last.MeanRadius)),
			row("temp", fmt.Sprintf("%.3f -> %.3f K", first.Temp, last.Temp)),
			"",
			row("numconc", Sparkline(series(result.Diagnostics, func(d metrics.Diagnostics) float64 { return d.NumConc }), sparkWidth)),
			row("mean radius", Sparkline(series(result.Diagnostics, func(d metrics.Diagnostics) float64 { return d.MeanRadius }), sparkWidth)),
		)
	}

	if len(result.Metrics) > 0 {
		names := make([]string, 0, len(result.Metrics))
		for k := range result.Metrics {
			names = append(names, k)
		}
		sort.Strings(names)

		lines = append(lines, "")
		for _, k := range names {
			lines = append(lines, row(k, fmt.Sprintf("%.6g", result.Metrics[k])))
		}
	}

	return Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// EnsembleSummary renders the spread of the final number concentration
// and mean radius over ensemble members.
func EnsembleSummary(name string, results []*sim.Result) string {
	var numconc, radius []float64
	for _, r := range results {
		if n := len(r.Diagnostics); n > 0 {
			numconc = append(numconc, r.Diagnostics[n-1].NumConc)
			radius = append(radius, r.Diagnostics[n-1].MeanRadius)
		}
	}

	lines := []string{
		Title.Render(name) + "  " + Subtle.Render(fmt.Sprintf("%d members", len(results))),
		"",
		row("numconc", spread(numconc)),
		row("mean radius", spread(radius)),
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

func series(ds []metrics.Diagnostics, f func(metrics.Diagnostics) float64) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = f(d)
	}
	return out
}

func spread(xs []float64) string {
	if len(xs) == 0 {
		return "-"
	}
	if len(xs) == 1 {
		return fmt.Sprintf("%.4e", xs[0])
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return fmt.Sprintf("%.4e ± %.2e", mean, std)
}
