package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/sdmsim/internal/metrics"
)

var header = []string{
	"tick", "time", "gridbox", "nsupers", "total_xi", "numconc", "massconc",
	"mean_radius", "max_radius", "temp", "press", "qvap", "qcond", "supersat",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func record(d metrics.Diagnostics) []string {
	return []string{
		strconv.FormatUint(d.Tick, 10),
		formatFloat(d.Time),
		strconv.Itoa(d.Gridbox),
		strconv.Itoa(d.Nsupers),
		formatFloat(d.TotalXi),
		formatFloat(d.NumConc),
		formatFloat(d.MassConc),
		formatFloat(d.MeanRadius),
		formatFloat(d.MaxRadius),
		formatFloat(d.Temp),
		formatFloat(d.Press),
		formatFloat(d.Qvap),
		formatFloat(d.Qcond),
		formatFloat(d.Supersat),
	}
}

func parseRecord(rec []string) (metrics.Diagnostics, error) {
	var d metrics.Diagnostics
	if len(rec) != len(header) {
		return d, fmt.Errorf("want %d fields, got %d", len(header), len(rec))
	}

	var err error
	if d.Tick, err = strconv.ParseUint(rec[0], 10, 64); err != nil {
		return d, err
	}
	if d.Gridbox, err = strconv.Atoi(rec[2]); err != nil {
		return d, err
	}
	if d.Nsupers, err = strconv.Atoi(rec[3]); err != nil {
		return d, err
	}

	floats := []struct {
		col int
		dst *float64
	}{
		{1, &d.Time}, {4, &d.TotalXi}, {5, &d.NumConc}, {6, &d.MassConc},
		{7, &d.MeanRadius}, {8, &d.MaxRadius}, {9, &d.Temp}, {10, &d.Press},
		{11, &d.Qvap}, {12, &d.Qcond}, {13, &d.Supersat},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(rec[f.col], 64); err != nil {
			return d, fmt.Errorf("%s: %w", header[f.col], err)
		}
	}
	return d, nil
}

// GridboxWriter is a sim.Observer streaming per-gridbox diagnostics as CSV.
type GridboxWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewGridboxWriter(w io.Writer) *GridboxWriter {
	return &GridboxWriter{w: csv.NewWriter(w)}
}

func (g *GridboxWriter) Observe(_ uint64, diags []metrics.Diagnostics) error {
	if !g.wroteHeader {
		if err := g.w.Write(header); err != nil {
			return err
		}
		g.wroteHeader = true
	}
	for _, d := range diags {
		if err := g.w.Write(record(d)); err != nil {
			return err
		}
	}
	g.w.Flush()
	return g.w.Error()
}

// WriteDiagnostics writes diags as CSV with a header row.
func WriteDiagnostics(w io.Writer, diags []metrics.Diagnostics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range diags {
		if err := cw.Write(record(d)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
