// Package export renders spectra and time series as standalone SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/sdmsim/internal/analysis"
)

type Plot struct {
	Width, Height int
	Stroke        string
	LogX          bool
}

func DefaultPlot() Plot {
	return Plot{Width: 640, Height: 360, Stroke: "#00ccff", LogX: true}
}

// SVG draws points as a single polyline. With LogX the x axis is ln X and
// points with X <= 0 are dropped. Fewer than two drawable points yield an
// empty string.
func (p Plot) SVG(points []analysis.Point) string {
	xy := make([]analysis.Point, 0, len(points))
	for _, pt := range points {
		x := pt.X
		if p.LogX {
			if !(x > 0) {
				continue
			}
			x = math.Log(x)
		}
		xy = append(xy, analysis.Point{X: x, Y: pt.Y})
	}
	if len(xy) < 2 {
		return ""
	}

	minX, maxX := xy[0].X, xy[0].X
	minY, maxY := xy[0].Y, xy[0].Y
	for _, pt := range xy {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		p.Width, p.Height, p.Width, p.Height, p.Stroke)

	for i, pt := range xy {
		x := (pt.X - minX) / rangeX * float64(p.Width)
		y := float64(p.Height) - (pt.Y-minY)/rangeY*float64(p.Height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}

// WriteSpectrum writes the SVG of s to w.
func (p Plot) WriteSpectrum(w io.Writer, s analysis.Spectrum) error {
	svg := p.SVG(s.Points())
	if svg == "" {
		return fmt.Errorf("spectrum has fewer than two drawable points")
	}
	_, err := io.WriteString(w, svg)
	return err
}
