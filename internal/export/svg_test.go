package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sdmsim/internal/analysis"
)

func TestPlotSVG(t *testing.T) {
	p := DefaultPlot()
	svg := p.SVG([]analysis.Point{{X: 1e-6, Y: 0}, {X: 1e-5, Y: 2}, {X: 0, Y: 5}, {X: 1e-4, Y: 1}})

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `width="640"`)
	assert.Equal(t, 2, strings.Count(svg, " L"), "non-positive x is dropped on a log axis")
}

func TestPlotSVG_TooFewPoints(t *testing.T) {
	assert.Empty(t, DefaultPlot().SVG([]analysis.Point{{X: 1, Y: 1}}))
	assert.Empty(t, DefaultPlot().SVG([]analysis.Point{{X: -1, Y: 1}, {X: 0, Y: 1}}))
}

func TestWriteSpectrum(t *testing.T) {
	var buf bytes.Buffer
	s := analysis.Spectrum{Radius: []float64{1e-6, 1e-5, 1e-4}, Density: []float64{0, 1, 0}}
	require.NoError(t, DefaultPlot().WriteSpectrum(&buf, s))
	assert.Contains(t, buf.String(), "</svg>")

	err := DefaultPlot().WriteSpectrum(&buf, analysis.Spectrum{})
	assert.Error(t, err)
}
