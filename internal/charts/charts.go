// Package charts renders the dashboard figures from the materialized
// summary tables. Every function is stateless: it maps one table to a
// gonum/plot figure that the caller writes out as SVG or PNG.
package charts

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Series colors shared across the figures, in legend order.
var (
	colorSteelBlue   = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	colorDarkGreen   = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	colorDarkRed     = color.RGBA{R: 139, G: 0, B: 0, A: 255}
	colorOrange      = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	colorRoyalBlue   = color.RGBA{R: 65, G: 105, B: 225, A: 255}
	colorCrimson     = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	colorGray        = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colorLightGray   = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	colorForestGreen = color.RGBA{R: 34, G: 139, B: 34, A: 255}
)

// seriesColors is the categorical cycle for multi-line and wedge
// figures.
var seriesColors = []color.RGBA{
	colorSteelBlue,
	colorDarkRed,
	colorForestGreen,
	colorOrange,
	colorRoyalBlue,
	colorCrimson,
	colorDarkGreen,
	colorGray,
}

// seriesColor returns the color for the i-th series, cycling.
func seriesColor(i int) color.RGBA {
	return seriesColors[i%len(seriesColors)]
}

// newPlot creates a titled plot with the shared title styling.
func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	return p
}

// WriteSVG renders a figure as SVG onto w.
func WriteSVG(p *plot.Plot, width, height vg.Length, w io.Writer) error {
	writerTo, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return fmt.Errorf("error rendering SVG: %w", err)
	}
	if _, err := writerTo.WriteTo(w); err != nil {
		return fmt.Errorf("error writing SVG: %w", err)
	}
	return nil
}

// SavePNG writes a figure as a PNG file.
func SavePNG(p *plot.Plot, width, height vg.Length, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("error saving %s: %w", path, err)
	}
	return nil
}
