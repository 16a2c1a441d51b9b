package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// referenceLabel marks the baseline series of the partner-age chart.
const referenceLabel = "Reference"

// PartnerAgeLines draws the mean partner age per own age, one line per
// parent role plus the dashed zero baseline.
func PartnerAgeLines(series []models.AgeSeries) (*plot.Plot, error) {
	p := newPlot("Mean partner age by own age")
	p.X.Label.Text = "Own age"
	p.Y.Label.Text = "Mean partner age"

	for i, s := range series {
		c := seriesColor(i)
		dashed := false
		if s.Label == referenceLabel {
			c = colorGray
			dashed = true
		}
		if err := addLine(p, s.Label, s.Points, c, dashed); err != nil {
			return nil, err
		}
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// NameUsageLines draws the percentage each name-origin label takes
// among births where either parent has a given age.
func NameUsageLines(series []models.AgeSeries) (*plot.Plot, error) {
	p := newPlot("Last name choice by parent age")
	p.X.Label.Text = "Parent age"
	p.Y.Label.Text = "Usage (%)"

	for i, s := range series {
		if err := addLine(p, s.Label, s.Points, seriesColor(i), false); err != nil {
			return nil, err
		}
	}

	p.Add(plotter.NewGrid())
	p.Y.Min = 0
	p.Y.Max = 100
	p.Legend.Top = true
	return p, nil
}

// RecognitionLines draws the share of births carrying a recognition or
// marriage year, per parent role and age.
func RecognitionLines(series []models.AgeSeries) (*plot.Plot, error) {
	p := newPlot("Recognition or marriage rate by parent age")
	p.X.Label.Text = "Parent age"
	p.Y.Label.Text = "Share of births (%)"

	for i, s := range series {
		if err := addLine(p, s.Label, s.Points, seriesColor(i), false); err != nil {
			return nil, err
		}
	}

	p.Add(plotter.NewGrid())
	p.Y.Min = 0
	p.Y.Max = 100
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// addLine plots one age series and registers it in the legend.
func addLine(p *plot.Plot, label string, points []models.AgePoint, c color.RGBA, dashed bool) error {
	line, err := plotter.NewLine(agePoints(points))
	if err != nil {
		return fmt.Errorf("error drawing %s line: %w", label, err)
	}
	line.Color = c
	line.Width = vg.Points(2)
	if dashed {
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

// agePoints converts an age series to plotter points.
func agePoints(points []models.AgePoint) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, point := range points {
		xys[i].X = float64(point.Age)
		xys[i].Y = point.Value
	}
	return xys
}
