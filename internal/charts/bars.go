package charts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// BarValue selects which count series the month bars show.
type BarValue string

// BarAxis selects which month labels run along the category axis.
type BarAxis string

const (
	BarAbsolute   BarValue = "absolute"
	BarNormalized BarValue = "normalized"

	AxisBirths       BarAxis = "births"
	AxisProcreations BarAxis = "procreations"
)

// barColumns maps each value selector onto the column it reads.
var barColumns = map[BarValue]func(models.MonthCount) float64{
	BarAbsolute:   func(row models.MonthCount) float64 { return float64(row.Births) },
	BarNormalized: func(row models.MonthCount) float64 { return float64(row.Normalized) },
}

// barLabels maps each axis selector onto the label column.
var barLabels = map[BarAxis]func(models.MonthCount) string{
	AxisBirths:       func(row models.MonthCount) string { return row.Name },
	AxisProcreations: func(row models.MonthCount) string { return row.Procreation },
}

// ParseBarValue resolves a value selector, defaulting to absolute.
func ParseBarValue(value string) BarValue {
	v := BarValue(strings.ToLower(value))
	if _, exists := barColumns[v]; exists {
		return v
	}
	return BarAbsolute
}

// ParseBarAxis resolves an axis selector, defaulting to birth months.
func ParseBarAxis(value string) BarAxis {
	a := BarAxis(strings.ToLower(value))
	if _, exists := barLabels[a]; exists {
		return a
	}
	return AxisBirths
}

// MonthBars draws the births-per-month bar chart for one combination of
// the value and axis selectors.
func MonthBars(months []models.MonthCount, value BarValue, axis BarAxis) (*plot.Plot, error) {
	column := barColumns[value]
	if column == nil {
		column = barColumns[BarAbsolute]
	}
	label := barLabels[axis]
	if label == nil {
		label = barLabels[AxisBirths]
	}

	title := "Births by month"
	if axis == AxisProcreations {
		title = "Births by estimated procreation month"
	}

	p := newPlot(title)
	p.Y.Label.Text = "Births"

	values := make(plotter.Values, len(months))
	labels := make([]string, len(months))
	for i, row := range months {
		values[i] = column(row)
		labels[i] = label(row)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("error drawing month bars: %w", err)
	}
	bars.Color = colorSteelBlue
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter

	if err := addBarValueLabels(p, values); err != nil {
		return nil, err
	}

	p.Y.Min = 0
	return p, nil
}

// MultipleBirthBars draws the deliveries-by-children-count bar chart.
func MultipleBirthBars(rows []models.MultipleBirthCount) (*plot.Plot, error) {
	p := newPlot("Births by number of children delivered")
	p.X.Label.Text = "Children born"
	p.Y.Label.Text = "Births"

	values := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		values[i] = float64(row.Births)
		labels[i] = strconv.Itoa(row.Children)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, fmt.Errorf("error drawing multiple-birth bars: %w", err)
	}
	bars.Color = colorDarkRed
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)

	if err := addBarValueLabels(p, values); err != nil {
		return nil, err
	}

	p.Y.Min = 0
	return p, nil
}

// addBarValueLabels prints each bar's value just above it.
func addBarValueLabels(p *plot.Plot, values plotter.Values) error {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	for i, v := range values {
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: float64(i), Y: v + max*0.02}},
			Labels: []string{strconv.FormatFloat(v, 'f', -1, 64)},
		})
		if err != nil {
			return fmt.Errorf("error drawing bar labels: %w", err)
		}
		p.Add(label)
	}
	return nil
}
