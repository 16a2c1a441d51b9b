package charts

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/twpayne/go-geom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// Scale selects which department series colors the map.
type Scale string

const (
	ScaleAbsolute    Scale = "absolute"
	ScaleLogarithmic Scale = "logarithmic"
)

// scaleColumns maps each selector value to the column it reads.
var scaleColumns = map[Scale]func(models.DepartmentCount) float64{
	ScaleAbsolute:    func(row models.DepartmentCount) float64 { return float64(row.Births) },
	ScaleLogarithmic: func(row models.DepartmentCount) float64 { return float64(row.Log) },
}

// ParseScale resolves a selector value, falling back to the absolute
// series for anything unknown.
func ParseScale(value string) Scale {
	scale := Scale(strings.ToLower(value))
	if _, exists := scaleColumns[scale]; exists {
		return scale
	}
	return ScaleAbsolute
}

// Choropleth draws the department map colored by the selected births
// series. Departments without a value, or with an undefined log value,
// get a neutral fill.
func Choropleth(departments []models.Department, counts []models.DepartmentCount, scale Scale) (*plot.Plot, error) {
	column := scaleColumns[scale]
	if column == nil {
		column = scaleColumns[ScaleAbsolute]
	}

	values := make(map[string]float64, len(counts)) // map[department_code]series value
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, row := range counts {
		v := column(row)
		values[row.Code] = v
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min > max {
		min, max = 0, 1
	}
	if min == max {
		max = min + 1
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(min)
	colors.SetMax(max)

	p := newPlot(fmt.Sprintf("Births by department (%s)", scale))

	labelPoints := make(plotter.XYs, 0, len(departments))
	labelTexts := make([]string, 0, len(departments))

	for i := range departments {
		department := &departments[i]

		fill := seriesFill(values, department.Code, colors.At)
		for _, ring := range department.Rings {
			polygon, err := plotter.NewPolygon(ringXYs(ring))
			if err != nil {
				return nil, fmt.Errorf("error drawing department %s: %w", department.Code, err)
			}
			polygon.Color = fill
			polygon.LineStyle.Color = colorLightGray
			polygon.LineStyle.Width = vg.Points(0.5)
			p.Add(polygon)
		}

		x, y := department.LabelPoint()
		labelPoints = append(labelPoints, plotter.XY{X: x, Y: y})
		labelTexts = append(labelTexts, department.Code)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    labelPoints,
		Labels: labelTexts,
	})
	if err != nil {
		return nil, fmt.Errorf("error drawing department labels: %w", err)
	}
	p.Add(labels)

	bounds := models.DepartmentBounds(departments)
	if !bounds.IsEmpty() {
		p.X.Min = bounds.Min(0)
		p.X.Max = bounds.Max(0)
		p.Y.Min = bounds.Min(1)
		p.Y.Max = bounds.Max(1)
	}
	p.HideAxes()

	return p, nil
}

// seriesFill resolves a department's fill color from the color map,
// falling back to neutral for missing or undefined values.
func seriesFill(values map[string]float64, code string, at func(float64) (color.Color, error)) color.Color {
	v, exists := values[code]
	if !exists || math.IsNaN(v) {
		return colorLightGray
	}
	c, err := at(v)
	if err != nil {
		return colorLightGray
	}
	return c
}

// ringXYs converts one coordinate ring into plotter points.
func ringXYs(ring []geom.Coord) plotter.XYs {
	xys := make(plotter.XYs, 0, len(ring))
	for _, c := range ring {
		if len(c) < 2 {
			continue
		}
		xys = append(xys, plotter.XY{X: c[0], Y: c[1]})
	}
	return xys
}
