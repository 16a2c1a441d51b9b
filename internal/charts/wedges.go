package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// labelThreshold is the smallest wedge fraction that still gets an
// in-chart percentage label; smaller wedges rely on the legend.
const labelThreshold = 0.02

// NameOriginPie draws the last-name origin distribution as a pie.
func NameOriginPie(rows []models.NameOriginCount) (*plot.Plot, error) {
	total := 0
	for _, row := range rows {
		total += row.Births
	}
	if total == 0 {
		return nil, fmt.Errorf("no name-origin rows to draw")
	}

	p := newPlot("Last name transmission")

	sweep := 0.0
	for i, row := range rows {
		fraction := float64(row.Births) / float64(total)
		next := sweep + fraction*2*math.Pi

		wedge, err := newWedge(0, 1, sweep, next, seriesColor(i))
		if err != nil {
			return nil, fmt.Errorf("error drawing %s wedge: %w", row.Choice, err)
		}
		p.Add(wedge)
		p.Legend.Add(fmt.Sprintf("%s (%.1f%%)", row.Choice, fraction*100), wedge)

		if fraction >= labelThreshold {
			if err := addWedgeLabel(p, 0.65, (sweep+next)/2, fmt.Sprintf("%.1f%%", fraction*100)); err != nil {
				return nil, err
			}
		}
		sweep = next
	}

	frameWedgePlot(p)
	return p, nil
}

// NameNationalitySunburst draws the two-ring wedge layout: nationality
// pairs inside, the name-origin split of each pair outside.
func NameNationalitySunburst(rows []models.NationalityNameCount) (*plot.Plot, error) {
	total := 0
	for _, row := range rows {
		total += row.Births
	}
	if total == 0 {
		return nil, fmt.Errorf("no nationality rows to draw")
	}

	// Preserve the incoming order: rows arrive grouped by pair.
	pairOrder := make([]string, 0, 4)
	pairTotals := make(map[string]int)
	for _, row := range rows {
		if _, exists := pairTotals[row.Nationalities]; !exists {
			pairOrder = append(pairOrder, row.Nationalities)
		}
		pairTotals[row.Nationalities] += row.Births
	}

	p := newPlot("Last name choice by parents' nationality")

	sweep := 0.0
	rowIndex := 0
	for pairIndex, pair := range pairOrder {
		pairFraction := float64(pairTotals[pair]) / float64(total)
		pairEnd := sweep + pairFraction*2*math.Pi
		base := seriesColor(pairIndex)

		inner, err := newWedge(0, 0.55, sweep, pairEnd, base)
		if err != nil {
			return nil, fmt.Errorf("error drawing %s wedge: %w", pair, err)
		}
		p.Add(inner)
		p.Legend.Add(fmt.Sprintf("%s (%.1f%%)", pair, pairFraction*100), inner)

		// The outer ring subdivides this pair's angular extent.
		choiceSweep := sweep
		choiceIndex := 0
		for ; rowIndex < len(rows) && rows[rowIndex].Nationalities == pair; rowIndex++ {
			row := rows[rowIndex]
			fraction := float64(row.Births) / float64(total)
			choiceEnd := choiceSweep + fraction*2*math.Pi

			shade := lighten(base, 0.2+0.15*float64(choiceIndex))
			choiceIndex++
			outer, err := newWedge(0.6, 1, choiceSweep, choiceEnd, shade)
			if err != nil {
				return nil, fmt.Errorf("error drawing %s / %s wedge: %w", pair, row.Choice, err)
			}
			p.Add(outer)

			if fraction >= labelThreshold {
				if err := addWedgeLabel(p, 0.8, (choiceSweep+choiceEnd)/2, row.Choice); err != nil {
					return nil, err
				}
			}
			choiceSweep = choiceEnd
		}
		sweep = pairEnd
	}

	frameWedgePlot(p)
	return p, nil
}

// newWedge builds one filled annular sector with a white outline.
func newWedge(innerRadius, outerRadius, from, to float64, fill color.RGBA) (*plotter.Polygon, error) {
	polygon, err := plotter.NewPolygon(wedgeRing(innerRadius, outerRadius, from, to))
	if err != nil {
		return nil, err
	}
	polygon.Color = fill
	polygon.LineStyle.Color = color.White
	polygon.LineStyle.Width = vg.Points(1)
	return polygon, nil
}

// wedgeRing traces the closed outline of an annular sector. Sweeps are
// measured clockwise from twelve o'clock.
func wedgeRing(innerRadius, outerRadius, from, to float64) plotter.XYs {
	steps := int(math.Ceil((to - from) / (math.Pi / 32)))
	if steps < 2 {
		steps = 2
	}

	xys := make(plotter.XYs, 0, 2*steps+3)
	for i := 0; i <= steps; i++ {
		sweep := from + (to-from)*float64(i)/float64(steps)
		xys = append(xys, plotter.XY{X: outerRadius * math.Sin(sweep), Y: outerRadius * math.Cos(sweep)})
	}
	if innerRadius > 0 {
		for i := steps; i >= 0; i-- {
			sweep := from + (to-from)*float64(i)/float64(steps)
			xys = append(xys, plotter.XY{X: innerRadius * math.Sin(sweep), Y: innerRadius * math.Cos(sweep)})
		}
	} else {
		xys = append(xys, plotter.XY{X: 0, Y: 0})
	}
	return append(xys, xys[0])
}

// addWedgeLabel places one text label at the given radius and
// mid-sweep angle.
func addWedgeLabel(p *plot.Plot, radius, sweep float64, text string) error {
	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: radius * math.Sin(sweep), Y: radius * math.Cos(sweep)}},
		Labels: []string{text},
	})
	if err != nil {
		return fmt.Errorf("error drawing wedge label: %w", err)
	}
	p.Add(label)
	return nil
}

// frameWedgePlot squares the viewport around the unit circle and drops
// the axes.
func frameWedgePlot(p *plot.Plot) {
	p.X.Min = -1.4
	p.X.Max = 1.4
	p.Y.Min = -1.4
	p.Y.Max = 1.4
	p.HideAxes()
}

// lighten blends a color toward white by the given fraction.
func lighten(c color.RGBA, fraction float64) color.RGBA {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*fraction),
		G: uint8(float64(c.G) + (255-float64(c.G))*fraction),
		B: uint8(float64(c.B) + (255-float64(c.B))*fraction),
		A: 255,
	}
}
