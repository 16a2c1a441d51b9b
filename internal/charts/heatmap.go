package charts

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// ageGrid adapts an AgeGrid to the plotter grid interface. Columns are
// father ages, rows are mother ages.
type ageGrid struct {
	grid models.AgeGrid
}

func (g ageGrid) Dims() (c, r int) { return len(g.grid.FatherAges), len(g.grid.MotherAges) }
func (g ageGrid) Z(c, r int) float64 {
	return float64(g.grid.Counts[r][c])
}
func (g ageGrid) X(c int) float64 { return float64(g.grid.FatherAges[c]) }
func (g ageGrid) Y(r int) float64 { return float64(g.grid.MotherAges[r]) }

// AgeHeatmap draws the birth-count heat map over the parents' ages.
func AgeHeatmap(grid models.AgeGrid) (*plot.Plot, error) {
	p := newPlot("Births by parents' ages")
	p.X.Label.Text = "Father's age"
	p.Y.Label.Text = "Mother's age"

	heatMap := plotter.NewHeatMap(ageGrid{grid: grid}, palette.Heat(12, 1))
	p.Add(heatMap)

	return p, nil
}
