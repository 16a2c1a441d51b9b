package charts

import (
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// Figure is one renderable chart variant. Key identifies the variant:
// the chart name followed by its selector values, colon-separated.
type Figure struct {
	Key           string
	Build         func() (*plot.Plot, error)
	Width, Height vg.Length
}

// FigureKey joins a chart name and its selector values into the variant
// key used throughout the catalog.
func FigureKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// Catalog enumerates every figure the dashboard and the batch renderer
// produce: one variant per selector combination for the department map
// and the month bars, one figure for everything else.
func Catalog(summary *models.Summary, departments []models.Department) []Figure {
	figures := make([]Figure, 0, 13)

	for _, scale := range []Scale{ScaleAbsolute, ScaleLogarithmic} {
		figures = append(figures, Figure{
			Key:    FigureKey("departments", string(scale)),
			Build:  func() (*plot.Plot, error) { return Choropleth(departments, summary.Departments, scale) },
			Width:  9 * vg.Inch,
			Height: 8 * vg.Inch,
		})
	}

	for _, value := range []BarValue{BarAbsolute, BarNormalized} {
		for _, axis := range []BarAxis{AxisBirths, AxisProcreations} {
			figures = append(figures, Figure{
				Key:    FigureKey("months", string(value), string(axis)),
				Build:  func() (*plot.Plot, error) { return MonthBars(summary.Months, value, axis) },
				Width:  8 * vg.Inch,
				Height: 5 * vg.Inch,
			})
		}
	}

	figures = append(figures,
		Figure{
			Key:    "ages",
			Build:  func() (*plot.Plot, error) { return AgeHeatmap(summary.Ages) },
			Width:  8 * vg.Inch,
			Height: 6 * vg.Inch,
		},
		Figure{
			Key:    "partner-ages",
			Build:  func() (*plot.Plot, error) { return PartnerAgeLines(summary.PartnerAges) },
			Width:  8 * vg.Inch,
			Height: 5 * vg.Inch,
		},
		Figure{
			Key:    "name-origins",
			Build:  func() (*plot.Plot, error) { return NameOriginPie(summary.NameOrigins) },
			Width:  7 * vg.Inch,
			Height: 6 * vg.Inch,
		},
		Figure{
			Key:    "name-nationality",
			Build:  func() (*plot.Plot, error) { return NameNationalitySunburst(summary.NameNationality) },
			Width:  8 * vg.Inch,
			Height: 7 * vg.Inch,
		},
		Figure{
			Key:    "name-usage",
			Build:  func() (*plot.Plot, error) { return NameUsageLines(summary.NameUsage) },
			Width:  8 * vg.Inch,
			Height: 5 * vg.Inch,
		},
		Figure{
			Key:    "recognition",
			Build:  func() (*plot.Plot, error) { return RecognitionLines(summary.Recognition) },
			Width:  8 * vg.Inch,
			Height: 5 * vg.Inch,
		},
		Figure{
			Key:    "multiple-births",
			Build:  func() (*plot.Plot, error) { return MultipleBirthBars(summary.MultipleBirths) },
			Width:  7 * vg.Inch,
			Height: 5 * vg.Inch,
		},
	)

	return figures
}
