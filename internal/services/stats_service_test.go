package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// fixtureRecords is a small birth table with known aggregates. Ages,
// codes and indicators are chosen so every transform has at least one
// non-trivial group.
func fixtureRecords() []models.BirthRecord {
	return []models.BirthRecord{
		{Department: "01", Month: 1, MotherAge: 30, FatherAge: 32, MotherNat: 1, FatherNat: 1, NameOrigin: 1, MarriageYear: 2015, ChildrenBorn: 1},
		{Department: "01", Month: 2, MotherAge: 25, FatherAge: 28, MotherNat: 1, FatherNat: 2, NameOrigin: 2, MotherRecYear: 2018, ChildrenBorn: 1},
		{Department: "2A", Month: 2, MotherAge: 30, FatherAge: 30, MotherNat: 2, FatherNat: 2, NameOrigin: 3, ChildrenBorn: 2},
		{Department: "75", Month: 12, MotherAge: 41, FatherAge: 45, MotherNat: 2, FatherNat: 1, NameOrigin: 9, FatherRecYear: 2019, ChildrenBorn: 1},
	}
}

func fixtureDepartments() []models.Department {
	ring := []geom.Coord{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	return []models.Department{
		models.NewDepartment("01", "Ain", [][]geom.Coord{ring}),
		models.NewDepartment("48", "Lozère", [][]geom.Coord{ring}),
	}
}

func TestCountByDepartment(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	rows := service.CountByDepartment(fixtureDepartments())
	require.Len(t, rows, 4)

	codes := make([]string, 0, len(rows))
	total := 0
	for _, row := range rows {
		codes = append(codes, row.Code)
		total += row.Births
	}
	assert.Equal(t, []string{"01", "2A", "48", "75"}, codes, "codes should be sorted")
	assert.Equal(t, len(fixtureRecords()), total, "every record lands in exactly one department")

	assert.Equal(t, 2, rows[0].Births)
	assert.Equal(t, "Ain", rows[0].Name)
	assert.InDelta(t, math.Log(2), float64(rows[0].Log), 1e-9)

	// Boundary-only department stays in the output with an undefined log.
	assert.Equal(t, "48", rows[2].Code)
	assert.Equal(t, "Lozère", rows[2].Name)
	assert.Equal(t, 0, rows[2].Births)
	assert.False(t, rows[2].Log.Valid())
}

func TestCountByMonth(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	rows := service.CountByMonth()
	require.Len(t, rows, 12)

	total := 0
	for i, row := range rows {
		assert.Equal(t, i+1, row.Month)
		total += row.Births
	}
	assert.Equal(t, len(fixtureRecords()), total)

	january := rows[0]
	assert.Equal(t, "January", january.Name)
	assert.Equal(t, 1, january.Births)
	assert.Equal(t, 1, january.Normalized)
	assert.Equal(t, "April 2018", january.Procreation)

	february := rows[1]
	assert.Equal(t, 2, february.Births)
	assert.Equal(t, 2, february.Normalized, "round(2/28*30)")

	march := rows[2]
	assert.Equal(t, 0, march.Births, "empty months stay in the output")
	assert.Equal(t, 0, march.Normalized)

	december := rows[11]
	assert.Equal(t, 1, december.Births)
	assert.Equal(t, "March 2019", december.Procreation)
}

func TestCountByMonthNormalization(t *testing.T) {
	// One birth per day gives every month the same 30-day normalized
	// count regardless of its length.
	records := make([]models.BirthRecord, 0, 59)
	for i := 0; i < 31; i++ {
		records = append(records, models.BirthRecord{Department: "01", Month: 1, ChildrenBorn: 1})
	}
	for i := 0; i < 28; i++ {
		records = append(records, models.BirthRecord{Department: "01", Month: 2, ChildrenBorn: 1})
	}

	rows := NewStatsService(records, 2019).CountByMonth()
	assert.Equal(t, 31, rows[0].Births)
	assert.Equal(t, 30, rows[0].Normalized)
	assert.Equal(t, 28, rows[1].Births)
	assert.Equal(t, 30, rows[1].Normalized)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{name: "january", year: 2019, month: 1, want: 31},
		{name: "february common year", year: 2019, month: 2, want: 28},
		{name: "february leap year", year: 2020, month: 2, want: 29},
		{name: "april", year: 2019, month: 4, want: 30},
		{name: "december", year: 2019, month: 12, want: 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysInMonth(tt.year, tt.month))
		})
	}
}

func TestAgeHeatmap(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	grid := service.AgeHeatmap()
	assert.Equal(t, []int{25, 30, 41}, grid.MotherAges)
	assert.Equal(t, []int{28, 30, 32, 45}, grid.FatherAges)
	require.Len(t, grid.Counts, 3)

	total := 0
	for _, row := range grid.Counts {
		require.Len(t, row, 4)
		for _, v := range row {
			total += v
		}
	}
	assert.Equal(t, len(fixtureRecords()), total)

	assert.Equal(t, 1, grid.Counts[0][0], "mother 25, father 28")
	assert.Equal(t, 1, grid.Counts[1][1], "mother 30, father 30")
	assert.Equal(t, 1, grid.Counts[1][2], "mother 30, father 32")
	assert.Equal(t, 1, grid.Counts[2][3], "mother 41, father 45")
	assert.Equal(t, 0, grid.Counts[0][3], "absent pairs hold zero")
	assert.Equal(t, 1, grid.Max())
}

func TestMeanPartnerAgeByAge(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	series := service.MeanPartnerAgeByAge()
	require.Len(t, series, 3)

	mother := series[0]
	assert.Equal(t, "Mother", mother.Label)
	require.Len(t, mother.Points, 3)
	assert.Equal(t, models.AgePoint{Age: 25, Value: 28}, mother.Points[0])
	assert.Equal(t, models.AgePoint{Age: 30, Value: 31}, mother.Points[1], "mean of fathers 32 and 30")
	assert.Equal(t, models.AgePoint{Age: 41, Value: 45}, mother.Points[2])

	father := series[1]
	assert.Equal(t, "Father", father.Label)
	require.Len(t, father.Points, 4)
	assert.Equal(t, models.AgePoint{Age: 28, Value: 25}, father.Points[0])
	assert.Equal(t, models.AgePoint{Age: 45, Value: 41}, father.Points[3])

	reference := series[2]
	assert.Equal(t, "Reference", reference.Label)
	require.Len(t, reference.Points, 6, "one zero point per distinct age of either parent")
	for _, p := range reference.Points {
		assert.Zero(t, p.Value)
	}
}

func TestNameOriginCounts(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	rows := service.NameOriginCounts()
	require.Len(t, rows, 3)

	// Indicator 9 falls back to Father; labels without births are omitted.
	assert.Equal(t, models.NameOriginCount{Choice: "Father", Births: 2}, rows[0])
	assert.Equal(t, models.NameOriginCount{Choice: "Mother", Births: 1}, rows[1])
	assert.Equal(t, models.NameOriginCount{Choice: "Father - Mother", Births: 1}, rows[2])
}

func TestNameNationalityCounts(t *testing.T) {
	records := append(fixtureRecords(),
		// Unknown nationality indicator: excluded from this table only.
		models.BirthRecord{Department: "01", Month: 3, MotherAge: 20, FatherAge: 20, MotherNat: 9, FatherNat: 1, NameOrigin: 1, ChildrenBorn: 1},
	)
	service := NewStatsService(records, 2019)

	rows := service.NameNationalityCounts()
	require.Len(t, rows, 4)

	total := 0
	for _, row := range rows {
		total += row.Births
	}
	assert.Equal(t, 4, total, "the unknown-indicator record is excluded")

	assert.Equal(t, models.NationalityNameCount{Nationalities: "French / French", Choice: "Father", Births: 1}, rows[0])
	assert.Equal(t, models.NationalityNameCount{Nationalities: "French / Foreign", Choice: "Father", Births: 1}, rows[1], "father-first pair label")
	assert.Equal(t, models.NationalityNameCount{Nationalities: "Foreign / French", Choice: "Mother", Births: 1}, rows[2])
	assert.Equal(t, models.NationalityNameCount{Nationalities: "Foreign / Foreign", Choice: "Father - Mother", Births: 1}, rows[3])
}

func TestNameUsageByAge(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	series := service.NameUsageByAge()
	require.Len(t, series, 3)

	sums := make(map[int]float64)
	for _, s := range series {
		for _, p := range s.Points {
			sums[p.Age] += p.Value
		}
	}
	require.NotEmpty(t, sums)
	for age, sum := range sums {
		assert.InDelta(t, 100, sum, 1e-9, "percentages at age %d should sum to 100", age)
	}

	// Age 30 is touched by two records: one Father choice (mother aged
	// 30) and one Father - Mother choice where both parents are 30,
	// which counts once.
	for _, s := range series {
		for _, p := range s.Points {
			if p.Age != 30 {
				continue
			}
			switch s.Label {
			case "Father", "Father - Mother":
				assert.InDelta(t, 50, p.Value, 1e-9, "label %s at age 30", s.Label)
			default:
				assert.Zero(t, p.Value)
			}
		}
	}
}

func TestRecognitionRateByAge(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	series := service.RecognitionRateByAge()
	require.Len(t, series, 2)

	mother := series[0]
	assert.Equal(t, "Mother", mother.Label)
	require.Len(t, mother.Points, 3)
	assert.Equal(t, models.AgePoint{Age: 25, Value: 100}, mother.Points[0], "recognition year counts")
	assert.Equal(t, models.AgePoint{Age: 30, Value: 50}, mother.Points[1], "marriage year counts, missing years do not")
	assert.Equal(t, models.AgePoint{Age: 41, Value: 0}, mother.Points[2], "father recognition does not count for the mother")

	father := series[1]
	assert.Equal(t, "Father", father.Label)
	require.Len(t, father.Points, 4)
	assert.Equal(t, models.AgePoint{Age: 28, Value: 0}, father.Points[0])
	assert.Equal(t, models.AgePoint{Age: 30, Value: 0}, father.Points[1])
	assert.Equal(t, models.AgePoint{Age: 32, Value: 100}, father.Points[2])
	assert.Equal(t, models.AgePoint{Age: 45, Value: 100}, father.Points[3])
}

func TestCountByMultipleBirth(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	rows := service.CountByMultipleBirth()
	require.Len(t, rows, 2)
	assert.Equal(t, models.MultipleBirthCount{Children: 1, Births: 3}, rows[0])
	assert.Equal(t, models.MultipleBirthCount{Children: 2, Births: 1}, rows[1])
}

func TestBuildSummary(t *testing.T) {
	service := NewStatsService(fixtureRecords(), 2019)

	summary := service.BuildSummary(fixtureDepartments())
	require.NotNil(t, summary)

	assert.Equal(t, 2019, summary.Year)
	assert.Equal(t, 4, summary.TotalBirths)
	assert.Len(t, summary.Departments, 4)
	assert.Len(t, summary.Months, 12)
	assert.NotEmpty(t, summary.Ages.Counts)
	assert.Len(t, summary.PartnerAges, 3)
	assert.NotEmpty(t, summary.NameOrigins)
	assert.NotEmpty(t, summary.NameNationality)
	assert.NotEmpty(t, summary.NameUsage)
	assert.Len(t, summary.Recognition, 2)
	assert.NotEmpty(t, summary.MultipleBirths)
}

func TestBuildSummaryEmptyRecords(t *testing.T) {
	summary := NewStatsService(nil, 2019).BuildSummary(fixtureDepartments())

	assert.Zero(t, summary.TotalBirths)
	require.Len(t, summary.Departments, 2, "boundary departments survive with zero births")
	for _, row := range summary.Departments {
		assert.Zero(t, row.Births)
		assert.False(t, row.Log.Valid())
	}
	assert.Len(t, summary.Months, 12)
	assert.Empty(t, summary.NameOrigins)
}
