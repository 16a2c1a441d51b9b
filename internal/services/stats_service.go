package services

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// StatsService computes the summary tables behind every chart. All
// transforms are stateless over the loaded records and are materialized
// once at startup.
type StatsService struct {
	records []models.BirthRecord
	year    int
}

// NewStatsService creates a new StatsService instance
func NewStatsService(records []models.BirthRecord, year int) *StatsService {
	return &StatsService{
		records: records,
		year:    year,
	}
}

// BuildSummary materializes every table in one pass over the service's
// transforms.
func (s *StatsService) BuildSummary(departments []models.Department) *models.Summary {
	return &models.Summary{
		Year:            s.year,
		TotalBirths:     len(s.records),
		Departments:     s.CountByDepartment(departments),
		Months:          s.CountByMonth(),
		Ages:            s.AgeHeatmap(),
		PartnerAges:     s.MeanPartnerAgeByAge(),
		NameOrigins:     s.NameOriginCounts(),
		NameNationality: s.NameNationalityCounts(),
		NameUsage:       s.NameUsageByAge(),
		Recognition:     s.RecognitionRateByAge(),
		MultipleBirths:  s.CountByMultipleBirth(),
	}
}

// CountByDepartment counts births per department over the union of
// codes observed in the birth table and codes present in the boundary
// table. Boundary codes without births stay in the output with count 0;
// their log value is NaN.
func (s *StatsService) CountByDepartment(departments []models.Department) []models.DepartmentCount {
	counts := make(map[string]int) // map[department_code]births
	for i := range s.records {
		counts[s.records[i].Department]++
	}

	names := make(map[string]string, len(departments))
	for i := range departments {
		code := departments[i].Code
		names[code] = departments[i].Name
		if _, exists := counts[code]; !exists {
			counts[code] = 0
		}
	}

	codes := maps.Keys(counts)
	slices.Sort(codes)

	rows := make([]models.DepartmentCount, 0, len(codes))
	for _, code := range codes {
		count := counts[code]
		logValue := math.NaN()
		if count > 0 {
			logValue = math.Log(float64(count))
		}
		rows = append(rows, models.DepartmentCount{
			Code:   code,
			Name:   names[code],
			Births: count,
			Log:    models.NullableFloat(logValue),
		})
	}
	return rows
}

// CountByMonth counts births per calendar month. Every month of the
// year is present even when empty; Normalized scales the raw count to a
// 30-day month for the reference year.
func (s *StatsService) CountByMonth() []models.MonthCount {
	counts := make(map[int]int) // map[month]births
	for i := range s.records {
		counts[s.records[i].Month]++
	}

	rows := make([]models.MonthCount, 0, 12)
	for month := 1; month <= 12; month++ {
		count := counts[month]
		days := daysInMonth(s.year, month)
		name := models.MonthNames[month]
		rows = append(rows, models.MonthCount{
			Month:       month,
			Name:        name,
			Births:      count,
			Normalized:  int(math.Round(float64(count) / float64(days) * 30)),
			Procreation: models.ProcreationMonths[name],
		})
	}
	return rows
}

// daysInMonth returns the day count of a calendar month in the given
// year. Day 0 of the next month is the last day of this one.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AgeHeatmap cross-tabulates birth counts by the parents' ages. The
// grid is dense: absent age pairs hold zero.
func (s *StatsService) AgeHeatmap() models.AgeGrid {
	type agePair struct {
		mother int
		father int
	}

	counts := make(map[agePair]int)
	motherSet := make(map[int]bool)
	fatherSet := make(map[int]bool)
	for i := range s.records {
		pair := agePair{mother: s.records[i].MotherAge, father: s.records[i].FatherAge}
		counts[pair]++
		motherSet[pair.mother] = true
		fatherSet[pair.father] = true
	}

	motherAges := maps.Keys(motherSet)
	slices.Sort(motherAges)
	fatherAges := maps.Keys(fatherSet)
	slices.Sort(fatherAges)

	motherIndex := make(map[int]int, len(motherAges))
	for i, age := range motherAges {
		motherIndex[age] = i
	}
	fatherIndex := make(map[int]int, len(fatherAges))
	for i, age := range fatherAges {
		fatherIndex[age] = i
	}

	grid := make([][]int, len(motherAges))
	for i := range grid {
		grid[i] = make([]int, len(fatherAges))
	}
	for pair, count := range counts {
		grid[motherIndex[pair.mother]][fatherIndex[pair.father]] = count
	}

	return models.AgeGrid{
		FatherAges: fatherAges,
		MotherAges: motherAges,
		Counts:     grid,
	}
}

// MeanPartnerAgeByAge computes, for each parent role and each observed
// own age, the mean age of the partner. A flat zero series over the
// union of ages is appended as the chart baseline.
func (s *StatsService) MeanPartnerAgeByAge() []models.AgeSeries {
	motherSums := make(map[int]int) // map[mother_age]sum of father ages
	motherCounts := make(map[int]int)
	fatherSums := make(map[int]int) // map[father_age]sum of mother ages
	fatherCounts := make(map[int]int)

	for i := range s.records {
		r := &s.records[i]
		motherSums[r.MotherAge] += r.FatherAge
		motherCounts[r.MotherAge]++
		fatherSums[r.FatherAge] += r.MotherAge
		fatherCounts[r.FatherAge]++
	}

	series := []models.AgeSeries{
		{Label: string(models.ParentMother), Points: meanPoints(motherSums, motherCounts)},
		{Label: string(models.ParentFather), Points: meanPoints(fatherSums, fatherCounts)},
	}

	zero := make([]models.AgePoint, 0, len(motherCounts)+len(fatherCounts))
	for _, age := range s.ageUnion() {
		zero = append(zero, models.AgePoint{Age: age, Value: 0})
	}
	series = append(series, models.AgeSeries{Label: "Reference", Points: zero})
	return series
}

// meanPoints turns parallel sum/count maps into an age-sorted series of
// means. Ages only appear when they were observed, so counts are never
// zero.
func meanPoints(sums, counts map[int]int) []models.AgePoint {
	ages := maps.Keys(counts)
	slices.Sort(ages)
	points := make([]models.AgePoint, 0, len(ages))
	for _, age := range ages {
		points = append(points, models.AgePoint{
			Age:   age,
			Value: float64(sums[age]) / float64(counts[age]),
		})
	}
	return points
}

// NameOriginCounts counts births per last-name origin label, in
// indicator order. Labels without a single birth are omitted.
func (s *StatsService) NameOriginCounts() []models.NameOriginCount {
	counts := make(map[string]int) // map[choice_label]births
	for i := range s.records {
		counts[models.NameOriginLabel(s.records[i].NameOrigin)]++
	}

	rows := make([]models.NameOriginCount, 0, len(models.NameOriginOrder))
	for _, label := range models.NameOriginOrder {
		if count, exists := counts[label]; exists {
			rows = append(rows, models.NameOriginCount{Choice: label, Births: count})
		}
	}
	return rows
}

// NameNationalityCounts cross-tabulates the name-origin label with the
// parents' nationality pair. Records whose nationality indicators fall
// outside the label table are excluded from this table only.
func (s *StatsService) NameNationalityCounts() []models.NationalityNameCount {
	type cell struct {
		pair   string
		choice string
	}

	counts := make(map[cell]int)
	for i := range s.records {
		r := &s.records[i]
		fatherNat, fatherKnown := models.NationalityLabels[r.FatherNat]
		motherNat, motherKnown := models.NationalityLabels[r.MotherNat]
		if !fatherKnown || !motherKnown {
			continue
		}
		key := cell{
			pair:   fmt.Sprintf("%s / %s", fatherNat, motherNat),
			choice: models.NameOriginLabel(r.NameOrigin),
		}
		counts[key]++
	}

	// Father-first pair order, matching the indicator order of the table.
	pairs := []string{
		"French / French",
		"French / Foreign",
		"Foreign / French",
		"Foreign / Foreign",
	}

	rows := make([]models.NationalityNameCount, 0, len(counts))
	for _, pair := range pairs {
		for _, choice := range models.NameOriginOrder {
			if count, exists := counts[cell{pair: pair, choice: choice}]; exists {
				rows = append(rows, models.NationalityNameCount{
					Nationalities: pair,
					Choice:        choice,
					Births:        count,
				})
			}
		}
	}
	return rows
}

// NameUsageByAge computes, for every age observed on either parent, the
// percentage each name-origin label takes among births where either
// parent has that age. For a fixed age the percentages sum to 100.
func (s *StatsService) NameUsageByAge() []models.AgeSeries {
	ages := s.ageUnion()

	observed := make(map[string]bool)
	counts := make(map[int]map[string]int, len(ages)) // map[age]map[choice_label]births
	totals := make(map[int]int, len(ages))

	for i := range s.records {
		r := &s.records[i]
		label := models.NameOriginLabel(r.NameOrigin)
		observed[label] = true
		for _, age := range recordAges(r) {
			if counts[age] == nil {
				counts[age] = make(map[string]int)
			}
			counts[age][label]++
			totals[age]++
		}
	}

	series := make([]models.AgeSeries, 0, len(models.NameOriginOrder))
	for _, label := range models.NameOriginOrder {
		if !observed[label] {
			continue
		}
		points := make([]models.AgePoint, 0, len(ages))
		for _, age := range ages {
			total := totals[age]
			if total == 0 {
				continue
			}
			points = append(points, models.AgePoint{
				Age:   age,
				Value: float64(counts[age][label]) / float64(total) * 100,
			})
		}
		series = append(series, models.AgeSeries{Label: label, Points: points})
	}
	return series
}

// recordAges lists the distinct parent ages of one record. A birth
// where both parents share an age counts once for that age.
func recordAges(r *models.BirthRecord) []int {
	if r.MotherAge == r.FatherAge {
		return []int{r.MotherAge}
	}
	return []int{r.MotherAge, r.FatherAge}
}

// RecognitionRateByAge computes, per parent role and age, the
// percentage of births at that age carrying a recognition year for the
// role or a marriage year. Ages with no births for a role yield no
// point for that role.
func (s *StatsService) RecognitionRateByAge() []models.AgeSeries {
	motherHits := make(map[int]int)
	motherTotals := make(map[int]int)
	fatherHits := make(map[int]int)
	fatherTotals := make(map[int]int)

	for i := range s.records {
		r := &s.records[i]
		motherTotals[r.MotherAge]++
		if r.MotherRecYear != 0 || r.MarriageYear != 0 {
			motherHits[r.MotherAge]++
		}
		fatherTotals[r.FatherAge]++
		if r.FatherRecYear != 0 || r.MarriageYear != 0 {
			fatherHits[r.FatherAge]++
		}
	}

	return []models.AgeSeries{
		{Label: string(models.ParentMother), Points: ratePoints(motherHits, motherTotals)},
		{Label: string(models.ParentFather), Points: ratePoints(fatherHits, fatherTotals)},
	}
}

// ratePoints turns hit/total maps into an age-sorted percentage series,
// skipping ages with an empty denominator.
func ratePoints(hits, totals map[int]int) []models.AgePoint {
	ages := maps.Keys(totals)
	slices.Sort(ages)
	points := make([]models.AgePoint, 0, len(ages))
	for _, age := range ages {
		total := totals[age]
		if total == 0 {
			continue
		}
		points = append(points, models.AgePoint{
			Age:   age,
			Value: float64(hits[age]) / float64(total) * 100,
		})
	}
	return points
}

// CountByMultipleBirth groups births by how many children the delivery
// produced, ascending.
func (s *StatsService) CountByMultipleBirth() []models.MultipleBirthCount {
	counts := make(map[int]int) // map[children_born]births
	for i := range s.records {
		counts[s.records[i].ChildrenBorn]++
	}

	values := maps.Keys(counts)
	slices.Sort(values)

	rows := make([]models.MultipleBirthCount, 0, len(values))
	for _, children := range values {
		rows = append(rows, models.MultipleBirthCount{Children: children, Births: counts[children]})
	}
	return rows
}

// ageUnion returns the sorted distinct ages observed on either parent.
func (s *StatsService) ageUnion() []int {
	set := make(map[int]bool)
	for i := range s.records {
		set[s.records[i].MotherAge] = true
		set[s.records[i].FatherAge] = true
	}
	ages := maps.Keys(set)
	slices.Sort(ages)
	return ages
}
