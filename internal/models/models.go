package models

import (
	"encoding/json"
	"errors"
	"math"

	geom2 "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
)

// ErrEmptyRing reports a coordinate ring that does not assemble into a
// valid polygon.
var ErrEmptyRing = errors.New("ring does not form a valid polygon")

// BirthRecord is one row of the INSEE 2019 births file. Records are
// immutable once loaded; Department is already normalized to its
// two-character form.
type BirthRecord struct {
	Department    string `json:"department"`
	Month         int    `json:"month"`
	MotherAge     int    `json:"mother_age"`
	FatherAge     int    `json:"father_age"`
	MotherNat     int    `json:"mother_nationality"`
	FatherNat     int    `json:"father_nationality"`
	NameOrigin    int    `json:"name_origin"`
	MarriageYear  int    `json:"marriage_year"`
	MotherRecYear int    `json:"mother_recognition_year"`
	FatherRecYear int    `json:"father_recognition_year"`
	ChildrenBorn  int    `json:"children_born"`
}

// Department represents one feature of the department boundary file.
// Rings holds every outer ring as raw coordinates for drawing; the
// largest ring doubles as the representative geometry for area and
// label placement.
type Department struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Area     float64 `json:"-"`
	MainRing int     `json:"-"`
	Rings    [][]geom.Coord
	geometry geom2.Geometry
}

// NewDepartment builds a Department from its raw polygon rings,
// discarding rings that do not form a valid polygon.
func NewDepartment(code, name string, rings [][]geom.Coord) Department {
	d := Department{Code: code, Name: name, Rings: rings}
	for i, ring := range rings {
		polygon, err := RingToPolygon(ring)
		if err != nil {
			continue
		}
		area := polygon.AsGeometry().Area()
		if d.geometry.IsEmpty() || area > d.Area {
			d.geometry = polygon.AsGeometry()
			d.MainRing = i
			d.Area = area
		}
	}
	return d
}

// Geometry returns the largest ring of the department as a
// simplefeatures geometry.
func (d *Department) Geometry() geom2.Geometry {
	return d.geometry
}

// LabelPoint returns the center of the main ring's bounding box, where
// the department code is drawn on the map.
func (d *Department) LabelPoint() (x, y float64) {
	if d.MainRing >= len(d.Rings) {
		return 0, 0
	}
	bounds := geom.NewBounds(geom.XY)
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, c := range d.Rings[d.MainRing] {
		if len(c) < 2 {
			continue
		}
		if c[0] < minX {
			minX = c[0]
		}
		if c[0] > maxX {
			maxX = c[0]
		}
		if c[1] < minY {
			minY = c[1]
		}
		if c[1] > maxY {
			maxY = c[1]
		}
	}
	bounds.Set(minX, minY, maxX, maxY)
	return (bounds.Min(0) + bounds.Max(0)) / 2, (bounds.Min(1) + bounds.Max(1)) / 2
}

// RingToPolygon converts a single closed ring to a simplefeatures
// polygon.
func RingToPolygon(ring []geom.Coord) (geom2.Polygon, error) {
	flatCoords := make([]float64, 0, len(ring)*2)
	for _, c := range ring {
		if len(c) < 2 {
			continue
		}
		flatCoords = append(flatCoords, c[0], c[1])
	}

	lineString := geom2.NewLineString(geom2.NewSequence(flatCoords, geom2.DimXY))
	if lineString.IsEmpty() {
		return geom2.Polygon{}, ErrEmptyRing
	}

	polygon := geom2.NewPolygon([]geom2.LineString{lineString})
	if polygon.IsEmpty() {
		return geom2.Polygon{}, ErrEmptyRing
	}
	return polygon, nil
}

// DepartmentBounds computes the bounding box over every ring of every
// department in a single pass.
func DepartmentBounds(departments []Department) *geom.Bounds {
	bounds := geom.NewBounds(geom.XY)
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	found := false
	for i := range departments {
		for _, ring := range departments[i].Rings {
			for _, c := range ring {
				if len(c) < 2 {
					continue
				}
				found = true
				if c[0] < minX {
					minX = c[0]
				}
				if c[0] > maxX {
					maxX = c[0]
				}
				if c[1] < minY {
					minY = c[1]
				}
				if c[1] > maxY {
					maxY = c[1]
				}
			}
		}
	}
	if !found {
		return bounds
	}
	bounds.Set(minX, minY, maxX, maxY)
	return bounds
}

// CleanDepartmentCode zero-pads single-character department codes so
// birth rows and boundary features share the same two-character key.
// Codes of length two or more (including 2A and 2B) pass through
// unchanged.
func CleanDepartmentCode(code string) string {
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// NullableFloat marshals NaN and infinities as JSON null instead of
// failing the encode.
type NullableFloat float64

// MarshalJSON implements custom JSON marshaling for NullableFloat
func (f NullableFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Valid reports whether the value is a real, finite number.
func (f NullableFloat) Valid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DepartmentCount is the per-department births summary. Log is NaN for
// departments without any birth.
type DepartmentCount struct {
	Code   string        `json:"department"`
	Name   string        `json:"name,omitempty"`
	Births int           `json:"births"`
	Log    NullableFloat `json:"births_log"`
}

// MonthCount is the per-month births summary. Normalized is the raw
// count scaled to a 30-day month; Procreation is the estimated
// conception month label.
type MonthCount struct {
	Month       int    `json:"month"`
	Name        string `json:"name"`
	Births      int    `json:"births"`
	Normalized  int    `json:"births_normalized"`
	Procreation string `json:"procreation_month"`
}

// AgeGrid is the dense cross-tabulation of births by parent ages.
// Counts is indexed [mother][father] following the MotherAges and
// FatherAges axes, both ascending.
type AgeGrid struct {
	FatherAges []int   `json:"father_ages"`
	MotherAges []int   `json:"mother_ages"`
	Counts     [][]int `json:"counts"`
}

// Max returns the largest cell value of the grid.
func (g *AgeGrid) Max() int {
	max := 0
	for _, row := range g.Counts {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// AgePoint is one (age, value) pair of an age-indexed series.
type AgePoint struct {
	Age   int     `json:"age"`
	Value float64 `json:"value"`
}

// AgeSeries is a named series of points ordered by ascending age.
type AgeSeries struct {
	Label  string     `json:"label"`
	Points []AgePoint `json:"points"`
}

// NameOriginCount is the births total for one last-name origin label.
type NameOriginCount struct {
	Choice string `json:"last_name_choice"`
	Births int    `json:"births"`
}

// NationalityNameCount is one cell of the nationality against
// name-origin cross-tab. Nationalities is the combined father/mother
// pair label.
type NationalityNameCount struct {
	Nationalities string `json:"parents_nationality"`
	Choice        string `json:"last_name_choice"`
	Births        int    `json:"births"`
}

// MultipleBirthCount groups delivery events by how many children were
// born at once.
type MultipleBirthCount struct {
	Children int `json:"children"`
	Births   int `json:"births"`
}

// Summary bundles every materialized table the dashboard serves.
type Summary struct {
	Year            int                    `json:"year"`
	TotalBirths     int                    `json:"total_births"`
	Departments     []DepartmentCount      `json:"departments"`
	Months          []MonthCount           `json:"months"`
	Ages            AgeGrid                `json:"ages"`
	PartnerAges     []AgeSeries            `json:"partner_ages"`
	NameOrigins     []NameOriginCount      `json:"name_origins"`
	NameNationality []NationalityNameCount `json:"name_nationality"`
	NameUsage       []AgeSeries            `json:"name_usage"`
	Recognition     []AgeSeries            `json:"recognition"`
	MultipleBirths  []MultipleBirthCount   `json:"multiple_births"`
}

// Parent identifies which parent an age-indexed series refers to.
type Parent string

const (
	ParentMother Parent = "Mother"
	ParentFather Parent = "Father"
)

// Last-name origin (ORIGINOM) and nationality (INDNATM, INDNATP)
// columns carry coded values; the tables below are the fixed mappings
// used wherever a readable label is needed.
var (
	NameOriginLabels = map[int]string{
		1: "Father",
		2: "Mother",
		3: "Father - Mother",
		4: "Mother - Father",
		5: "Other",
	}

	NationalityLabels = map[int]string{
		1: "French",
		2: "Foreign",
	}
)

// DefaultNameOrigin is the fallback for indicator values outside the
// table, matching the dataset's documented default.
const DefaultNameOrigin = "Father"

// NameOriginLabel resolves a name-origin indicator to its label.
func NameOriginLabel(indicator int) string {
	if label, ok := NameOriginLabels[indicator]; ok {
		return label
	}
	return DefaultNameOrigin
}

// NameOriginOrder lists the labels in indicator order for stable chart
// and export output.
var NameOriginOrder = []string{
	"Father",
	"Mother",
	"Father - Mother",
	"Mother - Father",
	"Other",
}

// MonthNames maps a calendar month number to its English name.
var MonthNames = map[int]string{
	1:  "January",
	2:  "February",
	3:  "March",
	4:  "April",
	5:  "May",
	6:  "June",
	7:  "July",
	8:  "August",
	9:  "September",
	10: "October",
	11: "November",
	12: "December",
}

// ProcreationMonths maps a 2019 birth month name to the estimated
// conception month, nine months earlier across the year boundary.
var ProcreationMonths = map[string]string{
	"January":   "April 2018",
	"February":  "May 2018",
	"March":     "June 2018",
	"April":     "July 2018",
	"May":       "August 2018",
	"June":      "September 2018",
	"July":      "October 2018",
	"August":    "November 2018",
	"September": "December 2018",
	"October":   "January 2019",
	"November":  "February 2019",
	"December":  "March 2019",
}
