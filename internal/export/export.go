// Package export builds the summary workbook served by the dashboard
// and written by the batch CLI.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// Sheet names of the workbook, in tab order.
const (
	sheetDepartments = "Departments"
	sheetMonths      = "Months"
	sheetAges        = "Ages"
	sheetPartnerAges = "Partner ages"
	sheetNameOrigins = "Name origins"
	sheetNationality = "Names by nationality"
	sheetNameUsage   = "Name usage by age"
	sheetRecognition = "Recognition rates"
	sheetMultiple    = "Multiple births"
)

// Workbook renders every summary table onto its own sheet.
func Workbook(summary *models.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", sheetDepartments)
	writeDepartments(f, summary)

	sheets := []struct {
		name  string
		write func(*excelize.File, *models.Summary)
	}{
		{sheetMonths, writeMonths},
		{sheetAges, writeAges},
		{sheetPartnerAges, writePartnerAges},
		{sheetNameOrigins, writeNameOrigins},
		{sheetNationality, writeNationality},
		{sheetNameUsage, writeNameUsage},
		{sheetRecognition, writeRecognition},
		{sheetMultiple, writeMultipleBirths},
	}
	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, fmt.Errorf("error creating sheet %s: %w", sheet.name, err)
		}
		sheet.write(f, summary)
	}

	return f, nil
}

// Write streams the workbook onto w.
func Write(summary *models.Summary, w io.Writer) error {
	f, err := Workbook(summary)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to a file.
func Save(summary *models.Summary, path string) error {
	f, err := Workbook(summary)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	return nil
}

// writeHeaders fills the first row and widens its columns.
func writeHeaders(f *excelize.File, sheet string, headers []string, width float64) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", last, width)
}

func writeDepartments(f *excelize.File, summary *models.Summary) {
	writeHeaders(f, sheetDepartments, []string{"Department", "Name", "Births", "Births (log)"}, 18)
	for i, row := range summary.Departments {
		line := i + 2
		f.SetCellValue(sheetDepartments, fmt.Sprintf("A%d", line), row.Code)
		f.SetCellValue(sheetDepartments, fmt.Sprintf("B%d", line), row.Name)
		f.SetCellValue(sheetDepartments, fmt.Sprintf("C%d", line), row.Births)
		// Undefined log values stay empty.
		if row.Log.Valid() {
			f.SetCellValue(sheetDepartments, fmt.Sprintf("D%d", line), float64(row.Log))
		}
	}
}

func writeMonths(f *excelize.File, summary *models.Summary) {
	writeHeaders(f, sheetMonths, []string{"Month", "Name", "Births", "Births (30-day normalized)", "Procreation month"}, 22)
	for i, row := range summary.Months {
		line := i + 2
		f.SetCellValue(sheetMonths, fmt.Sprintf("A%d", line), row.Month)
		f.SetCellValue(sheetMonths, fmt.Sprintf("B%d", line), row.Name)
		f.SetCellValue(sheetMonths, fmt.Sprintf("C%d", line), row.Births)
		f.SetCellValue(sheetMonths, fmt.Sprintf("D%d", line), row.Normalized)
		f.SetCellValue(sheetMonths, fmt.Sprintf("E%d", line), row.Procreation)
	}
}

// writeAges lays the heatmap grid out as a matrix: father ages across,
// mother ages down.
func writeAges(f *excelize.File, summary *models.Summary) {
	f.SetCellValue(sheetAges, "A1", "Mother \\ Father")
	for i, age := range summary.Ages.FatherAges {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		f.SetCellValue(sheetAges, cell, age)
	}
	for r, age := range summary.Ages.MotherAges {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		f.SetCellValue(sheetAges, cell, age)
		for c, count := range summary.Ages.Counts[r] {
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			f.SetCellValue(sheetAges, cell, count)
		}
	}
	f.SetColWidth(sheetAges, "A", "A", 16)
}

// writeSeries lays age series out long-form: label, age, value.
func writeSeries(f *excelize.File, sheet, valueHeader string, series []models.AgeSeries) {
	writeHeaders(f, sheet, []string{"Series", "Age", valueHeader}, 18)
	line := 2
	for _, s := range series {
		for _, point := range s.Points {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", line), s.Label)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", line), point.Age)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", line), point.Value)
			line++
		}
	}
}

func writePartnerAges(f *excelize.File, summary *models.Summary) {
	writeSeries(f, sheetPartnerAges, "Mean partner age", summary.PartnerAges)
}

func writeNameOrigins(f *excelize.File, summary *models.Summary) {
	writeHeaders(f, sheetNameOrigins, []string{"Last name choice", "Births"}, 20)
	for i, row := range summary.NameOrigins {
		line := i + 2
		f.SetCellValue(sheetNameOrigins, fmt.Sprintf("A%d", line), row.Choice)
		f.SetCellValue(sheetNameOrigins, fmt.Sprintf("B%d", line), row.Births)
	}
}

func writeNationality(f *excelize.File, summary *models.Summary) {
	writeHeaders(f, sheetNationality, []string{"Father / Mother nationality", "Last name choice", "Births"}, 26)
	for i, row := range summary.NameNationality {
		line := i + 2
		f.SetCellValue(sheetNationality, fmt.Sprintf("A%d", line), row.Nationalities)
		f.SetCellValue(sheetNationality, fmt.Sprintf("B%d", line), row.Choice)
		f.SetCellValue(sheetNationality, fmt.Sprintf("C%d", line), row.Births)
	}
}

func writeNameUsage(f *excelize.File, summary *models.Summary) {
	writeSeries(f, sheetNameUsage, "Usage (%)", summary.NameUsage)
}

func writeRecognition(f *excelize.File, summary *models.Summary) {
	writeSeries(f, sheetRecognition, "Share of births (%)", summary.Recognition)
}

func writeMultipleBirths(f *excelize.File, summary *models.Summary) {
	writeHeaders(f, sheetMultiple, []string{"Children born", "Births"}, 16)
	for i, row := range summary.MultipleBirths {
		line := i + 2
		f.SetCellValue(sheetMultiple, fmt.Sprintf("A%d", line), row.Children)
		f.SetCellValue(sheetMultiple, fmt.Sprintf("B%d", line), row.Births)
	}
}
