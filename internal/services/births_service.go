package services

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
)

// Column names of the INSEE births file that the dashboard consumes.
const (
	colDepartment    = "DEPNAIS"
	colMonth         = "MNAIS"
	colMotherAge     = "AGEXACTM"
	colFatherAge     = "AGEXACTP"
	colMotherNat     = "INDNATM"
	colFatherNat     = "INDNATP"
	colNameOrigin    = "ORIGINOM"
	colMarriageYear  = "AMAR"
	colMotherRecYear = "ARECM"
	colFatherRecYear = "ARECP"
	colChildrenBorn  = "NBENF"
)

// requiredColumns lists every column the loader needs, in file order as
// documented by the dataset.
var requiredColumns = []string{
	colDepartment,
	colMonth,
	colMotherAge,
	colFatherAge,
	colMotherNat,
	colFatherNat,
	colNameOrigin,
	colMarriageYear,
	colMotherRecYear,
	colFatherRecYear,
	colChildrenBorn,
}

// birthColumns holds the resolved index of each required column.
type birthColumns struct {
	department    int
	month         int
	motherAge     int
	fatherAge     int
	motherNat     int
	fatherNat     int
	nameOrigin    int
	marriageYear  int
	motherRecYear int
	fatherRecYear int
	childrenBorn  int
}

// BirthsService loads and holds the 2019 births table. A malformed file
// fails the whole load; the service never serves a partial table.
type BirthsService struct {
	filePath string
	logger   *slog.Logger
	records  []models.BirthRecord
}

// NewBirthsService creates a new BirthsService instance
func NewBirthsService(filePath string, logger *slog.Logger) *BirthsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BirthsService{
		filePath: filePath,
		logger:   logger.With("component", "births"),
	}
}

// Load reads the births CSV into memory, normalizing department codes
// as rows come in.
func (s *BirthsService) Load() error {
	start := time.Now()

	file, err := os.Open(s.filePath)
	if err != nil {
		return fmt.Errorf("error opening births file: %w", err)
	}
	defer file.Close()

	// Use buffered reader for better performance
	bufReader := bufio.NewReader(file)
	reader := csv.NewReader(bufReader)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true // Reuse record slice for better memory usage

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("error reading CSV header: %w", err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return err
	}

	// Pre-allocate slice with reasonable capacity
	records := make([]models.BirthRecord, 0, 100000)

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading births row: %w", err)
		}
		line++

		if len(record) < len(header) {
			return fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(record))
		}

		row, err := parseBirthRecord(record, columns, line)
		if err != nil {
			return err
		}
		records = append(records, row)
	}

	s.records = records
	s.logger.Info("births file loaded", "rows", len(records), "duration", time.Since(start))
	return nil
}

// Records returns the loaded birth rows.
func (s *BirthsService) Records() []models.BirthRecord {
	return s.records
}

// Count returns the number of loaded birth rows.
func (s *BirthsService) Count() int {
	return len(s.records)
}

// resolveColumns maps the required column names onto their header
// positions. A missing column aborts the load.
func resolveColumns(header []string) (birthColumns, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	indexes := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		idx, ok := positions[name]
		if !ok {
			return birthColumns{}, fmt.Errorf("births file is missing column %s", name)
		}
		indexes[name] = idx
	}

	return birthColumns{
		department:    indexes[colDepartment],
		month:         indexes[colMonth],
		motherAge:     indexes[colMotherAge],
		fatherAge:     indexes[colFatherAge],
		motherNat:     indexes[colMotherNat],
		fatherNat:     indexes[colFatherNat],
		nameOrigin:    indexes[colNameOrigin],
		marriageYear:  indexes[colMarriageYear],
		motherRecYear: indexes[colMotherRecYear],
		fatherRecYear: indexes[colFatherRecYear],
		childrenBorn:  indexes[colChildrenBorn],
	}, nil
}

// parseBirthRecord converts one CSV row into a BirthRecord. Any field
// that does not parse fails the row, and with it the whole load.
func parseBirthRecord(record []string, columns birthColumns, line int) (models.BirthRecord, error) {
	department := strings.TrimSpace(record[columns.department])
	if department == "" {
		return models.BirthRecord{}, fmt.Errorf("line %d: empty %s value", line, colDepartment)
	}

	month, err := intField(colMonth, record[columns.month], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	if month < 1 || month > 12 {
		return models.BirthRecord{}, fmt.Errorf("line %d: %s value %d out of range", line, colMonth, month)
	}

	motherAge, err := intField(colMotherAge, record[columns.motherAge], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	fatherAge, err := intField(colFatherAge, record[columns.fatherAge], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	motherNat, err := intField(colMotherNat, record[columns.motherNat], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	fatherNat, err := intField(colFatherNat, record[columns.fatherNat], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	nameOrigin, err := intField(colNameOrigin, record[columns.nameOrigin], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	marriageYear, err := intField(colMarriageYear, record[columns.marriageYear], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	motherRecYear, err := intField(colMotherRecYear, record[columns.motherRecYear], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	fatherRecYear, err := intField(colFatherRecYear, record[columns.fatherRecYear], line)
	if err != nil {
		return models.BirthRecord{}, err
	}
	childrenBorn, err := intField(colChildrenBorn, record[columns.childrenBorn], line)
	if err != nil {
		return models.BirthRecord{}, err
	}

	return models.BirthRecord{
		Department:    models.CleanDepartmentCode(department),
		Month:         month,
		MotherAge:     motherAge,
		FatherAge:     fatherAge,
		MotherNat:     motherNat,
		FatherNat:     fatherNat,
		NameOrigin:    nameOrigin,
		MarriageYear:  marriageYear,
		MotherRecYear: motherRecYear,
		FatherRecYear: fatherRecYear,
		ChildrenBorn:  childrenBorn,
	}, nil
}

// intField parses an integer column, accepting the comma decimal
// notation some INSEE extracts use.
func intField(name, value string, line int) (int, error) {
	v := strings.TrimSpace(value)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s value %q", line, name, value)
	}
	return int(f), nil
}
