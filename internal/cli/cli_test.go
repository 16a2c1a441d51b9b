package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testBirthsCSV = "DEPNAIS;MNAIS;AGEXACTM;AGEXACTP;INDNATM;INDNATP;ORIGINOM;AMAR;ARECM;ARECP;NBENF\n" +
	"1;1;30;32;1;1;1;2015;0;0;1\n" +
	"1;2;25;28;1;2;2;0;2018;0;1\n" +
	"75;6;34;36;2;2;3;0;0;2019;2\n"

const testBoundariesGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"code": "1", "nom": "Ain"},
			"geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}
		},
		{
			"type": "Feature",
			"properties": {"code": "75", "nom": "Paris"},
			"geometry": {"type": "Polygon", "coordinates": [[[2, 0], [3, 0], [3, 1], [2, 1], [2, 0]]]}
		}
	]
}`

// writeFixtures writes a births file and a boundaries file into a temp
// dir and returns their absolute paths.
func writeFixtures(t *testing.T) (birthsPath, boundariesPath string) {
	t.Helper()
	dir := t.TempDir()
	birthsPath = filepath.Join(dir, "births.csv")
	boundariesPath = filepath.Join(dir, "departements.geojson")
	require.NoError(t, os.WriteFile(birthsPath, []byte(testBirthsCSV), 0o644))
	require.NoError(t, os.WriteFile(boundariesPath, []byte(testBoundariesGeoJSON), 0o644))
	return birthsPath, boundariesPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	assert.Equal(t, "births", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	names := make([]string, 0, 2)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "render")
	assert.Contains(t, names, "export")

	require.NotNil(t, root.PersistentFlags().Lookup("births-file"))
	require.NotNil(t, root.PersistentFlags().Lookup("boundaries-file"))
	require.NotNil(t, root.PersistentFlags().Lookup("year"))
}

func TestExportCommand(t *testing.T) {
	birthsPath, boundariesPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := runCommand(t,
		"export",
		"--births-file", birthsPath,
		"--boundaries-file", boundariesPath,
		"--out", outPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported summary tables to")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 9)

	// Department codes from the CSV and the boundary file meet on the
	// same zero-padded key.
	value, err := f.GetCellValue("Departments", "A2")
	require.NoError(t, err)
	assert.Equal(t, "01", value)
}

func TestRenderCommand(t *testing.T) {
	birthsPath, boundariesPath := writeFixtures(t)
	outDir := filepath.Join(t.TempDir(), "charts")

	out, err := runCommand(t,
		"render",
		"--births-file", birthsPath,
		"--boundaries-file", boundariesPath,
		"--out", outDir,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 13 figures to")

	files, err := filepath.Glob(filepath.Join(outDir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 13)

	for _, name := range []string{
		"departments_absolute.png",
		"departments_logarithmic.png",
		"months_normalized_procreations.png",
		"ages.png",
		"multiple-births.png",
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestExportCommandMissingBirthsFile(t *testing.T) {
	_, boundariesPath := writeFixtures(t)

	_, err := runCommand(t,
		"export",
		"--births-file", filepath.Join(t.TempDir(), "missing.csv"),
		"--boundaries-file", boundariesPath,
		"--out", filepath.Join(t.TempDir(), "out.xlsx"),
	)
	require.ErrorContains(t, err, "loading births")
}

func TestExportCommandYearOverride(t *testing.T) {
	birthsPath, boundariesPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := runCommand(t,
		"export",
		"--births-file", birthsPath,
		"--boundaries-file", boundariesPath,
		"--year", "2020",
		"--out", outPath,
	)
	require.NoError(t, err)

	_, statErr := os.Stat(outPath)
	assert.NoError(t, statErr)
}
