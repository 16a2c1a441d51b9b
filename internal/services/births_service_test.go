package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// birthsHeader mirrors the dataset layout: the loader resolves columns
// by name and ignores the ones it does not use, like ANAIS here.
const birthsHeader = "ANAIS;DEPNAIS;MNAIS;AGEXACTM;AGEXACTP;INDNATM;INDNATP;ORIGINOM;AMAR;ARECM;ARECP;NBENF"

func writeBirthsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "births.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBirthsServiceLoad(t *testing.T) {
	content := birthsHeader + "\n" +
		"2019;1;1;30,5;32;1;1;1;2015;0;0;1\n" +
		"2019;75;12;25;28;1;2;2;0;2018;0;1\n" +
		"2019;2A;6;41;45;2;2;3;0;0;2019;2\n"

	service := NewBirthsService(writeBirthsFile(t, content), nil)
	require.NoError(t, service.Load())

	records := service.Records()
	require.Len(t, records, 3)
	assert.Equal(t, 3, service.Count())

	first := records[0]
	assert.Equal(t, "01", first.Department, "single-digit code should be zero-padded")
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 30, first.MotherAge, "comma decimal should truncate to the integer age")
	assert.Equal(t, 32, first.FatherAge)
	assert.Equal(t, 2015, first.MarriageYear)
	assert.Equal(t, 1, first.ChildrenBorn)

	assert.Equal(t, "75", records[1].Department)
	assert.Equal(t, 2018, records[1].MotherRecYear)

	assert.Equal(t, "2A", records[2].Department, "corsica codes pass through unchanged")
	assert.Equal(t, 2019, records[2].FatherRecYear)
	assert.Equal(t, 2, records[2].ChildrenBorn)
}

func TestBirthsServiceLoadColumnOrder(t *testing.T) {
	// Same columns in a different order still resolve by name.
	content := "NBENF;DEPNAIS;ARECP;ARECM;AMAR;ORIGINOM;INDNATP;INDNATM;AGEXACTP;AGEXACTM;MNAIS\n" +
		"1;95;0;0;2010;1;1;1;33;31;7\n"

	service := NewBirthsService(writeBirthsFile(t, content), nil)
	require.NoError(t, service.Load())

	records := service.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "95", records[0].Department)
	assert.Equal(t, 7, records[0].Month)
	assert.Equal(t, 31, records[0].MotherAge)
	assert.Equal(t, 33, records[0].FatherAge)
}

func TestBirthsServiceLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing required column",
			content: "ANAIS;DEPNAIS;MNAIS\n2019;75;1\n",
			wantErr: "missing column AGEXACTM",
		},
		{
			name:    "month out of range",
			content: birthsHeader + "\n2019;75;13;30;32;1;1;1;0;0;0;1\n",
			wantErr: "MNAIS value 13 out of range",
		},
		{
			name:    "non numeric field",
			content: birthsHeader + "\n2019;75;1;abc;32;1;1;1;0;0;0;1\n",
			wantErr: `invalid AGEXACTM value "abc"`,
		},
		{
			name:    "empty department",
			content: birthsHeader + "\n2019;;1;30;32;1;1;1;0;0;0;1\n",
			wantErr: "empty DEPNAIS value",
		},
		{
			name:    "short row",
			content: birthsHeader + "\n2019;75\n",
			wantErr: "expected 12 fields, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewBirthsService(writeBirthsFile(t, tt.content), nil)
			err := service.Load()
			require.ErrorContains(t, err, tt.wantErr)
			assert.Empty(t, service.Records(), "a failed load must not leave partial records")
		})
	}
}

func TestBirthsServiceLoadMissingFile(t *testing.T) {
	service := NewBirthsService(filepath.Join(t.TempDir(), "missing.csv"), nil)
	require.ErrorContains(t, service.Load(), "error opening births file")
}

func TestBirthsServiceLoadHeaderOnly(t *testing.T) {
	service := NewBirthsService(writeBirthsFile(t, birthsHeader+"\n"), nil)
	require.NoError(t, service.Load())
	assert.Equal(t, 0, service.Count())
}
