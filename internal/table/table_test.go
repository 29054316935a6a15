package table

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestNew_PadsShortRows(t *testing.T) {
	tb := New([]string{"a", "b", "c"}, [][]string{{"1"}, {"1", "2", "3", "4"}})
	assert.Equal(t, []string{"1", "", ""}, tb.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, tb.Rows[1])
}

func TestTable_Lookup(t *testing.T) {
	tb := New([]string{"District", "Population"}, [][]string{{"Salem", "10"}, {"Erode", "20"}})

	assert.Equal(t, 2, tb.Len())
	assert.Equal(t, 1, tb.Index("Population"))
	assert.Equal(t, -1, tb.Index("missing"))
	assert.Equal(t, "Erode", tb.Value(1, "District"))
	assert.Equal(t, "", tb.Value(1, "missing"))
	assert.Equal(t, []string{"10", "20"}, tb.Column("Population"))
}

func TestTable_Require(t *testing.T) {
	tb := New([]string{"District"}, nil)

	require.NoError(t, tb.Require("pop.csv", "District"))

	err := tb.Require("pop.csv", "District", "Population", "Area")
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "pop.csv", se.File)
	assert.Equal(t, []string{"Population", "Area"}, se.Missing)
	assert.Contains(t, err.Error(), "Population, Area")
}

func TestTable_SetColumn(t *testing.T) {
	tb := New([]string{"a"}, [][]string{{"1"}, {"2"}})

	tb.SetColumn("b", []string{"x", "y"})
	assert.Equal(t, []string{"a", "b"}, tb.Header)
	assert.Equal(t, []string{"2", "y"}, tb.Rows[1])

	tb.SetColumn("a", []string{"9", "8"})
	assert.Equal(t, []string{"a", "b"}, tb.Header)
	assert.Equal(t, []string{"9", "x"}, tb.Rows[0])
}

func TestTable_CloneAndReorder(t *testing.T) {
	tb := New([]string{"a"}, [][]string{{"1"}, {"2"}, {"3"}})

	c := tb.Clone()
	c.Rows[0][0] = "changed"
	assert.Equal(t, "1", tb.Rows[0][0])

	r := tb.Reorder([]int{2, 0})
	assert.Equal(t, [][]string{{"3"}, {"1"}}, r.Rows)
}

func TestReadCSV_Basic(t *testing.T) {
	input := "\ufeffDistrict,Population\nSalem,100\n\nErode,200\n"
	tb, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"District", "Population"}, tb.Header)
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, "200", tb.Value(1, "Population"))
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadCSV_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadCSV(ctx, strings.NewReader("a\n1\n"))
	assert.Error(t, err)
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingFile))
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestReadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pop.csv")
	require.NoError(t, os.WriteFile(path, []byte("District,Population\nSalem,100\n"), 0o644))

	tb, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Salem", tb.Value(0, "District"))
}

func TestReadFile_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range [][]string{{"District", "Population"}, {"Salem", "100"}, {"", ""}, {"Erode", "200"}} {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "pop.xlsx")
	require.NoError(t, f.Save(path))

	tb, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"District", "Population"}, tb.Header)
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, "Erode", tb.Value(1, "District"))
}

func TestCheckExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	assert.NoError(t, CheckExists(path))
	assert.True(t, eris.Is(CheckExists(path, filepath.Join(dir, "b.csv")), ErrMissingFile))
	assert.True(t, eris.Is(CheckExists(dir), ErrMissingFile))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	tb := New([]string{"District", "note"}, [][]string{{"Salem", "a,b"}, {"Erode", ""}})

	require.NoError(t, WriteCSV(path, tb))

	got, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, tb.Header, got.Header)
	assert.Equal(t, tb.Rows, got.Rows)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestWriteAtomic_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return eris.New("boom")
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestWriteAtomic_KeepsPreviousOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := WriteAtomic(path, func(w io.Writer) error { return eris.New("boom") })
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
}
