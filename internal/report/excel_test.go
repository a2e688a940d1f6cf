package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelExport(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExcelExporter(filepath.Join(dir, "out"), "https://acme.atlassian.net")

	path, err := exporter.Export("weekly.xlsx", "Team Board", sampleClassified(), reportNow.AddDate(0, 0, -7), reportNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "weekly.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Started", "Completed", "Blocked", "Other"}, f.GetSheetList())

	board, _ := f.GetCellValue("Summary", "B1")
	assert.Equal(t, "Team Board", board)
	from, _ := f.GetCellValue("Summary", "B2")
	assert.Equal(t, "2024-03-08", from)

	started, _ := f.GetCellValue("Summary", "B6")
	assert.Equal(t, "1", started)
	total, _ := f.GetCellValue("Summary", "B10")
	assert.Equal(t, "3", total)

	key, _ := f.GetCellValue("Blocked", "B2")
	assert.Equal(t, "ACME-2", key)
	ok, link, err := f.GetCellHyperLink("Blocked", "B2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://acme.atlassian.net/browse/ACME-2", link)
}

func TestExcelExportDefaultName(t *testing.T) {
	dir := t.TempDir()
	path, err := NewExcelExporter(dir, "").Export("", "B", sampleClassified(), time.Time{}, reportNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Weekly_Kanban_Report_2024-03-15.xlsx"), path)
}

func TestSheetHelpers(t *testing.T) {
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
	assert.Equal(t, "C7", cellName(3, 7))
	assert.Equal(t, "Blocked - Off-track", sanitizeSheetName("Blocked / Off-track"))
	assert.Len(t, sanitizeSheetName("a very long sheet name that exceeds the limit"), 31)
	assert.Equal(t, "In Progress", BucketTitle("in progress"))
}
