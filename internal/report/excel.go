package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/models"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExcelExporter writes the classified issues to a workbook: one summary sheet
// and one sheet per activity bucket.
type ExcelExporter struct {
	OutputDir string
	BaseURL   string
}

func NewExcelExporter(outputDir, baseURL string) *ExcelExporter {
	return &ExcelExporter{
		OutputDir: outputDir,
		BaseURL:   strings.TrimRight(baseURL, "/"),
	}
}

var exportBuckets = []activity.Bucket{
	activity.BucketStarted,
	activity.BucketCompleted,
	activity.BucketBlocked,
	activity.BucketOther,
}

// Export saves the workbook and returns its path. A relative filename is
// placed under OutputDir.
func (e *ExcelExporter) Export(filename, boardName string, classified activity.Classified, start, end time.Time) (string, error) {
	if filename == "" {
		filename = fmt.Sprintf("Weekly_Kanban_Report_%s.xlsx", end.Format("2006-01-02"))
	}
	if !filepath.IsAbs(filename) && e.OutputDir != "" {
		filename = filepath.Join(e.OutputDir, filename)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.createSummarySheet(f, "Summary", boardName, classified, start, end); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	for _, bucket := range exportBuckets {
		sheetName := sanitizeSheetName(BucketTitle(bucket))
		if err := e.createBucketSheet(f, sheetName, classified.Bucket(bucket)); err != nil {
			return "", fmt.Errorf("failed to create sheet for %s: %w", bucket, err)
		}
	}

	if index, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(index)
	}
	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(filename); err != nil {
		return "", fmt.Errorf("failed to save excel file: %w", err)
	}
	return filename, nil
}

// BucketTitle is the display form of a bucket name
func BucketTitle(bucket activity.Bucket) string {
	return cases.Title(language.English).String(string(bucket))
}

func (e *ExcelExporter) createSummarySheet(f *excelize.File, sheetName, boardName string, classified activity.Classified, start, end time.Time) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(headerStyleDef())
	labelStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	f.SetCellValue(sheetName, "A1", "Board:")
	f.SetCellValue(sheetName, "B1", boardName)
	f.SetCellValue(sheetName, "A2", "Date From:")
	f.SetCellValue(sheetName, "B2", start.Format("2006-01-02"))
	f.SetCellValue(sheetName, "A3", "Date To:")
	f.SetCellValue(sheetName, "B3", end.Format("2006-01-02"))
	f.SetCellStyle(sheetName, "A1", "A3", labelStyle)

	f.SetCellValue(sheetName, "A5", "Bucket")
	f.SetCellValue(sheetName, "B5", "Issues")
	f.SetCellStyle(sheetName, "A5", "B5", headerStyle)

	row := 6
	for _, bucket := range exportBuckets {
		f.SetCellValue(sheetName, cellName(1, row), BucketTitle(bucket))
		f.SetCellValue(sheetName, cellName(2, row), len(classified.Bucket(bucket)))
		row++
	}
	f.SetCellValue(sheetName, cellName(1, row), "Total")
	f.SetCellValue(sheetName, cellName(2, row), classified.Total())
	f.SetCellStyle(sheetName, cellName(1, row), cellName(2, row), labelStyle)

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 40)
	return nil
}

func (e *ExcelExporter) createBucketSheet(f *excelize.File, sheetName string, issues []models.Issue) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(headerStyleDef())

	headers := []string{"#", "Key", "Summary", "Status", "Assignee", "Priority", "Type", "Updated"}
	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, issue := range issues {
		row := i + 2
		f.SetCellValue(sheetName, cellName(1, row), i+1)
		f.SetCellValue(sheetName, cellName(2, row), issue.Key)
		if e.BaseURL != "" {
			f.SetCellHyperLink(sheetName, cellName(2, row), e.BaseURL+"/browse/"+issue.Key, "External")
		}
		f.SetCellValue(sheetName, cellName(3, row), issue.Summary)
		f.SetCellValue(sheetName, cellName(4, row), issue.Status)
		f.SetCellValue(sheetName, cellName(5, row), issue.Assignee)
		f.SetCellValue(sheetName, cellName(6, row), issue.Priority)
		f.SetCellValue(sheetName, cellName(7, row), issue.IssueType)
		f.SetCellValue(sheetName, cellName(8, row), issue.Updated)
	}

	f.SetColWidth(sheetName, "A", "A", 5)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 60)
	f.SetColWidth(sheetName, "D", "G", 18)
	f.SetColWidth(sheetName, "H", "H", 30)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

func headerStyleDef() *excelize.Style {
	return &excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	}
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	name = strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-").Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
