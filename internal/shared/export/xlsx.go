// Package export build file .xlsx cho các admin export (newsletter, category items)
package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet - một bảng: header ở row 1, data từ row 2
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Build tạo workbook một sheet, header in đậm
func Build(sheet Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range sheet.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet.Name, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil && len(sheet.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
		f.SetCellStyle(sheet.Name, "A1", last, headerStyle)
	}

	for i, row := range sheet.Rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}

// Write stream workbook về client dưới dạng attachment
func Write(c *gin.Context, f *excelize.File, baseName string) error {
	defer f.Close()

	filename := fmt.Sprintf("%s-%s.xlsx", baseName, time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", ContentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	_, err := f.WriteTo(c.Writer)
	return err
}

// FormatTime dùng chung format timestamp trong file export
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
