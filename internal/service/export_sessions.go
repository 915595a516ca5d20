package service

import (
	"fmt"
	"io"

	"po-analytics/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportSessionsList writes the upload audit log as a workbook
func (s *ExcelService) ExportSessionsList(sessions []models.UploadSession, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Upload Sessions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Session Code", "User ID", "Filename", "Sheet", "Total Rows",
		"Columns", "PO Code", "Status", "Expires At", "Created At",
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 12},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: thinBorder(),
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Vertical: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	statusFills := map[string]string{
		models.SessionStatusReady:   "#D4EDDA",
		models.SessionStatusFailed:  "#F8D7DA",
		models.SessionStatusExpired: "#FFF3CD",
	}

	for i, session := range sessions {
		row := i + 2
		values := []interface{}{
			session.SessionCode,
			session.UserID,
			session.Filename,
			session.SheetName,
			session.TotalRows,
			session.ColumnCount,
			yesNo(session.HasPOCode),
			session.Status,
			session.ExpiresAt.Format("2006-01-02 15:04:05"),
			session.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &values)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), dataStyle)

		if color, ok := statusFills[session.Status]; ok {
			statusStyle, _ := f.NewStyle(&excelize.Style{
				Border: thinBorder(),
				Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			})
			statusCell := fmt.Sprintf("H%d", row)
			f.SetCellStyle(sheetName, statusCell, statusCell, statusStyle)
		}
	}

	f.SetColWidth(sheetName, "A", lastCol, 15)
	f.SetColWidth(sheetName, "A", "A", 22)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "I", "J", 20)

	if len(sessions) > 0 {
		summaryRow := len(sessions) + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Summary:")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("Total Sessions: %d", len(sessions)))
	}

	f.DeleteSheet("Sheet1")

	_, err = f.WriteTo(w)
	return err
}

func yesNo(b bool) string {
	if b {
		return "Ya"
	}
	return "Tidak"
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}
