package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"po-analytics/internal/analysis"

	"github.com/xuri/excelize/v2"
)

var vendors = []string{
	"PT Sumber Makmur",
	"CV Jaya Abadi",
	"PT Indo Logistik",
	"UD Sinar Terang",
	"PT Mitra Teknik",
}

var statuses = []string{
	analysis.StatusApproved, analysis.StatusApproved, analysis.StatusApproved,
	"Pending", "Rejected",
}

// Amount ceilings per bin, so every range receives rows
var amountCeilings = []int64{100_000, 500_000, 1_000_000, 5_000_000, 10_000_000, 50_000_000, 250_000_000}

func main() {
	rows := flag.Int("rows", 500, "number of transaction rows")
	out := flag.String("out", filepath.Join("storage", "uploads", "sample_po_transactions.xlsx"), "output path")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	// Create new Excel file
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "PO Transactions"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		fmt.Printf("Error renaming sheet: %v\n", err)
		return
	}

	// Set headers
	headers := []interface{}{
		"tanggal", analysis.ColumnPOCode, analysis.ColumnVendor, "item_description",
		analysis.ColumnAmount, analysis.ColumnStatus,
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		fmt.Printf("Error writing headers: %v\n", err)
		return
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", "F1", headerStyle)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	poCount := *rows/3 + 1

	for i := 0; i < *rows; i++ {
		bin := rng.Intn(len(amountCeilings))
		floor := int64(0)
		if bin > 0 {
			floor = amountCeilings[bin-1]
		}
		amount := floor + rng.Int63n(amountCeilings[bin]-floor) + 1

		var amountCell interface{} = amount
		poCode := fmt.Sprintf("PO-%05d", rng.Intn(poCount)+1)

		// Sprinkle in the dirty rows real exports contain
		switch rng.Intn(40) {
		case 0:
			amountCell = "N/A"
		case 1:
			amountCell = -amount
		case 2:
			poCode = ""
		}

		row := []interface{}{
			start.AddDate(0, 0, rng.Intn(365)).Format("2006-01-02"),
			poCode,
			vendors[rng.Intn(len(vendors))],
			fmt.Sprintf("Item %d", rng.Intn(200)+1),
			amountCell,
			statuses[rng.Intn(len(statuses))],
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			fmt.Printf("Error writing row %d: %v\n", i+2, err)
			return
		}
	}

	// Set column widths
	f.SetColWidth(sheetName, "A", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 22)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "F", 18)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}
	if err := f.SaveAs(*out); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		return
	}

	fmt.Printf("✓ Sample file created: %s\n", *out)
	fmt.Printf("  Total rows: %d, vendors: %d, PO codes: up to %d\n", *rows, len(vendors), poCount)
}
