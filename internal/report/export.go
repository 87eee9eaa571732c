// Package report writes the collection back out as a spreadsheet, estimates
// and suggested prices included, for sharing or round-tripping through the
// importer.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cratepricer/internal/model"
)

var exportHeader = []string{
	"Artist", "Title", "Label", "Catalog#", "Format", "Released",
	"Genre", "Media Condition", "Sleeve Condition",
	"Purchase Price", "Purchase Date", "Status",
	"Estimated Value", "Suggested Price", "ROI %",
}

// ExportCSV writes one row per item. Text cells are escaped so a malicious
// artist name cannot smuggle a formula into someone's spreadsheet.
func ExportCSV(w io.Writer, items []model.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, it := range items {
		row := []string{
			it.DisplayArtist(),
			it.DisplayTitle(),
			it.Label,
			it.CatNo,
			it.Format,
			intCell(it.Year),
			it.Genre,
			string(it.ConditionVinyl),
			string(it.ConditionSleeve),
			floatCell(it.PurchasePrice),
			dateCell(it),
			string(it.Status),
			intPtrCell(it.EstimatedValue),
			intPtrCell(it.SuggestedListingPrice),
			roiCell(it.ROI),
		}
		if err := cw.Write(EscapeRow(row)); err != nil {
			return fmt.Errorf("writing row for %s: %w", it.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func intCell(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func intPtrCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func roiCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 0, 64)
}

func dateCell(it model.Item) string {
	if it.PurchaseDate == nil {
		return ""
	}
	return it.PurchaseDate.Format("2006-01-02")
}
