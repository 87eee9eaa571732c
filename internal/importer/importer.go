// Package importer loads a collection from spreadsheet exports. It accepts
// Discogs-style CSV exports and XLSX workbooks, and captures any sale value
// columns as a csvMarketData snapshot for the valuation chain to fall back
// on.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cratepricer/internal/currency"
	"cratepricer/internal/model"
	"cratepricer/internal/store"
)

// FromFile dispatches on the file extension.
func FromFile(path string) ([]model.Item, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return FromCSV(f)
	case ".xlsx":
		return FromXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported import format %q", filepath.Ext(path))
	}
}

// FromCSV reads a header row followed by one item per record. Unparseable
// rows are skipped rather than failing the whole import.
func FromCSV(r io.Reader) ([]model.Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := mapColumns(header)

	var items []model.Item
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if it := itemFromRecord(record, cols); it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

// FromXLSX reads the first sheet of a workbook, first row as header.
func FromXLSX(path string) ([]model.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := mapColumns(rows[0])
	var items []model.Item
	for _, record := range rows[1:] {
		if it := itemFromRecord(record, cols); it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

// mapColumns indexes header names case-insensitively.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func itemFromRecord(record []string, cols map[string]int) *model.Item {
	get := func(names ...string) string {
		for _, name := range names {
			if idx, ok := cols[name]; ok && idx < len(record) {
				if v := strings.TrimSpace(record[idx]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	empty := true
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil
	}

	it := &model.Item{
		ID:              store.NewItemID(),
		Artist:          get("artist"),
		Title:           get("title", "release"),
		Label:           get("label"),
		CatNo:           get("catalog#", "catno", "catalogue number", "catalog number"),
		Format:          get("format"),
		Genre:           get("genre"),
		Style:           get("style"),
		PurchaseSource:  get("purchase source", "source", "purchased from"),
		ConditionVinyl:  model.ParseGrade(get("collection media condition", "media condition", "condition")),
		ConditionSleeve: model.ParseGrade(get("collection sleeve condition", "sleeve condition")),
		Status:          model.StatusOwned,
	}

	if y, err := strconv.Atoi(get("released", "year")); err == nil {
		it.Year = y
	}
	if price, ok := currency.ParseString(get("purchase price", "price paid", "paid")); ok {
		it.PurchasePrice = price
	}
	if t := parseDate(get("purchase date", "date added", "added")); t != nil {
		it.PurchaseDate = t
	}

	snapshot := &model.CSVMarketData{}
	captured := false
	capture := func(dst **float64, names ...string) {
		if v, ok := currency.ParseString(get(names...)); ok {
			*dst = &v
			captured = true
		}
	}
	capture(&snapshot.Median, "median", "median price", "value")
	capture(&snapshot.Low, "low", "lowest", "low price")
	capture(&snapshot.High, "high", "highest", "high price")
	capture(&snapshot.LastSold, "last sold", "lastsold", "last sold price")
	if captured {
		it.CSVMarketData = snapshot
	}

	return it
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	time.RFC3339,
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
