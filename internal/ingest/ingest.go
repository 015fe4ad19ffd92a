// Package ingest reads staged lead batches from CSV and XLSX files.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/texparts/leads-cli/internal/model"
)

// columnAliases maps normalized header names to lead fields. Staging files
// come from several collectors with slightly different vocabularies.
var columnAliases = map[string]string{
	"company":      "company",
	"company_name": "company",
	"name":         "company",
	"country":      "country",
	"context":      "context",
	"snippet":      "context",
	"description":  "context",
	"segment":      "segment",
	"entity_type":  "entity_type",
	"source":       "source_type",
	"source_type":  "source_type",
	"source_url":   "source_url",
	"evidence_url": "evidence_url",
	"url":          "website",
	"website":      "website",
	"domain":       "website",
	"websites":     "websites",
	"email":        "emails",
	"emails":       "emails",
	"phone":        "phones",
	"phones":       "phones",
	"cert":         "certification",
	"certification": "certification",
}

// ReadFile dispatches on the file extension. CSV and XLSX are supported.
func ReadFile(path string) ([]model.Lead, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: open csv")
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path, XLSXOptions{})
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV parses a header-mapped CSV stream into leads. Unknown columns are
// ignored; rows with no company name survive here and are cut by the gate.
func ReadCSV(r io.Reader) ([]model.Lead, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}
	fields := mapHeader(header)

	var leads []model.Lead
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		leads = append(leads, leadFromRow(fields, record))
	}

	zap.L().Debug("csv batch read", zap.Int("leads", len(leads)))
	return leads, nil
}

// XLSXOptions selects the sheet to read. Zero value reads the first sheet.
type XLSXOptions struct {
	SheetIndex int
	SheetName  string
}

// ReadXLSX parses a header-mapped XLSX sheet into leads.
func ReadXLSX(path string, opts XLSXOptions) ([]model.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	fields := mapHeader(rowToStrings(sheet.Rows[0]))

	var leads []model.Lead
	for _, row := range sheet.Rows[1:] {
		leads = append(leads, leadFromRow(fields, rowToStrings(row)))
	}

	zap.L().Debug("xlsx batch read", zap.String("sheet", sheet.Name), zap.Int("leads", len(leads)))
	return leads, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ingest: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// mapHeader returns column index -> lead field name for recognized columns.
func mapHeader(header []string) map[int]string {
	fields := make(map[int]string, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		if field, ok := columnAliases[key]; ok {
			fields[i] = field
		}
	}
	return fields
}

func leadFromRow(fields map[int]string, record []string) model.Lead {
	var lead model.Lead
	for i, field := range fields {
		if i >= len(record) {
			continue
		}
		val := model.CleanString(record[i])
		if val == "" {
			continue
		}
		switch field {
		case "company":
			lead.Company = val
		case "country":
			lead.Country = val
		case "context":
			lead.Context = val
		case "segment":
			lead.Segment = val
		case "entity_type":
			lead.EntityType = val
		case "source_type":
			lead.SourceType = strings.ToLower(val)
		case "source_url":
			lead.SourceURL = val
		case "evidence_url":
			lead.EvidenceURL = val
		case "website":
			lead.Website = val
		case "websites":
			lead.Websites = splitMulti(val)
		case "emails":
			lead.Emails = splitMulti(val)
		case "phones":
			lead.Phones = splitMulti(val)
		case "certification":
			lead.Certification = val
		}
	}
	return lead
}

// splitMulti handles multi-value cells written as "a; b" or "a, b".
func splitMulti(val string) []string {
	sep := ";"
	if !strings.Contains(val, ";") {
		sep = ","
	}
	return model.CleanList(strings.Split(val, sep))
}
