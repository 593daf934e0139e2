package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyWorkbook is returned when the decoded sheet has no data rows.
var ErrEmptyWorkbook = errors.New("planilha vazia")

// DecodeSheet decodes an uploaded spreadsheet into ordered header-keyed
// rows. The first sheet is used; the first row is the header. Cells the
// row does not cover come back as "" so the validator never sees an
// absent key. The format is chosen by the filename extension, with XLSX
// as the default.
func DecodeSheet(data []byte, filename string) ([]map[string]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return decodeCSV(bytes.NewReader(data))
	}
	return decodeXLSX(bytes.NewReader(data))
}

func decodeXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	sheetRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(sheetRows) < 2 {
		return nil, ErrEmptyWorkbook
	}

	headers := normalizeHeaders(sheetRows[0])

	rows := make([]map[string]string, 0, len(sheetRows)-1)
	for _, sheetRow := range sheetRows[1:] {
		rows = append(rows, buildRow(headers, sheetRow))
	}
	return rows, nil
}

func decodeCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRecord, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyWorkbook
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := normalizeHeaders(headerRecord)

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", len(rows)+2, err)
		}
		rows = append(rows, buildRow(headers, record))
	}

	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return rows, nil
}

func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.ToLower(h))
		h = strings.TrimSuffix(h, " *")
		out[i] = h
	}
	return out
}

func buildRow(headers []string, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for _, h := range headers {
		row[h] = ""
	}
	for i, value := range record {
		if i < len(headers) {
			row[headers[i]] = strings.TrimSpace(value)
		}
	}
	return row
}
