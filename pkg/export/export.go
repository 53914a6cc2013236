// Package export serialises a reviewed submission payload as JSON, YAML or an
// XLSX workbook, and reads answer files back for scripted submissions.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding the answers in XLSX exports.
const SheetName = "Answers"

var sheetHeaders = []any{"#", "Question", "Kind", "Answer", "Other"}

// ParseFormat resolves a format name or file extension.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", raw)
	}
}

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Encode serialises p.
func Encode(format Format, p submission.Payload) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("export: encode yaml: %w", err)
		}
		return data, nil
	case FormatXLSX:
		return encodeWorkbook(p)
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
}

// Write encodes p into w.
func Write(w io.Writer, format Format, p submission.Payload) error {
	data, err := Encode(format, p)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeWorkbook(p submission.Payload) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("export: name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &sheetHeaders); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	for i, entry := range p.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export: row %d: %w", i+1, err)
		}
		row := []any{i + 1, entry.Question, string(entry.Kind), answerText(entry), entry.Other}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(SheetName, "B", "B", 40); err != nil {
		return nil, fmt.Errorf("export: column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func answerText(entry submission.Entry) string {
	if entry.Kind == model.KindCheckbox {
		return strings.Join(entry.Selected, ", ")
	}
	return entry.Answer
}

// ReadRows returns the data rows of an XLSX export, header excluded.
func ReadRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("export: open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("export: read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// LoadAnswers reads a JSON or YAML list of answers, in question order.
func LoadAnswers(path string) ([]model.Answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read %s: %w", path, err)
	}
	var answers []model.Answer
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &answers)
	} else {
		err = yaml.Unmarshal(data, &answers)
	}
	if err != nil {
		return nil, fmt.Errorf("export: parse %s: %w", path, err)
	}
	return answers, nil
}
