// Package simpleexcel writes slices of structs or maps into xlsx workbooks
// using the excelize streaming writer.
package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheetName = "Sheet1"

// DataExporter is the main entry point for exporting data.
type DataExporter struct {
	sheets []*SheetBuilder
}

// SheetBuilder collects the sections rendered on a single sheet.
type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

// SectionConfig defines a block of rows in a sheet. Sections are stacked
// vertically with one blank row between them.
type SectionConfig struct {
	Title      string
	ShowHeader bool
	Data       interface{}
	Columns    []ColumnConfig
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName string // struct field name or map key
	Header    string
	Width     float64
	Formatter func(interface{}) interface{}
}

func NewDataExporter() *DataExporter {
	return &DataExporter{sheets: []*SheetBuilder{}}
}

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{
		exporter: e,
		name:     name,
		sections: []*SectionConfig{},
	}
	e.sheets = append(e.sheets, sb)
	return sb
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

// Build returns the parent exporter so calls can be chained.
func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

// ToWriter streams the workbook to w.
func (e *DataExporter) ToWriter(w io.Writer) error {
	if len(e.sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	for i, sb := range e.sheets {
		if i == 0 {
			f.SetSheetName(defaultSheetName, sb.name)
		} else {
			f.NewSheet(sb.name)
		}

		sw, err := f.NewStreamWriter(sb.name)
		if err != nil {
			return fmt.Errorf("failed to create stream writer for %q: %w", sb.name, err)
		}
		if err := streamSections(sw, sb.sections, titleStyle, headerStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", sb.name, err)
		}
		if err := sw.Flush(); err != nil {
			return fmt.Errorf("failed to flush sheet %q: %w", sb.name, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// ToBytes exports the workbook to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := e.ToWriter(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func streamSections(sw *excelize.StreamWriter, sections []*SectionConfig, titleStyle, headerStyle int) error {
	// the stream writer only accepts column widths before the first row
	for col, width := range columnWidths(sections) {
		if width <= 0 {
			continue
		}
		if err := sw.SetColWidth(col+1, col+1, width); err != nil {
			return err
		}
	}

	rowNum := 1
	for _, sec := range sections {
		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := sw.SetRow(cell, []interface{}{excelize.Cell{Value: sec.Title, StyleID: titleStyle}}); err != nil {
				return err
			}
			rowNum++
		}

		if sec.ShowHeader && len(sec.Columns) > 0 {
			headers := make([]interface{}, len(sec.Columns))
			for i, col := range sec.Columns {
				headers[i] = excelize.Cell{Value: col.Header, StyleID: headerStyle}
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := sw.SetRow(cell, headers); err != nil {
				return err
			}
			rowNum++
		}

		if sec.Data != nil {
			v := reflect.Indirect(reflect.ValueOf(sec.Data))
			if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
				return fmt.Errorf("section %q: expected slice, got %v", sec.Title, v.Kind())
			}
			for i := 0; i < v.Len(); i++ {
				item := v.Index(i)
				row := make([]interface{}, len(sec.Columns))
				for j, col := range sec.Columns {
					val := extractValue(item, col.FieldName)
					if col.Formatter != nil {
						val = col.Formatter(val)
					}
					row[j] = val
				}
				cell, _ := excelize.CoordinatesToCellName(1, rowNum)
				if err := sw.SetRow(cell, row); err != nil {
					return fmt.Errorf("error writing row %d: %w", i+1, err)
				}
				rowNum++
			}
		}

		rowNum++
	}
	return nil
}

// columnWidths returns the widest configured width per column index.
func columnWidths(sections []*SectionConfig) []float64 {
	var widths []float64
	for _, sec := range sections {
		for i, col := range sec.Columns {
			for len(widths) <= i {
				widths = append(widths, 0)
			}
			if col.Width > widths[i] {
				widths[i] = col.Width
			}
		}
	}
	return widths
}

// extractValue reads a struct field or map entry. Nil pointers become empty
// cells and non-nil pointers are dereferenced.
func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}

	var f reflect.Value
	switch item.Kind() {
	case reflect.Struct:
		f = item.FieldByName(fieldName)
	case reflect.Map:
		if item.Type().Key().Kind() != reflect.String {
			return ""
		}
		f = item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key()))
	default:
		return ""
	}
	if !f.IsValid() || !f.CanInterface() {
		return ""
	}

	for f.Kind() == reflect.Ptr || f.Kind() == reflect.Interface {
		if f.IsNil() {
			return ""
		}
		f = f.Elem()
	}
	if f.Kind() == reflect.String {
		return strings.TrimSpace(f.String())
	}
	return f.Interface()
}
