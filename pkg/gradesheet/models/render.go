package models

import (
	"strconv"
	"time"
)

// CellKind tells how a cell value is written.
type CellKind int

const (
	// CellEmpty is a blank cell. It is never written as 0.
	CellEmpty CellKind = iota
	// CellText is a string cell.
	CellText
	// CellNumber is a numeric cell.
	CellNumber
)

// CellValue is the content of one rendered cell.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Text returns a string cell. An empty string yields an empty cell.
func Text(s string) CellValue {
	if s == "" {
		return CellValue{}
	}
	return CellValue{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) CellValue {
	return CellValue{Kind: CellNumber, Number: f}
}

// IsEmpty reports whether the cell is blank.
func (v CellValue) IsEmpty() bool { return v.Kind == CellEmpty }

// String renders the value the way it shows on the sheet. Numbers keep two decimals.
func (v CellValue) String() string {
	switch v.Kind {
	case CellText:
		return v.Text
	case CellNumber:
		return strconv.FormatFloat(v.Number, 'f', 2, 64)
	}
	return ""
}

// CellStyle is the resolved look of one cell. It is comparable so writers can
// deduplicate styles by value.
type CellStyle struct {
	Fill       string // "RRGGBB", empty for no fill
	Bold       bool
	Horizontal string // left|center|right
	Vertical   string // top|center|bottom
	Rotation   int    // text rotation in degrees
	WrapText   bool
	Border     string // "RRGGBB" thin border on all four sides, empty for none
	NumFmt     string // custom number format, empty for general
}

// RenderCell is one cell of the render IR.
type RenderCell struct {
	Value CellValue
	Style CellStyle
}

// Link is a same-workbook hyperlink with a tooltip. Coordinates are 0-based.
type Link struct {
	Row int
	Col int
	// TargetSheet, TargetRow and TargetCol locate the destination cell.
	TargetSheet string
	TargetRow   int
	TargetCol   int
	Tooltip     string
}

// RenderSheet is the intermediate representation of a worksheet.
type RenderSheet struct {
	Name string
	// ColWidths holds per column widths in characters, len == column count.
	ColWidths []float64
	// RowHeights holds per row heights in points; 0 keeps the default height.
	RowHeights []float64
	// Rows holds every row in order; each row has len == column count.
	Rows   [][]RenderCell
	Merges []MergeRange
	Links  []Link
	// FreezeRows and FreezeCols freeze the top rows and left columns when > 0.
	FreezeRows int
	FreezeCols int
	// PrintArea defines a print area over the used range.
	PrintArea bool
}

// ColumnCount returns the widest row length.
func (s *RenderSheet) ColumnCount() int {
	n := len(s.ColWidths)
	for _, row := range s.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// RenderWorkbook is the top-level IR handed to the serializer.
type RenderWorkbook struct {
	Sheets []RenderSheet
	// Creator is written to the document properties.
	Creator string
	// CreatedAt is written to the document properties when not zero.
	CreatedAt time.Time
}
