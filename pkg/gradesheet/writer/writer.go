// Package writer serializes the render IR into an xlsx workbook with excelize.
package writer

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
	"github.com/xuri/excelize/v2"
)

// Stages reported in Error.
const (
	StageSheets    = "sheets"
	StageCells     = "cells"
	StageStyles    = "styles"
	StageMerges    = "merges"
	StageLinks     = "links"
	StageLayout    = "layout"
	StageSerialize = "serialize"
)

// defaultSheet is the sheet excelize.NewFile starts with.
const defaultSheet = "Sheet1"

// Error is a serialization failure on one sheet.
type Error struct {
	Sheet string
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("write workbook (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("write sheet %q (%s): %v", e.Sheet, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Write serializes the workbook and returns the xlsx bytes. Nothing is
// returned on failure.
func Write(wb *models.RenderWorkbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{f: f, styles: make(map[models.CellStyle]int)}

	for i, sh := range wb.Sheets {
		var err error
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sh.Name)
		} else {
			_, err = f.NewSheet(sh.Name)
		}
		if err != nil {
			return nil, &Error{Sheet: sh.Name, Stage: StageSheets, Err: err}
		}
	}

	for i := range wb.Sheets {
		if err := w.write(&wb.Sheets[i]); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	props := &excelize.DocProperties{Creator: wb.Creator}
	if !wb.CreatedAt.IsZero() {
		props.Created = wb.CreatedAt.UTC().Format(time.RFC3339)
		props.Modified = props.Created
	}
	if err := f.SetDocProps(props); err != nil {
		return nil, &Error{Stage: StageSerialize, Err: errors.Wrap(err, "set doc props")}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &Error{Stage: StageSerialize, Err: errors.Wrap(err, "write buffer")}
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f      *excelize.File
	styles map[models.CellStyle]int
}

func (w *sheetWriter) write(sh *models.RenderSheet) error {
	fail := func(stage string, err error) error {
		return &Error{Sheet: sh.Name, Stage: stage, Err: err}
	}

	if err := w.cells(sh); err != nil {
		return fail(StageCells, err)
	}
	if err := w.cellStyles(sh); err != nil {
		return fail(StageStyles, err)
	}
	if err := w.merges(sh); err != nil {
		return fail(StageMerges, err)
	}
	if err := w.links(sh); err != nil {
		return fail(StageLinks, err)
	}
	if err := w.dimensions(sh); err != nil {
		return fail(StageLayout, err)
	}
	return nil
}

func (w *sheetWriter) cells(sh *models.RenderSheet) error {
	for r, row := range sh.Rows {
		for c, cell := range row {
			if cell.Value.IsEmpty() {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			switch cell.Value.Kind {
			case models.CellText:
				err = w.f.SetCellStr(sh.Name, name, cell.Value.Text)
			case models.CellNumber:
				err = w.f.SetCellFloat(sh.Name, name, cell.Value.Number, -1, 64)
			}
			if err != nil {
				return errors.Wrapf(err, "cell %s", name)
			}
		}
	}
	return nil
}

// cellStyles applies styles in runs of equal style along each row.
func (w *sheetWriter) cellStyles(sh *models.RenderSheet) error {
	for r, row := range sh.Rows {
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c].Style == row[start].Style {
				continue
			}
			if err := w.styleRange(sh.Name, r, start, c-1, row[start].Style); err != nil {
				return err
			}
			start = c
		}
	}
	return nil
}

func (w *sheetWriter) styleRange(sheet string, row, c1, c2 int, s models.CellStyle) error {
	if s == (models.CellStyle{}) {
		return nil
	}
	id, err := w.styleID(s)
	if err != nil {
		return err
	}
	from, err := excelize.CoordinatesToCellName(c1+1, row+1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(c2+1, row+1)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, from, to, id)
}

func (w *sheetWriter) styleID(s models.CellStyle) (int, error) {
	if id, ok := w.styles[s]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(toExcelize(s))
	if err != nil {
		return 0, errors.Wrap(err, "new style")
	}
	w.styles[s] = id
	return id, nil
}

func toExcelize(s models.CellStyle) *excelize.Style {
	st := &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal:   s.Horizontal,
			Vertical:     s.Vertical,
			TextRotation: s.Rotation,
			WrapText:     s.WrapText,
		},
	}
	if s.Bold {
		st.Font = &excelize.Font{Bold: true}
	}
	if s.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}
	if s.Border != "" {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			st.Border = append(st.Border, excelize.Border{Type: side, Color: s.Border, Style: 1})
		}
	}
	if s.NumFmt != "" {
		numFmt := s.NumFmt
		st.CustomNumFmt = &numFmt
	}
	return st
}

func (w *sheetWriter) merges(sh *models.RenderSheet) error {
	for _, m := range sh.Merges {
		from, err := excelize.CoordinatesToCellName(m.StartCol+1, m.StartRow+1)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(m.EndCol+1, m.EndRow+1)
		if err != nil {
			return err
		}
		if err := w.f.MergeCell(sh.Name, from, to); err != nil {
			return errors.Wrapf(err, "merge %s:%s", from, to)
		}
	}
	return nil
}

func (w *sheetWriter) links(sh *models.RenderSheet) error {
	for _, l := range sh.Links {
		cell, err := excelize.CoordinatesToCellName(l.Col+1, l.Row+1)
		if err != nil {
			return err
		}
		target, err := excelize.CoordinatesToCellName(l.TargetCol+1, l.TargetRow+1)
		if err != nil {
			return err
		}
		location := QuoteSheet(l.TargetSheet) + "!" + target

		var opts excelize.HyperlinkOpts
		if l.Tooltip != "" {
			tooltip := l.Tooltip
			opts.Tooltip = &tooltip
		}
		if err := w.f.SetCellHyperLink(sh.Name, cell, location, "Location", opts); err != nil {
			return errors.Wrapf(err, "hyperlink %s", cell)
		}
	}
	return nil
}

// dimensions sets column widths, row heights, frozen panes and the print area.
func (w *sheetWriter) dimensions(sh *models.RenderSheet) error {
	start := 0
	for c := 1; c <= len(sh.ColWidths); c++ {
		if c < len(sh.ColWidths) && sh.ColWidths[c] == sh.ColWidths[start] {
			continue
		}
		if sh.ColWidths[start] > 0 {
			from, err := excelize.ColumnNumberToName(start + 1)
			if err != nil {
				return err
			}
			to, err := excelize.ColumnNumberToName(c)
			if err != nil {
				return err
			}
			if err := w.f.SetColWidth(sh.Name, from, to, sh.ColWidths[start]); err != nil {
				return errors.Wrap(err, "column width")
			}
		}
		start = c
	}

	for r, h := range sh.RowHeights {
		if h <= 0 {
			continue
		}
		if err := w.f.SetRowHeight(sh.Name, r+1, h); err != nil {
			return errors.Wrap(err, "row height")
		}
	}

	if sh.FreezeRows > 0 || sh.FreezeCols > 0 {
		topLeft, err := excelize.CoordinatesToCellName(sh.FreezeCols+1, sh.FreezeRows+1)
		if err != nil {
			return err
		}
		if err := w.f.SetPanes(sh.Name, &excelize.Panes{
			Freeze:      true,
			XSplit:      sh.FreezeCols,
			YSplit:      sh.FreezeRows,
			TopLeftCell: topLeft,
			ActivePane:  activePane(sh.FreezeRows, sh.FreezeCols),
		}); err != nil {
			return errors.Wrap(err, "panes")
		}
	}

	if sh.PrintArea && len(sh.Rows) > 0 {
		cols := sh.ColumnCount()
		from, err := excelize.CoordinatesToCellName(1, 1, true)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(cols, len(sh.Rows), true)
		if err != nil {
			return err
		}
		if err := w.f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Area",
			RefersTo: QuoteSheet(sh.Name) + "!" + from + ":" + to,
			Scope:    sh.Name,
		}); err != nil {
			return errors.Wrap(err, "print area")
		}
	}
	return nil
}

func activePane(rows, cols int) string {
	switch {
	case rows > 0 && cols > 0:
		return "bottomRight"
	case rows > 0:
		return "bottomLeft"
	}
	return "topRight"
}

// QuoteSheet quotes a sheet name for use in a cell reference.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
