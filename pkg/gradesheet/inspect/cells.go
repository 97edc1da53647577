package inspect

import (
	"sort"
	"strconv"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells returns the non-empty rows of a sheet with their hyperlinks.
// A row that only carries a hyperlink on a blank cell is still returned.
func ExtractCells(f *excelize.File, sheetName string, links map[string]hyperlink) ([]models.CellRow, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	byRow := make(map[int]*models.CellRow)
	get := func(rowNum int) *models.CellRow {
		if r, ok := byRow[rowNum]; ok {
			return r
		}
		r := &models.CellRow{R: rowNum, C: make(map[string]interface{})}
		byRow[rowNum] = r
		return r
	}

	for rowIdx, row := range rows {
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			get(rowIdx + 1).C[strconv.Itoa(colIdx+1)] = parseValue(cellValue)
		}
	}

	for ref, l := range links {
		col, rowNum, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			continue
		}
		r := get(rowNum)
		if r.Links == nil {
			r.Links = make(map[string]models.LinkInfo)
		}
		r.Links[strconv.Itoa(col)] = models.LinkInfo{Target: l.Location, Tooltip: l.Tooltip}
	}

	result := make([]models.CellRow, 0, len(byRow))
	for _, r := range byRow {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].R < result[j].R })
	return result, nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// UsedRange returns the bounding box of the non-empty cells in A1 notation,
// or "" for an empty sheet.
func UsedRange(rows []models.CellRow) string {
	minRow, maxRow, minCol, maxCol := -1, -1, -1, -1
	for _, row := range rows {
		for key := range row.C {
			col, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			if minRow < 0 || row.R < minRow {
				minRow = row.R
			}
			if row.R > maxRow {
				maxRow = row.R
			}
			if minCol < 0 || col < minCol {
				minCol = col
			}
			if col > maxCol {
				maxCol = col
			}
		}
	}
	if minRow < 0 {
		return ""
	}
	start, _ := excelize.CoordinatesToCellName(minCol, minRow)
	end, _ := excelize.CoordinatesToCellName(maxCol, maxRow)
	return start + ":" + end
}
