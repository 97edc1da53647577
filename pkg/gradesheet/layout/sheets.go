package layout

import "github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"

// Widths in characters and heights in points.
const (
	indexColumnWidth = 4
	nameColumnWidth  = 28
	dataColumnWidth  = 12

	notesNameWidth = 28
	notesTextWidth = 70
)

var headerRowHeights = [models.HeaderRows]float64{22, 20, 30, 22}

// MainSheet assembles the consolidated sheet: header labels, one row per
// student, merges, links and styles. Styles are resolved last from the
// finished schema.
func MainSheet(name string, schema *models.Schema, students []models.Student, pop *Populator, links []models.Link, palette Palette) models.RenderSheet {
	sheet := models.RenderSheet{
		Name:       name,
		ColWidths:  make([]float64, schema.Width),
		RowHeights: make([]float64, models.HeaderRows+len(students)),
		Rows:       make([][]models.RenderCell, models.HeaderRows+len(students)),
		Merges:     schema.Merges,
		Links:      links,
		FreezeRows: models.HeaderRows,
		FreezeCols: models.FixedColumns,
		PrintArea:  true,
	}

	for c := range sheet.ColWidths {
		switch c {
		case 0:
			sheet.ColWidths[c] = indexColumnWidth
		case 1:
			sheet.ColWidths[c] = nameColumnWidth
		default:
			sheet.ColWidths[c] = dataColumnWidth
		}
	}
	copy(sheet.RowHeights, headerRowHeights[:])

	for r := 0; r < models.HeaderRows; r++ {
		sheet.Rows[r] = make([]models.RenderCell, schema.Width)
	}
	for _, h := range schema.Headers {
		sheet.Rows[h.Row][h.Col].Value = models.Text(h.Text)
	}
	for i, st := range students {
		values := pop.Row(i+1, st)
		row := make([]models.RenderCell, schema.Width)
		for c, v := range values {
			row[c].Value = v
		}
		sheet.Rows[models.HeaderRows+i] = row
	}

	for r, row := range sheet.Rows {
		for c := range row {
			row[c].Style = palette.Style(RoleAt(schema, r, c))
		}
	}

	return sheet
}

// NotesLabels are the header labels of the observations sheet.
type NotesLabels struct {
	Student     string
	Ability     string
	Observation string
}

// NotesSheet assembles the observations sheet: a header row and one row per
// observation in index order.
func NotesSheet(name string, ix *ObservationIndex, labels NotesLabels, palette Palette) models.RenderSheet {
	sheet := models.RenderSheet{
		Name:      name,
		ColWidths: []float64{notesNameWidth, notesNameWidth, notesTextWidth},
		Rows:      make([][]models.RenderCell, 0, ix.Len()+1),
	}

	header := palette.Style(models.RoleNotesHeader)
	sheet.Rows = append(sheet.Rows, []models.RenderCell{
		{Value: models.Text(labels.Student), Style: header},
		{Value: models.Text(labels.Ability), Style: header},
		{Value: models.Text(labels.Observation), Style: header},
	})

	body := palette.Style(models.RoleNotesBody)
	text := palette.Style(models.RoleNotesText)
	for _, n := range ix.Rows {
		sheet.Rows = append(sheet.Rows, []models.RenderCell{
			{Value: models.Text(n.Student), Style: body},
			{Value: models.Text(n.Ability), Style: body},
			{Value: models.Text(n.Text), Style: text},
		})
	}

	return sheet
}
