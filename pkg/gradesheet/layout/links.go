package layout

import "github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"

// TooltipLimit is the number of characters kept in an observation tooltip.
const TooltipLimit = 120

const ellipsis = "..."

// Truncate cuts text to limit characters and appends "..." when it was longer.
func Truncate(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit]) + ellipsis
}

// LinkTargets names the sheets hyperlinks point into.
type LinkTargets struct {
	MainSheet  string
	NotesSheet string
	// NotesEnabled is false when the observations sheet is not emitted. Links
	// then point back at their own cell.
	NotesEnabled bool
}

// BindLinks attaches a hyperlink and a tooltip to every observation cell of
// the main sheet whose student has an observation on the ability. students
// must be in main-sheet row order.
func BindLinks(schema *models.Schema, students []models.Student, ix *ObservationIndex, t LinkTargets) []models.Link {
	var links []models.Link
	for i, st := range students {
		row := models.HeaderRows + i
		for _, col := range schema.Columns {
			if col.Kind != models.ColumnObservation {
				continue
			}
			key := ObservationKey{StudentID: st.ID, AbilityID: col.EntityID}
			text, ok := ix.Text(key)
			if !ok {
				continue
			}

			link := models.Link{
				Row:         row,
				Col:         col.Index,
				TargetSheet: t.MainSheet,
				TargetRow:   row,
				TargetCol:   col.Index,
				Tooltip:     Truncate(text, TooltipLimit),
			}
			if t.NotesEnabled {
				if notesRow, found := ix.SheetRow(key); found {
					link.TargetSheet = t.NotesSheet
					link.TargetRow = notesRow
					link.TargetCol = 0
				}
			}
			links = append(links, link)
		}
	}
	return links
}
