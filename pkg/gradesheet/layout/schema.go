package layout

import "github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"

// HeaderLabels are the fixed strings written into the header rows.
type HeaderLabels struct {
	Index             string
	Name              string
	AbilityAverage    string
	CompetencyAverage string
	// ObservationMarker is written on row 3 of every observation column and in
	// body cells that have an observation. Empty leaves them blank.
	ObservationMarker string
}

// schemaBuilder walks the hierarchy with a single column cursor.
type schemaBuilder struct {
	schema models.Schema
	cursor int
	labels HeaderLabels
}

// BuildSchema assigns a column to every criterion, observation flag and
// average of the hierarchy, in the hierarchy's sort order, and records the
// header labels and merge ranges. Subtrees whose parent is missing are never
// reached and so never get columns.
func BuildSchema(h *Hierarchy, labels HeaderLabels) models.Schema {
	b := &schemaBuilder{cursor: models.FixedColumns, labels: labels}

	b.label(0, 0, labels.Index)
	b.label(0, 1, labels.Name)
	b.merge(0, 0, models.HeaderRows-1, 0)
	b.merge(0, 1, models.HeaderRows-1, 1)

	for _, ses := range h.Sessions {
		start := b.cursor
		for _, comp := range h.Competencies(ses.ID) {
			b.competency(h, comp)
		}
		if b.cursor == start {
			// no competencies, no columns
			continue
		}
		b.label(0, start, ses.Label())
		b.merge(0, start, 0, b.cursor-1)
	}

	b.schema.Width = b.cursor
	return b.schema
}

func (b *schemaBuilder) competency(h *Hierarchy, comp models.Competency) {
	start := b.cursor
	block := models.CompetencyBlock{CompetencyID: comp.ID}

	for _, ab := range h.Abilities(comp.ID) {
		block.Abilities = append(block.Abilities, b.ability(h, ab))
	}

	block.AverageCol = b.claim(models.ColumnCompetencyAverage, comp.ID)
	b.label(2, block.AverageCol, b.labels.CompetencyAverage)
	b.merge(2, block.AverageCol, 3, block.AverageCol)

	b.label(1, start, comp.DisplayName)
	b.merge(1, start, 1, b.cursor-1)

	b.schema.Competencies = append(b.schema.Competencies, block)
}

func (b *schemaBuilder) ability(h *Hierarchy, ab models.Ability) models.AbilityBlock {
	block := models.AbilityBlock{AbilityID: ab.ID}
	crits := h.Criteria(ab.ID)

	start := b.cursor
	for _, cr := range crits {
		col := b.claim(models.ColumnCriterion, cr.ID)
		b.label(3, col, cr.DisplayName)
		block.CriterionColumns = append(block.CriterionColumns, col)
		block.CriterionIDs = append(block.CriterionIDs, cr.ID)
	}

	block.ObservationCol = b.claim(models.ColumnObservation, ab.ID)
	b.label(3, block.ObservationCol, b.labels.ObservationMarker)
	if len(crits) > 0 {
		b.label(2, start, ab.DisplayName)
		b.merge(2, start, 2, block.ObservationCol-1)
	} else {
		b.label(2, block.ObservationCol, ab.DisplayName)
	}

	block.AverageCol = b.claim(models.ColumnAbilityAverage, ab.ID)
	b.label(2, block.AverageCol, b.labels.AbilityAverage)
	b.merge(2, block.AverageCol, 3, block.AverageCol)

	return block
}

// claim hands out the column under the cursor and advances it.
func (b *schemaBuilder) claim(kind models.ColumnKind, id int64) int {
	col := b.cursor
	b.schema.Columns = append(b.schema.Columns, models.Column{Index: col, Kind: kind, EntityID: id})
	b.cursor++
	return col
}

func (b *schemaBuilder) label(row, col int, text string) {
	if text == "" {
		return
	}
	b.schema.Headers = append(b.schema.Headers, models.HeaderCell{Row: row, Col: col, Text: text})
}

// merge records a range unless it is a single cell.
func (b *schemaBuilder) merge(r1, c1, r2, c2 int) {
	if r1 == r2 && c1 == c2 {
		return
	}
	b.schema.Merges = append(b.schema.Merges, models.MergeRange{StartRow: r1, StartCol: c1, EndRow: r2, EndCol: c2})
}
