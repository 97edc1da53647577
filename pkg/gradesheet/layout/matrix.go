package layout

import (
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

type valueKey struct {
	studentID   int64
	criterionID int64
}

// Populator resolves the body cells of the consolidated sheet.
type Populator struct {
	schema   *models.Schema
	values   map[valueKey]string
	notes    *ObservationIndex
	averages bool
	marker   string

	abilityByCol    map[int]*models.AbilityBlock
	competencyByCol map[int]*models.CompetencyBlock
}

// PopulateOptions configures the Populator.
type PopulateOptions struct {
	// ComputeAverages turns on the aggregation policy. When off every average
	// cell is blank.
	ComputeAverages bool
	// ObservationMarker is written in observation cells that have an
	// observation. Empty leaves them blank.
	ObservationMarker string
}

// NewPopulator indexes the snapshot's values for lookups by (student, criterion).
func NewPopulator(s models.Snapshot, schema *models.Schema, notes *ObservationIndex, opts PopulateOptions) *Populator {
	p := &Populator{
		schema:          schema,
		values:          make(map[valueKey]string, len(s.Values)),
		notes:           notes,
		averages:        opts.ComputeAverages,
		marker:          opts.ObservationMarker,
		abilityByCol:    make(map[int]*models.AbilityBlock),
		competencyByCol: make(map[int]*models.CompetencyBlock),
	}
	for _, v := range s.Values {
		p.values[valueKey{studentID: v.StudentID, criterionID: v.CriterionID}] = v.Value
	}
	for i := range schema.Competencies {
		cb := &schema.Competencies[i]
		p.competencyByCol[cb.AverageCol] = cb
		for j := range cb.Abilities {
			ab := &cb.Abilities[j]
			p.abilityByCol[ab.AverageCol] = ab
		}
	}
	return p
}

// Row returns the cells of one student row. rank is the 1-based row number.
func (p *Populator) Row(rank int, st models.Student) []models.CellValue {
	row := make([]models.CellValue, p.schema.Width)
	row[0] = models.Number(float64(rank))
	row[1] = models.Text(st.FullName)

	for _, col := range p.schema.Columns {
		switch col.Kind {
		case models.ColumnCriterion:
			row[col.Index] = models.Text(p.values[valueKey{studentID: st.ID, criterionID: col.EntityID}])
		case models.ColumnObservation:
			if p.notes.Present(ObservationKey{StudentID: st.ID, AbilityID: col.EntityID}) {
				row[col.Index] = models.Text(p.marker)
			}
		case models.ColumnAbilityAverage:
			if ab, ok := p.abilityByCol[col.Index]; ok {
				row[col.Index] = p.average(st.ID, ab.CriterionIDs)
			}
		case models.ColumnCompetencyAverage:
			if cb, ok := p.competencyByCol[col.Index]; ok {
				var ids []int64
				for _, ab := range cb.Abilities {
					ids = append(ids, ab.CriterionIDs...)
				}
				row[col.Index] = p.average(st.ID, ids)
			}
		}
	}
	return row
}

// average applies the aggregation policy over raw criterion grades. It never
// averages already rounded sub-averages.
func (p *Populator) average(studentID int64, criteria []int64) models.CellValue {
	if !p.averages {
		return models.CellValue{}
	}
	weights := make([]float64, 0, len(criteria))
	for _, id := range criteria {
		grade, ok := p.values[valueKey{studentID: studentID, criterionID: id}]
		if !ok {
			continue
		}
		if w, ok := Weight(grade); ok {
			weights = append(weights, w)
		}
	}
	mean, ok := Mean(weights)
	if !ok {
		return models.CellValue{}
	}
	return models.Number(mean)
}
