package layout

import "github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"

// Palette holds the fill and border colours, each "RRGGBB".
type Palette struct {
	Session        string
	Competency     string
	Ability        string
	Fixed          string
	Observation    string
	AbilityAverage string
	Border         string
}

const (
	criterionFill = "FFFFFF"
	averageFormat = "0.00"
)

// RoleAt classifies a cell of the consolidated sheet. It reads the schema only,
// never cell values.
func RoleAt(schema *models.Schema, row, col int) models.HeaderRole {
	if row >= models.HeaderRows {
		switch col {
		case 0:
			return models.RoleBodyIndex
		case 1:
			return models.RoleBodyName
		}
		if c, ok := schema.ColumnAt(col); ok &&
			(c.Kind == models.ColumnAbilityAverage || c.Kind == models.ColumnCompetencyAverage) {
			return models.RoleBodyAverage
		}
		return models.RoleBodyData
	}

	if col < models.FixedColumns {
		return models.RoleFixed
	}
	switch row {
	case 0:
		return models.RoleSession
	case 1:
		return models.RoleCompetency
	}

	c, _ := schema.ColumnAt(col)
	switch c.Kind {
	case models.ColumnAbilityAverage:
		return models.RoleAbilityAverage
	case models.ColumnCompetencyAverage:
		return models.RoleCompetencyAverage
	}
	if row == 2 {
		return models.RoleAbility
	}
	if c.Kind == models.ColumnObservation {
		return models.RoleObservation
	}
	return models.RoleCriterion
}

// Style returns the look of a role. Every role gets a thin border on all sides.
func (p Palette) Style(role models.HeaderRole) models.CellStyle {
	s := models.CellStyle{Border: p.Border, Horizontal: "center", Vertical: "center"}

	switch role {
	case models.RoleFixed:
		s.Fill, s.Bold = p.Fixed, true
	case models.RoleSession:
		s.Fill, s.Bold = p.Session, true
	case models.RoleCompetency:
		s.Fill, s.Bold, s.WrapText = p.Competency, true, true
	case models.RoleAbility:
		s.Fill, s.Bold, s.WrapText = p.Ability, true, true
	case models.RoleAbilityAverage:
		s.Fill, s.Bold, s.Rotation = p.AbilityAverage, true, 90
	case models.RoleCompetencyAverage:
		s.Fill, s.Bold, s.Rotation = p.Ability, true, 90
	case models.RoleCriterion:
		s.Fill, s.Bold, s.WrapText = criterionFill, true, true
	case models.RoleObservation:
		s.Fill = p.Observation
	case models.RoleBodyName:
		s.Horizontal = "left"
	case models.RoleBodyAverage:
		s.NumFmt = averageFormat
	case models.RoleNotesHeader:
		s.Fill, s.Bold = p.Fixed, true
		s.Vertical, s.WrapText = "top", true
	case models.RoleNotesBody:
		s.Vertical, s.WrapText = "top", true
	case models.RoleNotesText:
		s.Horizontal, s.Vertical, s.WrapText = "left", "top", true
	}
	return s
}
