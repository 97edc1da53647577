package models

// HeaderRows is the number of header rows on the consolidated sheet.
const HeaderRows = 4

// FixedColumns is the number of leading columns (row number and student name)
// that span all header rows.
const FixedColumns = 2

// ColumnKind tags a data column of the consolidated sheet.
type ColumnKind int

const (
	// ColumnCriterion holds the grade of one criterion.
	ColumnCriterion ColumnKind = iota + 1
	// ColumnObservation flags whether the student has an observation on the ability.
	ColumnObservation
	// ColumnAbilityAverage holds the average of the ability's criteria.
	ColumnAbilityAverage
	// ColumnCompetencyAverage holds the average of every criterion of the competency.
	ColumnCompetencyAverage
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnCriterion:
		return "criterion"
	case ColumnObservation:
		return "observation"
	case ColumnAbilityAverage:
		return "ability_average"
	case ColumnCompetencyAverage:
		return "competency_average"
	}
	return "unknown"
}

// Column describes one data column (index >= FixedColumns).
type Column struct {
	// Index is the 0-based column index on the sheet.
	Index int
	// Kind tells which entity the column belongs to.
	Kind ColumnKind
	// EntityID is the criterion, ability or competency id depending on Kind.
	EntityID int64
}

// AbilityBlock is the group of columns emitted for one ability.
type AbilityBlock struct {
	AbilityID int64
	// CriterionColumns lists the criterion column indexes in header order.
	CriterionColumns []int
	// CriterionIDs is parallel to CriterionColumns.
	CriterionIDs   []int64
	ObservationCol int
	AverageCol     int
}

// CompetencyBlock is the group of columns emitted for one competency.
type CompetencyBlock struct {
	CompetencyID int64
	Abilities    []AbilityBlock
	AverageCol   int
}

// HeaderRole classifies a cell for styling.
type HeaderRole int

const (
	RoleFixed HeaderRole = iota + 1
	RoleSession
	RoleCompetency
	RoleAbility
	RoleAbilityAverage
	RoleCompetencyAverage
	RoleCriterion
	RoleObservation

	RoleBodyIndex
	RoleBodyName
	RoleBodyData
	RoleBodyAverage

	RoleNotesHeader
	RoleNotesBody
	RoleNotesText
)

// HeaderCell is a labelled cell inside the header rows.
type HeaderCell struct {
	Row  int
	Col  int
	Text string
}

// MergeRange is an inclusive rectangle of merged cells (0-based).
type MergeRange struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Overlaps reports whether two ranges share at least one cell.
func (m MergeRange) Overlaps(o MergeRange) bool {
	return m.StartRow <= o.EndRow && o.StartRow <= m.EndRow &&
		m.StartCol <= o.EndCol && o.StartCol <= m.EndCol
}

// Schema is the column layout of the consolidated sheet. It depends only on the
// rubric hierarchy, never on student data.
type Schema struct {
	// Columns lists the data columns in index order.
	Columns []Column
	// Competencies lists the competency blocks in header order.
	Competencies []CompetencyBlock
	// Headers holds every labelled header cell.
	Headers []HeaderCell
	// Merges holds every merged header range.
	Merges []MergeRange
	// Width is the total column count, fixed columns included.
	Width int
}

// ColumnAt returns the descriptor of a data column.
func (s *Schema) ColumnAt(col int) (Column, bool) {
	i := col - FixedColumns
	if i < 0 || i >= len(s.Columns) {
		return Column{}, false
	}
	return s.Columns[i], true
}
