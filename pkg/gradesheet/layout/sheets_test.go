package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

var testPalette = Palette{
	Session:        "F2F3F5",
	Competency:     "F2F3F5",
	Ability:        "E8EAED",
	Fixed:          "E8EAED",
	Observation:    "FFF9C4",
	AbilityAverage: "DEECF7",
	Border:         "444444",
}

func TestRoleAt(t *testing.T) {
	snap := twoCriteria()
	schema := BuildSchema(NewHierarchy(snap, nil), testLabels)

	tests := []struct {
		row, col int
		want     models.HeaderRole
	}{
		{0, 0, models.RoleFixed},
		{3, 1, models.RoleFixed},
		{0, 4, models.RoleSession},
		{1, 2, models.RoleCompetency},
		{2, 2, models.RoleAbility},
		{2, 4, models.RoleAbility},
		{3, 2, models.RoleCriterion},
		{3, 4, models.RoleObservation},
		{2, 5, models.RoleAbilityAverage},
		{3, 5, models.RoleAbilityAverage},
		{3, 6, models.RoleCompetencyAverage},
		{4, 0, models.RoleBodyIndex},
		{4, 1, models.RoleBodyName},
		{4, 2, models.RoleBodyData},
		{4, 4, models.RoleBodyData},
		{5, 5, models.RoleBodyAverage},
		{5, 6, models.RoleBodyAverage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleAt(&schema, tt.row, tt.col), "row %d col %d", tt.row, tt.col)
	}
}

func TestPaletteStyle(t *testing.T) {
	s := testPalette.Style(models.RoleAbilityAverage)
	assert.Equal(t, "DEECF7", s.Fill)
	assert.Equal(t, 90, s.Rotation)
	assert.True(t, s.Bold)
	assert.Equal(t, "444444", s.Border)

	s = testPalette.Style(models.RoleCompetencyAverage)
	assert.Equal(t, "E8EAED", s.Fill)
	assert.Equal(t, 90, s.Rotation)

	s = testPalette.Style(models.RoleBodyAverage)
	assert.Equal(t, "0.00", s.NumFmt)
	assert.Empty(t, s.Fill)

	s = testPalette.Style(models.RoleBodyName)
	assert.Equal(t, "left", s.Horizontal)

	s = testPalette.Style(models.RoleObservation)
	assert.Equal(t, "FFF9C4", s.Fill)
	assert.False(t, s.Bold)
}

func TestMainSheet(t *testing.T) {
	snap := twoCriteria()
	schema := BuildSchema(NewHierarchy(snap, nil), testLabels)
	ix := BuildObservationIndex(snap, nil)
	pop := NewPopulator(snap, &schema, ix, PopulateOptions{ObservationMarker: "📝"})
	links := BindLinks(&schema, snap.Students, ix, LinkTargets{MainSheet: "Consolidated", NotesSheet: "Observations", NotesEnabled: true})

	sheet := MainSheet("Consolidated", &schema, snap.Students, pop, links, testPalette)

	assert.Equal(t, "Consolidated", sheet.Name)
	require.Len(t, sheet.Rows, 6)
	assert.Equal(t, 7, sheet.ColumnCount())
	assert.Equal(t, []float64{4, 28, 12, 12, 12, 12, 12}, sheet.ColWidths)
	assert.Equal(t, []float64{22, 20, 30, 22, 0, 0}, sheet.RowHeights)
	assert.Equal(t, 4, sheet.FreezeRows)
	assert.Equal(t, 2, sheet.FreezeCols)
	assert.True(t, sheet.PrintArea)
	assert.Equal(t, schema.Merges, sheet.Merges)
	assert.Equal(t, links, sheet.Links)

	assert.Equal(t, "S1", sheet.Rows[0][2].Value.Text)
	assert.Equal(t, "Ana", sheet.Rows[4][1].Value.Text)
	assert.Equal(t, "left", sheet.Rows[4][1].Style.Horizontal)
	assert.Equal(t, "E8EAED", sheet.Rows[0][0].Style.Fill)
	for _, row := range sheet.Rows {
		require.Len(t, row, 7)
		for _, cell := range row {
			assert.Equal(t, "444444", cell.Style.Border)
		}
	}
}

func TestNotesSheet(t *testing.T) {
	ix := BuildObservationIndex(rubric(), mustCompare("es"))
	sheet := NotesSheet("Observaciones", ix, NotesLabels{Student: "Alumno", Ability: "Habilidad", Observation: "Observación"}, testPalette)

	assert.Equal(t, []float64{28, 28, 70}, sheet.ColWidths)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Alumno", sheet.Rows[0][0].Value.Text)
	assert.True(t, sheet.Rows[0][0].Style.Bold)
	assert.Equal(t, "Álvarez, Juan", sheet.Rows[1][0].Value.Text)
	assert.Equal(t, "Mejorar ortografía", sheet.Rows[1][2].Value.Text)
	assert.Equal(t, "left", sheet.Rows[1][2].Style.Horizontal)
	assert.True(t, sheet.Rows[1][2].Style.WrapText)
	assert.Zero(t, sheet.FreezeRows)
}
