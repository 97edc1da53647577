package layout

import "github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"

func strPtr(s string) *string { return &s }

// twoCriteria is one session, one competency, one ability with two criteria
// and two students.
func twoCriteria() models.Snapshot {
	return models.Snapshot{
		Students: []models.Student{
			{ID: 1, FullName: "Ana"},
			{ID: 2, FullName: "Luis"},
		},
		Sessions:     []models.Session{{ID: 10, Number: 1}},
		Competencies: []models.Competency{{ID: 20, SessionID: 10, DisplayName: "Comp"}},
		Abilities:    []models.Ability{{ID: 30, CompetencyID: 20, DisplayName: "Abil"}},
		Criteria: []models.Criterion{
			{ID: 41, AbilityID: 30, DisplayName: "C2"},
			{ID: 40, AbilityID: 30, DisplayName: "C1"},
		},
		Values: []models.Value{
			{StudentID: 1, CriterionID: 40, Value: "AD"},
			{StudentID: 1, CriterionID: 41, Value: "A"},
			{StudentID: 2, CriterionID: 40, Value: "B"},
		},
		Observations: []models.Observation{
			{StudentID: 1, AbilityID: 30, Observation: "Participates actively"},
		},
	}
}

// rubric is a larger tree: two sessions out of order, a titled session, a
// session without competencies, an ability without criteria and dangling rows.
func rubric() models.Snapshot {
	return models.Snapshot{
		Students: []models.Student{
			{ID: 1, FullName: "Quispe, Rosa"},
			{ID: 2, FullName: "Álvarez, Juan"},
			{ID: 3, FullName: "Benites, Carla"},
		},
		Sessions: []models.Session{
			{ID: 12, Number: 2, Title: strPtr("Fracciones")},
			{ID: 11, Number: 1},
			{ID: 13, Number: 3},
		},
		Competencies: []models.Competency{
			{ID: 21, SessionID: 11, DisplayName: "Resuelve problemas"},
			{ID: 22, SessionID: 12, DisplayName: "Lee textos"},
			{ID: 23, SessionID: 12, DisplayName: "Escribe textos"},
			{ID: 29, SessionID: 99, DisplayName: "Orphan"},
		},
		Abilities: []models.Ability{
			{ID: 31, CompetencyID: 21, DisplayName: "Traduce"},
			{ID: 32, CompetencyID: 21, DisplayName: "Comunica"},
			{ID: 33, CompetencyID: 22, DisplayName: "Infiere"},
			{ID: 34, CompetencyID: 23, DisplayName: "Adecúa"},
			{ID: 39, CompetencyID: 29, DisplayName: "Orphan ability"},
		},
		Criteria: []models.Criterion{
			{ID: 41, AbilityID: 31, DisplayName: "Identifica datos"},
			{ID: 42, AbilityID: 31, DisplayName: "Expresa"},
			{ID: 43, AbilityID: 32, DisplayName: "Explica"},
			{ID: 44, AbilityID: 33, DisplayName: "Deduce"},
			{ID: 49, AbilityID: 39, DisplayName: "Orphan criterion"},
		},
		Values: []models.Value{
			{StudentID: 1, CriterionID: 41, Value: "AD"},
			{StudentID: 1, CriterionID: 42, Value: "B"},
			{StudentID: 1, CriterionID: 43, Value: "C"},
			{StudentID: 2, CriterionID: 41, Value: "X"},
			{StudentID: 2, CriterionID: 44, Value: "A"},
			{StudentID: 3, CriterionID: 49, Value: "AD"},
			{StudentID: 7, CriterionID: 41, Value: "AD"},
		},
		Observations: []models.Observation{
			{StudentID: 1, AbilityID: 31, Observation: "Bien"},
			{StudentID: 2, AbilityID: 34, Observation: "Mejorar ortografía"},
			{StudentID: 3, AbilityID: 33, Observation: ""},
			{StudentID: 3, AbilityID: 39, Observation: "Orphan"},
		},
	}
}

func mustCompare(tag string) Compare {
	cmp, err := NewCompare(tag)
	if err != nil {
		panic(err)
	}
	return cmp
}
