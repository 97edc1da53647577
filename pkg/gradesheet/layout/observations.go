package layout

import (
	"sort"
	"strings"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

// ObservationKey identifies the observation of one student on one ability.
type ObservationKey struct {
	StudentID int64
	AbilityID int64
}

// NoteRow is one row of the observations sheet.
type NoteRow struct {
	Key     ObservationKey
	Student string
	Ability string
	Text    string
}

// ObservationIndex is the observations table plus a reverse index from
// (student, ability) to the table position.
type ObservationIndex struct {
	// Rows are sorted by student name, then ability name.
	Rows []NoteRow

	position map[ObservationKey]int
}

// BuildObservationIndex collects every observation with non-empty text whose
// student exists and whose ability hangs off an existing session. When a pair
// appears twice the last one wins.
func BuildObservationIndex(s models.Snapshot, cmp Compare) *ObservationIndex {
	if cmp == nil {
		cmp = strings.Compare
	}

	students := make(map[int64]string, len(s.Students))
	for _, st := range s.Students {
		students[st.ID] = st.FullName
	}
	abilities := reachableAbilities(s)

	ix := &ObservationIndex{position: make(map[ObservationKey]int)}
	seen := make(map[ObservationKey]int)
	for _, o := range s.Observations {
		if o.Observation == "" {
			continue
		}
		student, okS := students[o.StudentID]
		ability, okA := abilities[o.AbilityID]
		if !okS || !okA {
			continue
		}
		key := ObservationKey{StudentID: o.StudentID, AbilityID: o.AbilityID}
		row := NoteRow{Key: key, Student: student, Ability: ability, Text: o.Observation}
		if i, dup := seen[key]; dup {
			ix.Rows[i] = row
			continue
		}
		seen[key] = len(ix.Rows)
		ix.Rows = append(ix.Rows, row)
	}

	sort.SliceStable(ix.Rows, func(i, j int) bool {
		if c := cmp(ix.Rows[i].Student, ix.Rows[j].Student); c != 0 {
			return c < 0
		}
		return cmp(ix.Rows[i].Ability, ix.Rows[j].Ability) < 0
	})
	for i, r := range ix.Rows {
		ix.position[r.Key] = i
	}

	return ix
}

// Len returns the number of observations in the table.
func (ix *ObservationIndex) Len() int { return len(ix.Rows) }

// Present reports whether the student has an observation on the ability.
func (ix *ObservationIndex) Present(key ObservationKey) bool {
	_, ok := ix.position[key]
	return ok
}

// Text returns the full observation text.
func (ix *ObservationIndex) Text(key ObservationKey) (string, bool) {
	i, ok := ix.position[key]
	if !ok {
		return "", false
	}
	return ix.Rows[i].Text, true
}

// SheetRow returns the 0-based row of the observation on the observations
// sheet, whose row 0 is the header.
func (ix *ObservationIndex) SheetRow(key ObservationKey) (int, bool) {
	i, ok := ix.position[key]
	if !ok {
		return 0, false
	}
	return i + 1, true
}

// reachableAbilities returns the display names of abilities whose competency
// and session both exist.
func reachableAbilities(s models.Snapshot) map[int64]string {
	sessions := make(map[int64]bool, len(s.Sessions))
	for _, se := range s.Sessions {
		sessions[se.ID] = true
	}
	competencies := make(map[int64]bool, len(s.Competencies))
	for _, c := range s.Competencies {
		if sessions[c.SessionID] {
			competencies[c.ID] = true
		}
	}
	abilities := make(map[int64]string, len(s.Abilities))
	for _, ab := range s.Abilities {
		if competencies[ab.CompetencyID] {
			abilities[ab.ID] = ab.DisplayName
		}
	}
	return abilities
}
