package layout

import (
	"sort"
	"strings"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Compare orders two display names. It returns a negative number, zero or a
// positive number like strings.Compare.
type Compare func(a, b string) int

// NewCompare returns a collation-aware comparison for a BCP-47 language tag.
// An empty tag falls back to byte order. The returned function is not safe for
// concurrent use; build one per export.
func NewCompare(tag string) (Compare, error) {
	if tag == "" {
		return strings.Compare, nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return nil, err
	}
	c := collate.New(t)
	return c.CompareString, nil
}

// Hierarchy is the rubric tree grouped by parent id, each group sorted.
// Groups are built once and shared read-only by the later stages.
type Hierarchy struct {
	// Sessions are sorted by number ascending.
	Sessions []models.Session

	competencies map[int64][]models.Competency
	abilities    map[int64][]models.Ability
	criteria     map[int64][]models.Criterion
}

// NewHierarchy groups the snapshot's flat arrays by parent. Sessions are sorted
// by number, everything else by display name inside its parent. Sorting is
// stable so equal names keep snapshot order. Duplicates are kept.
func NewHierarchy(s models.Snapshot, cmp Compare) *Hierarchy {
	if cmp == nil {
		cmp = strings.Compare
	}

	h := &Hierarchy{
		Sessions:     append([]models.Session(nil), s.Sessions...),
		competencies: make(map[int64][]models.Competency),
		abilities:    make(map[int64][]models.Ability),
		criteria:     make(map[int64][]models.Criterion),
	}
	sort.SliceStable(h.Sessions, func(i, j int) bool {
		return h.Sessions[i].Number < h.Sessions[j].Number
	})

	for _, c := range s.Competencies {
		h.competencies[c.SessionID] = append(h.competencies[c.SessionID], c)
	}
	for _, a := range s.Abilities {
		h.abilities[a.CompetencyID] = append(h.abilities[a.CompetencyID], a)
	}
	for _, cr := range s.Criteria {
		h.criteria[cr.AbilityID] = append(h.criteria[cr.AbilityID], cr)
	}

	for _, l := range h.competencies {
		sort.SliceStable(l, func(i, j int) bool { return cmp(l[i].DisplayName, l[j].DisplayName) < 0 })
	}
	for _, l := range h.abilities {
		sort.SliceStable(l, func(i, j int) bool { return cmp(l[i].DisplayName, l[j].DisplayName) < 0 })
	}
	for _, l := range h.criteria {
		sort.SliceStable(l, func(i, j int) bool { return cmp(l[i].DisplayName, l[j].DisplayName) < 0 })
	}

	return h
}

// Competencies returns the sorted competencies of a session.
func (h *Hierarchy) Competencies(sessionID int64) []models.Competency {
	return h.competencies[sessionID]
}

// Abilities returns the sorted abilities of a competency.
func (h *Hierarchy) Abilities(competencyID int64) []models.Ability {
	return h.abilities[competencyID]
}

// Criteria returns the sorted criteria of an ability.
func (h *Hierarchy) Criteria(abilityID int64) []models.Criterion {
	return h.criteria[abilityID]
}

// Dangling counts snapshot rows that point at entities missing from the
// snapshot. Such rows are left out of the export; the counts are only reported.
type Dangling struct {
	Competencies int
	Abilities    int
	Criteria     int
	Values       int
	Observations int
}

// Total returns the number of dropped rows.
func (d Dangling) Total() int {
	return d.Competencies + d.Abilities + d.Criteria + d.Values + d.Observations
}

// CountDangling reports how many rows of the snapshot reference a missing parent.
func CountDangling(s models.Snapshot) Dangling {
	var d Dangling

	sessions := make(map[int64]struct{}, len(s.Sessions))
	for _, x := range s.Sessions {
		sessions[x.ID] = struct{}{}
	}
	competencies := make(map[int64]struct{}, len(s.Competencies))
	for _, x := range s.Competencies {
		competencies[x.ID] = struct{}{}
		if _, ok := sessions[x.SessionID]; !ok {
			d.Competencies++
		}
	}
	abilities := make(map[int64]struct{}, len(s.Abilities))
	for _, x := range s.Abilities {
		abilities[x.ID] = struct{}{}
		if _, ok := competencies[x.CompetencyID]; !ok {
			d.Abilities++
		}
	}
	criteria := make(map[int64]struct{}, len(s.Criteria))
	for _, x := range s.Criteria {
		criteria[x.ID] = struct{}{}
		if _, ok := abilities[x.AbilityID]; !ok {
			d.Criteria++
		}
	}
	students := make(map[int64]struct{}, len(s.Students))
	for _, x := range s.Students {
		students[x.ID] = struct{}{}
	}
	for _, v := range s.Values {
		_, okS := students[v.StudentID]
		_, okC := criteria[v.CriterionID]
		if !okS || !okC {
			d.Values++
		}
	}
	for _, o := range s.Observations {
		_, okS := students[o.StudentID]
		_, okA := abilities[o.AbilityID]
		if !okS || !okA {
			d.Observations++
		}
	}

	return d
}
