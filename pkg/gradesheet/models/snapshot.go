// Package models defines the data structures shared by the gradesheet pipeline.
package models

import "strconv"

// Student is one row of the consolidated sheet.
type Student struct {
	// ID is the student identifier.
	ID int64 `json:"id" db:"id"`
	// FullName is the display name, usually "surnames, names".
	FullName string `json:"full_name" db:"full_name"`
}

// Session groups the competencies worked in one class session.
type Session struct {
	// ID is the session identifier.
	ID int64 `json:"id" db:"id"`
	// Number orders sessions inside a section.
	Number int `json:"number" db:"number"`
	// Title is the optional session title. When empty the header reads "S<Number>".
	Title *string `json:"title" db:"title"`
}

// Competency belongs to a Session.
type Competency struct {
	ID          int64  `json:"id" db:"id"`
	SessionID   int64  `json:"session_id" db:"session_id"`
	DisplayName string `json:"display_name" db:"display_name"`
}

// Ability belongs to a Competency.
type Ability struct {
	ID           int64  `json:"id" db:"id"`
	CompetencyID int64  `json:"competency_id" db:"competency_id"`
	DisplayName  string `json:"display_name" db:"display_name"`
}

// Criterion belongs to an Ability and is the leaf of the rubric.
type Criterion struct {
	ID          int64  `json:"id" db:"id"`
	AbilityID   int64  `json:"ability_id" db:"ability_id"`
	DisplayName string `json:"display_name" db:"display_name"`
}

// Value is the grade a student got on one criterion (AD, A, B or C).
type Value struct {
	StudentID   int64  `json:"student_id" db:"student_id"`
	CriterionID int64  `json:"criterion_id" db:"criterion_id"`
	Value       string `json:"value" db:"value"`
}

// Observation is a free-text teacher remark on a (student, ability) pair.
type Observation struct {
	StudentID   int64  `json:"student_id" db:"student_id"`
	AbilityID   int64  `json:"ability_id" db:"ability_id"`
	Observation string `json:"observation" db:"observation"`
}

// Snapshot is the denormalized evaluation hierarchy of one section.
// The export engine only reads it.
type Snapshot struct {
	Students     []Student     `json:"students"`
	Sessions     []Session     `json:"sessions"`
	Competencies []Competency  `json:"competencies"`
	Abilities    []Ability     `json:"abilities"`
	Criteria     []Criterion   `json:"criteria"`
	Values       []Value       `json:"values"`
	Observations []Observation `json:"observations"`
}

// Label returns the session title, or "S<number>" when the title is empty.
func (s Session) Label() string {
	if s.Title != nil && *s.Title != "" {
		return *s.Title
	}
	return "S" + strconv.Itoa(s.Number)
}
