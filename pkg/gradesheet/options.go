// Package gradesheet compiles a section's evaluation snapshot into the
// consolidated grade workbook.
package gradesheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StudentOrder decides the row order of the consolidated sheet.
type StudentOrder string

const (
	// OrderSnapshot keeps students in the order the snapshot lists them.
	OrderSnapshot StudentOrder = "snapshot"
	// OrderAlphabetical sorts students by full name.
	OrderAlphabetical StudentOrder = "alphabetical"
)

// ObservationGlyph marks observation columns and cells.
const ObservationGlyph = "📝"

// DefaultFileName is used when Options.FileName is empty.
const DefaultFileName = "consolidated.xlsx"

// SectionFileName is the default file name for a section export.
func SectionFileName(sectionID int64) string {
	return "consolidado_seccion_" + strconv.FormatInt(sectionID, 10) + ".xlsx"
}

// Palette holds the header fill colours and the border colour. Each colour is
// "RRGGBB", "#RRGGBB" or "AARRGGBB"; the alpha byte is dropped.
type Palette struct {
	Session        string `mapstructure:"session" validate:"len=6,hexadecimal"`
	Competency     string `mapstructure:"competency" validate:"len=6,hexadecimal"`
	Ability        string `mapstructure:"ability" validate:"len=6,hexadecimal"`
	FixedColumns   string `mapstructure:"fixedColumns" validate:"len=6,hexadecimal"`
	Observation    string `mapstructure:"observation" validate:"len=6,hexadecimal"`
	AbilityAverage string `mapstructure:"abilityAverage" validate:"len=6,hexadecimal"`
	Border         string `mapstructure:"border" validate:"len=6,hexadecimal"`
}

// DefaultPalette returns the stock colours.
func DefaultPalette() Palette {
	return Palette{
		Session:        "F2F3F5",
		Competency:     "F2F3F5",
		Ability:        "E8EAED",
		FixedColumns:   "E8EAED",
		Observation:    "FFF9C4",
		AbilityAverage: "DEECF7",
		Border:         "444444",
	}
}

// Labels are the fixed strings written into the workbook.
type Labels struct {
	MainSheet         string `mapstructure:"mainSheet" validate:"required,max=31,excludesall=:\\/?*[]"`
	NotesSheet        string `mapstructure:"notesSheet" validate:"required,max=31,excludesall=:\\/?*[],nefield=MainSheet"`
	Index             string `mapstructure:"index"`
	Name              string `mapstructure:"name"`
	AbilityAverage    string `mapstructure:"abilityAverage"`
	CompetencyAverage string `mapstructure:"competencyAverage"`
	NotesStudent      string `mapstructure:"notesStudent"`
	NotesAbility      string `mapstructure:"notesAbility"`
	NotesObservation  string `mapstructure:"notesObservation"`
}

// DefaultLabels returns English labels.
func DefaultLabels() Labels {
	return Labels{
		MainSheet:         "Consolidated",
		NotesSheet:        "Observations",
		Index:             "No.",
		Name:              "Full name",
		AbilityAverage:    "average capacity",
		CompetencyAverage: "average",
		NotesStudent:      "Student",
		NotesAbility:      "Ability",
		NotesObservation:  "Observation",
	}
}

// SpanishLabels returns the labels used by Peruvian schools.
func SpanishLabels() Labels {
	return Labels{
		MainSheet:         "Consolidado",
		NotesSheet:        "Observaciones",
		Index:             "N°",
		Name:              "APELLIDOS Y NOMBRES",
		AbilityAverage:    "PROMED CAP.",
		CompetencyAverage: "PROMED",
		NotesStudent:      "Alumno",
		NotesAbility:      "Habilidad",
		NotesObservation:  "Observación",
	}
}

// LabelsFor returns the label set for a language code ("en" or "es").
func LabelsFor(code string) (Labels, bool) {
	switch strings.ToLower(code) {
	case "", "en":
		return DefaultLabels(), true
	case "es":
		return SpanishLabels(), true
	}
	return Labels{}, false
}

// Options configures an export. The zero value is not ready to use; start
// from DefaultOptions.
type Options struct {
	// FileName is the suggested name of the produced file.
	FileName string `validate:"required,endswith=.xlsx"`
	// ObservationsSheet emits the secondary sheet. If nil, defaults to true.
	ObservationsSheet *bool
	// ComputeAverages fills ability and competency averages. Off by default so
	// teachers can fill them by hand.
	ComputeAverages bool
	// ShowIcon writes the observation glyph. If nil, defaults to true.
	ShowIcon *bool
	// StudentOrder is the row order of the consolidated sheet.
	StudentOrder StudentOrder `validate:"oneof=snapshot alphabetical"`
	// Language is the BCP-47 tag used to collate display names. Empty means
	// the default, "es".
	Language string `validate:"omitempty,bcp47_language_tag"`
	Palette  Palette
	Labels   Labels
	// CreatedAt is written to the document properties. Zero keeps the output
	// byte-for-byte stable across runs.
	CreatedAt time.Time
	// Logger receives debug output. Nil discards it.
	Logger *zap.Logger `validate:"-"`
}

// DefaultOptions returns default export options.
func DefaultOptions() Options {
	return Options{
		FileName:     DefaultFileName,
		StudentOrder: OrderSnapshot,
		Language:     "es",
		Palette:      DefaultPalette(),
		Labels:       DefaultLabels(),
	}
}

// ShouldEmitObservations returns whether the observations sheet is produced.
func (o Options) ShouldEmitObservations() bool {
	if o.ObservationsSheet != nil {
		return *o.ObservationsSheet
	}
	return true
}

// ShouldShowIcon returns whether the observation glyph is written.
func (o Options) ShouldShowIcon() bool {
	if o.ShowIcon != nil {
		return *o.ShowIcon
	}
	return true
}

// Bool returns a pointer to b, for the optional flags.
func Bool(b bool) *bool {
	return &b
}

var validate = validator.New()

// Normalize fills every empty field with its default and normalizes colours,
// so a caller may override a single colour or label.
func (o Options) Normalize() Options {
	def := DefaultOptions()
	fill(&o.FileName, def.FileName)
	if o.StudentOrder == "" {
		o.StudentOrder = def.StudentOrder
	}
	fill(&o.Language, def.Language)

	p, dp := &o.Palette, def.Palette
	fill(&p.Session, dp.Session)
	fill(&p.Competency, dp.Competency)
	fill(&p.Ability, dp.Ability)
	fill(&p.FixedColumns, dp.FixedColumns)
	fill(&p.Observation, dp.Observation)
	fill(&p.AbilityAverage, dp.AbilityAverage)
	fill(&p.Border, dp.Border)
	for _, c := range []*string{&p.Session, &p.Competency, &p.Ability, &p.FixedColumns, &p.Observation, &p.AbilityAverage, &p.Border} {
		*c = NormalizeColor(*c)
	}

	l, dl := &o.Labels, def.Labels
	fill(&l.MainSheet, dl.MainSheet)
	fill(&l.NotesSheet, dl.NotesSheet)
	fill(&l.Index, dl.Index)
	fill(&l.Name, dl.Name)
	fill(&l.AbilityAverage, dl.AbilityAverage)
	fill(&l.CompetencyAverage, dl.CompetencyAverage)
	fill(&l.NotesStudent, dl.NotesStudent)
	fill(&l.NotesAbility, dl.NotesAbility)
	fill(&l.NotesObservation, dl.NotesObservation)
	return o
}

func fill(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// Validate checks normalized options.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(&OptionsError{Err: err}, "validate options")
	}
	return nil
}

// NormalizeColor turns "#RRGGBB", "AARRGGBB" or "RRGGBB" into upper-case "RRGGBB".
// Anything else is returned upper-cased for Validate to reject.
func NormalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}
