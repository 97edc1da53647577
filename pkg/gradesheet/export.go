package gradesheet

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/layout"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/writer"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Creator is written to the document properties.
const Creator = "gradesheet"

// Export compiles the snapshot into xlsx bytes. It reads the snapshot only and
// keeps no state between calls, so concurrent exports are safe.
func Export(snapshot models.Snapshot, opts Options) ([]byte, error) {
	wb, err := Build(snapshot, opts)
	if err != nil {
		return nil, err
	}

	data, err := writer.Write(wb)
	if err != nil {
		var werr *writer.Error
		if errors.As(err, &werr) {
			return nil, NewExportError(werr.Sheet, werr.Stage, werr.Err)
		}
		return nil, NewExportError("", writer.StageSerialize, err)
	}

	logger(opts).Debug("workbook serialized", zap.Int("bytes", len(data)))
	return data, nil
}

// ExportTo writes the workbook to w. The workbook is fully built before the
// first byte is written.
func ExportTo(w io.Writer, snapshot models.Snapshot, opts Options) error {
	data, err := Export(snapshot, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

// Build runs every stage except serialization and returns the render IR.
func Build(snapshot models.Snapshot, opts Options) (*models.RenderWorkbook, error) {
	opts = opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := logger(opts)

	cmp, err := layout.NewCompare(opts.Language)
	if err != nil {
		return nil, errors.Wrap(&OptionsError{Err: err}, "language")
	}

	if d := layout.CountDangling(snapshot); d.Total() > 0 {
		log.Debug("dropping dangling references",
			zap.Int("competencies", d.Competencies),
			zap.Int("abilities", d.Abilities),
			zap.Int("criteria", d.Criteria),
			zap.Int("values", d.Values),
			zap.Int("observations", d.Observations),
		)
	}

	marker := ""
	if opts.ShouldShowIcon() {
		marker = ObservationGlyph
	}

	hierarchy := layout.NewHierarchy(snapshot, cmp)
	schema := layout.BuildSchema(hierarchy, layout.HeaderLabels{
		Index:             opts.Labels.Index,
		Name:              opts.Labels.Name,
		AbilityAverage:    opts.Labels.AbilityAverage,
		CompetencyAverage: opts.Labels.CompetencyAverage,
		ObservationMarker: marker,
	})
	if schema.Width > excelize.MaxColumns {
		return nil, NewExportError(opts.Labels.MainSheet, writer.StageLayout, ErrTooManyColumns)
	}

	notes := layout.BuildObservationIndex(snapshot, cmp)
	students := orderStudents(snapshot.Students, opts.StudentOrder, cmp)
	pop := layout.NewPopulator(snapshot, &schema, notes, layout.PopulateOptions{
		ComputeAverages:   opts.ComputeAverages,
		ObservationMarker: marker,
	})
	links := layout.BindLinks(&schema, students, notes, layout.LinkTargets{
		MainSheet:    opts.Labels.MainSheet,
		NotesSheet:   opts.Labels.NotesSheet,
		NotesEnabled: opts.ShouldEmitObservations(),
	})

	palette := layout.Palette{
		Session:        opts.Palette.Session,
		Competency:     opts.Palette.Competency,
		Ability:        opts.Palette.Ability,
		Fixed:          opts.Palette.FixedColumns,
		Observation:    opts.Palette.Observation,
		AbilityAverage: opts.Palette.AbilityAverage,
		Border:         opts.Palette.Border,
	}

	wb := &models.RenderWorkbook{Creator: Creator, CreatedAt: opts.CreatedAt}
	wb.Sheets = append(wb.Sheets, layout.MainSheet(opts.Labels.MainSheet, &schema, students, pop, links, palette))
	if opts.ShouldEmitObservations() {
		wb.Sheets = append(wb.Sheets, layout.NotesSheet(opts.Labels.NotesSheet, notes, layout.NotesLabels{
			Student:     opts.Labels.NotesStudent,
			Ability:     opts.Labels.NotesAbility,
			Observation: opts.Labels.NotesObservation,
		}, palette))
	}

	log.Debug("workbook laid out",
		zap.Int("columns", schema.Width),
		zap.Int("students", len(students)),
		zap.Int("merges", len(schema.Merges)),
		zap.Int("links", len(links)),
		zap.Int("observations", notes.Len()),
	)
	return wb, nil
}

// orderStudents returns the main-sheet row order without touching the input.
func orderStudents(students []models.Student, order StudentOrder, cmp layout.Compare) []models.Student {
	if order != OrderAlphabetical {
		return students
	}
	sorted := append([]models.Student(nil), students...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return cmp(sorted[i].FullName, sorted[j].FullName) < 0
	})
	return sorted
}

func logger(opts Options) *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}
