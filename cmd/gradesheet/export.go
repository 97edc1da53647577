package main

import (
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/gradesheet-go/internal/delivery"
	"github.com/ukaji3/gradesheet-go/internal/source"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

type exportFlags struct {
	input          string
	section        int64
	output         string
	fileName       string
	averages       bool
	noObservations bool
	noIcon         bool
	order          string
	labels         string
	lang           string
}

func newExportCmd() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build the consolidated workbook of a section",
		Example: `  gradesheet export --input snapshot.json --output consolidated.xlsx
  gradesheet export --section 42 --averages --labels es
  cat snapshot.json | gradesheet export --input - --output - > out.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", `Snapshot JSON file or directory of "<section>.json" files ("-" for stdin)`)
	fl.Int64Var(&f.section, "section", 0, "Section id to load from the configured source")
	fl.StringVarP(&f.output, "output", "o", "", `Output file ("-" for stdout; default: configured delivery)`)
	fl.StringVar(&f.fileName, "filename", "", "File name of the workbook")
	fl.BoolVar(&f.averages, "averages", false, "Compute ability and competency averages")
	fl.BoolVar(&f.noObservations, "no-observations", false, "Do not emit the observations sheet")
	fl.BoolVar(&f.noIcon, "no-icon", false, "Do not write the observation glyph")
	fl.StringVar(&f.order, "order", "", "Student order: snapshot, alphabetical")
	fl.StringVar(&f.labels, "labels", "", "Label set: en, es")
	fl.StringVar(&f.lang, "lang", "", "BCP-47 collation language for display names")
	return cmd
}

func runExport(cmd *cobra.Command, f *exportFlags) error {
	ctx := cmd.Context()

	opts, err := cfg.Export.Options()
	if err != nil {
		return err
	}
	if err := applyExportFlags(cmd, f, &opts); err != nil {
		return err
	}
	opts.Logger = logger

	snapshot, err := loadSnapshot(cmd, f)
	if err != nil {
		return err
	}

	data, err := gradesheet.Export(snapshot, opts)
	if err != nil {
		return err
	}

	sink, name := delivery.Sink(nil), opts.FileName
	switch f.output {
	case "":
		if sink, err = newSink(ctx, cfg.Delivery); err != nil {
			return err
		}
	case "-":
		sink = &delivery.WriterSink{W: cmd.OutOrStdout()}
	default:
		sink = delivery.NewFileSink(filepath.Dir(f.output))
		name = filepath.Base(f.output)
	}

	rec, err := sink.Deliver(ctx, name, data)
	if err != nil {
		return err
	}
	logger.Info("workbook exported",
		zap.String("location", rec.Location),
		zap.Int("bytes", rec.Size),
		zap.Int("students", len(snapshot.Students)),
	)
	return nil
}

func applyExportFlags(cmd *cobra.Command, f *exportFlags, opts *gradesheet.Options) error {
	fl := cmd.Flags()
	if fl.Changed("averages") {
		opts.ComputeAverages = f.averages
	}
	if fl.Changed("no-observations") {
		opts.ObservationsSheet = gradesheet.Bool(!f.noObservations)
	}
	if fl.Changed("no-icon") {
		opts.ShowIcon = gradesheet.Bool(!f.noIcon)
	}
	if f.order != "" {
		opts.StudentOrder = gradesheet.StudentOrder(f.order)
	}
	if f.lang != "" {
		opts.Language = f.lang
	}
	if f.labels != "" {
		labels, ok := gradesheet.LabelsFor(f.labels)
		if !ok {
			return errors.Errorf("unknown labels %q", f.labels)
		}
		opts.Labels = labels
	}
	switch {
	case f.fileName != "":
		opts.FileName = f.fileName
	case f.section > 0 && opts.FileName == gradesheet.DefaultFileName:
		opts.FileName = gradesheet.SectionFileName(f.section)
	}
	return nil
}

func loadSnapshot(cmd *cobra.Command, f *exportFlags) (models.Snapshot, error) {
	ctx := cmd.Context()
	switch f.input {
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return models.Snapshot{}, errors.Wrap(err, "read stdin")
		}
		return source.Decode(data)
	case "":
		if f.section <= 0 {
			return models.Snapshot{}, errors.New("either --input or --section is required")
		}
		src, closeSrc, err := newSource(ctx, cfg.Source)
		if err != nil {
			return models.Snapshot{}, err
		}
		defer closeSrc()
		if src == nil {
			return models.Snapshot{}, errors.New("--section needs source.driver to be configured")
		}
		return src.Load(ctx, f.section)
	default:
		return source.NewFileSource(f.input).Load(ctx, f.section)
	}
}
