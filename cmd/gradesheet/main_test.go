package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ukaji3/gradesheet-go/internal/config"
	"github.com/ukaji3/gradesheet-go/internal/source"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/inspect"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

func setupTest(t *testing.T) {
	t.Helper()
	var err error
	cfg, err = config.Load(config.LoadOptions{})
	require.NoError(t, err)
	logger = zap.NewNop()
}

func writeSnapshot(t *testing.T, dir string) string {
	t.Helper()
	data, err := source.Encode(models.Snapshot{
		Students:     []models.Student{{ID: 1, FullName: "Rojas, Eva"}},
		Sessions:     []models.Session{{ID: 1, Number: 1}},
		Competencies: []models.Competency{{ID: 1, SessionID: 1, DisplayName: "Comunica"}},
		Abilities:    []models.Ability{{ID: 1, CompetencyID: 1, DisplayName: "Expresa"}},
		Criteria:     []models.Criterion{{ID: 1, AbilityID: 1, DisplayName: "Claridad"}},
		Values:       []models.Value{{StudentID: 1, CriterionID: 1, Value: "AD"}},
	})
	require.NoError(t, err)
	path := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExportCmd_ToFile(t *testing.T) {
	setupTest(t)
	dir := t.TempDir()
	input := writeSnapshot(t, dir)
	output := filepath.Join(dir, "out", "grades.xlsx")

	cmd := newExportCmd()
	cmd.SetArgs([]string{"--input", input, "--output", output, "--labels", "es", "--no-observations"})
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Execute())

	report, err := inspect.Open(output)
	require.NoError(t, err)
	require.Len(t, report.Sheets, 1)
	assert.Equal(t, "Consolidado", report.Sheets[0].Name)
}

func TestExportCmd_ToStdout(t *testing.T) {
	setupTest(t)
	input := writeSnapshot(t, t.TempDir())

	var out bytes.Buffer
	cmd := newExportCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--input", input, "--output", "-"})
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Execute())

	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("PK")))
}

func TestExportCmd_RequiresInput(t *testing.T) {
	setupTest(t)

	cmd := newExportCmd()
	cmd.SetArgs([]string{"--output", "-"})
	cmd.SetContext(context.Background())
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	assert.Error(t, cmd.Execute())
}

func TestApplyExportFlags(t *testing.T) {
	setupTest(t)

	cmd := newExportCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--section", "42", "--averages", "--no-icon", "--order", "alphabetical"}))
	f := &exportFlags{}
	f.section, _ = cmd.Flags().GetInt64("section")
	f.averages, _ = cmd.Flags().GetBool("averages")
	f.noIcon, _ = cmd.Flags().GetBool("no-icon")
	f.order, _ = cmd.Flags().GetString("order")

	opts := gradesheet.DefaultOptions()
	require.NoError(t, applyExportFlags(cmd, f, &opts))

	assert.Equal(t, "consolidado_seccion_42.xlsx", opts.FileName)
	assert.True(t, opts.ComputeAverages)
	assert.False(t, opts.ShouldShowIcon())
	assert.True(t, opts.ShouldEmitObservations())
	assert.Equal(t, gradesheet.OrderAlphabetical, opts.StudentOrder)

	f.labels = "fr"
	assert.Error(t, applyExportFlags(cmd, f, &opts))
}

func TestInspectCmd(t *testing.T) {
	setupTest(t)
	dir := t.TempDir()
	input := writeSnapshot(t, dir)
	output := filepath.Join(dir, "grades.xlsx")

	export := newExportCmd()
	export.SetArgs([]string{"--input", input, "--output", output})
	export.SetContext(context.Background())
	require.NoError(t, export.Execute())

	var out bytes.Buffer
	cmd := newInspectCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{output})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"book_name":"grades.xlsx"`)
	assert.Contains(t, out.String(), `"name":"Consolidated"`)
	assert.Contains(t, out.String(), `"name":"Observations"`)
}
