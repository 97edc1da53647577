package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/gradesheet-go/internal/delivery"
	"github.com/ukaji3/gradesheet-go/internal/source"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

type stubSource map[int64]models.Snapshot

func (s stubSource) Load(_ context.Context, sectionID int64) (models.Snapshot, error) {
	if sectionID == 500 {
		return models.Snapshot{}, errors.New("database is down")
	}
	snap, ok := s[sectionID]
	if !ok {
		return models.Snapshot{}, errors.Wrapf(source.ErrSectionNotFound, "section %d", sectionID)
	}
	return snap, nil
}

func snapshot() models.Snapshot {
	return models.Snapshot{
		Students:     []models.Student{{ID: 1, FullName: "ALVA, Rosa"}},
		Sessions:     []models.Session{{ID: 1, Number: 1}},
		Competencies: []models.Competency{{ID: 1, SessionID: 1, DisplayName: "Reads"}},
		Abilities:    []models.Ability{{ID: 1, CompetencyID: 1, DisplayName: "Infers"}},
		Criteria:     []models.Criterion{{ID: 1, AbilityID: 1, DisplayName: "Main idea"}},
		Values:       []models.Value{{StudentID: 1, CriterionID: 1, Value: "A"}},
		Observations: []models.Observation{{StudentID: 1, AbilityID: 1, Observation: "Reads aloud well"}},
	}
}

func newTestServer(src source.Source) Server {
	return NewServer(&Options{
		DisableReqLogs: true,
		BodyLimit:      "1M",
		Export:         gradesheet.DefaultOptions(),
		Source:         src,
	})
}

func do(t *testing.T, app http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHomeAndHealth(t *testing.T) {
	app := newTestServer(nil)

	rec := do(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, app, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestExportFromBody(t *testing.T) {
	app := newTestServer(nil)
	body, err := json.Marshal(snapshot())
	require.NoError(t, err)

	rec := do(t, app, http.MethodPost, "/v1/consolidated?labels=es&averages=true&filename=notas.xlsx", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, delivery.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=notas.xlsx`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Consolidado", "Observaciones"}, f.GetSheetList())

	// Ability average of a single "A" is 3.
	v, err := f.GetCellValue("Consolidado", "E5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestExportFromBody_NoObservations(t *testing.T) {
	app := newTestServer(nil)
	body, err := json.Marshal(snapshot())
	require.NoError(t, err)

	rec := do(t, app, http.MethodPost, "/v1/consolidated?observations=false", body)
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Consolidated"}, f.GetSheetList())
}

func TestExportFromBody_BadRequests(t *testing.T) {
	app := newTestServer(nil)
	body, err := json.Marshal(snapshot())
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		body   []byte
		want   string
	}{
		{"invalid json", "/v1/consolidated", []byte(`{"students":`), "invalid snapshot"},
		{"invalid flag", "/v1/consolidated?averages=maybe", body, "invalid value for averages"},
		{"unknown labels", "/v1/consolidated?labels=fr", body, "unknown labels fr"},
		{"invalid file name", "/v1/consolidated?filename=grades.csv", body, "invalid export options"},
		{"invalid order", "/v1/consolidated?order=random", body, "invalid export options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, app, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.want)
		})
	}
}

func TestExportFromSection(t *testing.T) {
	app := newTestServer(stubSource{4: snapshot()})

	rec := do(t, app, http.MethodGet, "/v1/sections/4/consolidated", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=consolidado_seccion_4.xlsx`, rec.Header().Get("Content-Disposition"))

	rec = do(t, app, http.MethodGet, "/v1/sections/9/consolidated", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "section not found", errorMessage(t, rec))

	rec = do(t, app, http.MethodGet, "/v1/sections/abc/consolidated", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, app, http.MethodGet, "/v1/sections/500/consolidated", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), errorMessage(t, rec))
}

func TestExportFromSection_NoSource(t *testing.T) {
	app := newTestServer(nil)
	rec := do(t, app, http.MethodGet, "/v1/sections/4/consolidated", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	app := newTestServer(nil)
	body, err := json.Marshal(snapshot())
	require.NoError(t, err)

	do(t, app, http.MethodPost, "/v1/consolidated", body)
	do(t, app, http.MethodPost, "/v1/consolidated?filename=x.txt", body)

	rec := do(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.True(t, strings.Contains(out, `gradesheet_exports_total{status="ok"} 1`), out)
	assert.True(t, strings.Contains(out, `gradesheet_exports_total{status="error"} 1`), out)
	assert.Contains(t, out, "gradesheet_export_bytes_count 1")
	assert.Contains(t, out, "gradesheet_export_duration_seconds_count 1")
}
