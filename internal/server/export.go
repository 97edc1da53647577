package server

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ukaji3/gradesheet-go/internal/delivery"
	"github.com/ukaji3/gradesheet-go/internal/source"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

type exportAPI struct {
	base    gradesheet.Options
	source  source.Source
	log     *zap.Logger
	metrics *metrics
}

// fromBody exports the JSON snapshot posted in the request body.
func (api *exportAPI) fromBody(ctx echo.Context) error {
	opts, err := api.bindOptions(ctx, "")
	if err != nil {
		return err
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	snapshot, err := source.Decode(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid snapshot").SetInternal(err)
	}
	return api.export(ctx, snapshot, opts)
}

// fromSection loads the snapshot of a section from the configured source.
func (api *exportAPI) fromSection(ctx echo.Context) error {
	if api.source == nil {
		return errNoSource
	}
	sectionID, err := strconv.ParseInt(ctx.Param("sectionID"), 10, 64)
	if err != nil || sectionID <= 0 {
		return errInvalidSection
	}
	opts, err := api.bindOptions(ctx, gradesheet.SectionFileName(sectionID))
	if err != nil {
		return err
	}

	snapshot, err := api.source.Load(ctx.Request().Context(), sectionID)
	if err != nil {
		return errors.Wrapf(err, "load section %d", sectionID)
	}
	return api.export(ctx, snapshot, opts)
}

func (api *exportAPI) export(ctx echo.Context, snapshot models.Snapshot, opts gradesheet.Options) error {
	opts.Logger = api.log

	start := time.Now()
	data, err := gradesheet.Export(snapshot, opts)
	api.metrics.observe(time.Since(start).Seconds(), len(data), err)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": opts.FileName}))
	return ctx.Blob(http.StatusOK, delivery.ContentType, data)
}

// bindOptions applies query parameters on top of the configured defaults.
// fileName, when set, replaces the configured file name unless the query
// names one.
func (api *exportAPI) bindOptions(ctx echo.Context, fileName string) (gradesheet.Options, error) {
	opts := api.base
	if fileName != "" {
		opts.FileName = fileName
	}

	flags := []struct {
		param string
		apply func(bool)
	}{
		{"averages", func(b bool) { opts.ComputeAverages = b }},
		{"observations", func(b bool) { opts.ObservationsSheet = gradesheet.Bool(b) }},
		{"icon", func(b bool) { opts.ShowIcon = gradesheet.Bool(b) }},
	}
	for _, f := range flags {
		raw := ctx.QueryParam(f.param)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, echo.NewHTTPError(http.StatusBadRequest, "invalid value for "+f.param)
		}
		f.apply(b)
	}

	if v := ctx.QueryParam("order"); v != "" {
		opts.StudentOrder = gradesheet.StudentOrder(v)
	}
	if v := ctx.QueryParam("lang"); v != "" {
		opts.Language = v
	}
	if v := ctx.QueryParam("labels"); v != "" {
		labels, ok := gradesheet.LabelsFor(v)
		if !ok {
			return opts, echo.NewHTTPError(http.StatusBadRequest, "unknown labels "+v)
		}
		opts.Labels = labels
	}
	if v := ctx.QueryParam("filename"); v != "" {
		opts.FileName = v
	}
	return opts, nil
}
