package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ukaji3/gradesheet-go/internal/source"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet"
)

var (
	errNoSource       = echo.NewHTTPError(http.StatusNotFound, "no snapshot source configured")
	errInvalidSection = echo.NewHTTPError(http.StatusBadRequest, "invalid section id")
)

// newHTTPErrorHandler maps engine and source errors to status codes. Only
// server errors are logged.
func newHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case *gradesheet.OptionsError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			switch {
			case errors.Is(err, source.ErrSectionNotFound):
				code = http.StatusNotFound
				message = "section not found"
			case errors.Is(err, gradesheet.ErrTooManyColumns):
				code = http.StatusBadRequest
				message = gradesheet.ErrTooManyColumns.Error()
			default:
				code = http.StatusInternalServerError
				message = http.StatusText(code)
				log.Error("request failed", zap.Error(err), zap.String("uri", ctx.Request().RequestURI))
			}
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, echo.Map{"error": message})
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}
