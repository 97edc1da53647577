package source

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

const (
	RequestTimeout   = 30 * time.Second
	RetryCount       = 3
	RetryWaitTime    = 100 * time.Millisecond
	RetryWaitTimeMax = 2 * time.Second
)

// HTTPSource fetches snapshots from GET {base}/sections/{id}/consolidado.
type HTTPSource struct {
	client *resty.Client
}

// NewHTTPSource creates a source for the API at baseURL.
func NewHTTPSource(baseURL string) *HTTPSource {
	c := resty.New()
	c.SetBaseURL(strings.TrimRight(baseURL, "/"))
	c.SetHeader("Accept", "application/json")
	c.SetHeader("User-Agent", "gradesheet")
	c.SetTimeout(RequestTimeout)
	c.SetRetryCount(RetryCount)
	c.SetRetryWaitTime(RetryWaitTime)
	c.SetRetryMaxWaitTime(RetryWaitTimeMax)
	c.AddRetryCondition(func(response *resty.Response, err error) bool {
		if response == nil {
			return false
		}
		switch response.StatusCode() {
		case
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	})
	return &HTTPSource{client: c}
}

// Client exposes the underlying client, mainly for tests.
func (s *HTTPSource) Client() *resty.Client {
	return s.client
}

// SetToken sends a bearer token with every request.
func (s *HTTPSource) SetToken(token string) {
	if token != "" {
		s.client.SetAuthToken(token)
	}
}

func (s *HTTPSource) Load(ctx context.Context, sectionID int64) (models.Snapshot, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("sectionID", strconv.FormatInt(sectionID, 10)).
		Get("/sections/{sectionID}/consolidado")
	if err != nil {
		return models.Snapshot{}, errors.Wrapf(err, "fetch section %d", sectionID)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return models.Snapshot{}, errors.Wrapf(ErrSectionNotFound, "section %d", sectionID)
	case resp.IsError():
		return models.Snapshot{}, errors.Errorf("fetch section %d: unexpected status %d", sectionID, resp.StatusCode())
	}
	return Decode(resp.Body())
}
