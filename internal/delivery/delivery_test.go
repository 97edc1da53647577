package delivery

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &WriterSink{W: &buf}

	rec, err := sink.Deliver(context.Background(), "out.xlsx", []byte("PK\x03\x04"))
	require.NoError(t, err)
	assert.Equal(t, Receipt{Location: "-", Size: 4}, rec)
	assert.Equal(t, "PK\x03\x04", buf.String())
}

func TestFileSink(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := &FileSink{Fs: fs, Dir: "/exports"}

	rec, err := sink.Deliver(context.Background(), "consolidated.xlsx", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "/exports/consolidated.xlsx", rec.Location)
	assert.Equal(t, 4, rec.Size)

	got, err := afero.ReadFile(fs, "/exports/consolidated.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	// Overwrites in place and leaves no temporary files behind.
	_, err = sink.Deliver(context.Background(), "consolidated.xlsx", []byte("again"))
	require.NoError(t, err)
	entries, err := afero.ReadDir(fs, "/exports")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "consolidated.xlsx", entries[0].Name())
}

func TestFileSink_RejectsPaths(t *testing.T) {
	sink := &FileSink{Fs: afero.NewMemMapFs(), Dir: "/exports"}
	for _, name := range []string{"", "../x.xlsx", "a/b.xlsx"} {
		_, err := sink.Deliver(context.Background(), name, []byte("x"))
		assert.Error(t, err, name)
	}
}

// putRecorder is a fake S3 endpoint that accepts PutObject requests.
type putRecorder struct {
	mu      sync.Mutex
	objects map[string]recorded
	status  int
}

type recorded struct {
	body               []byte
	contentType        string
	contentDisposition string
}

func (m *putRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != 0 {
		body := `<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`
		return &http.Response{StatusCode: m.status, Body: io.NopCloser(strings.NewReader(body)), Header: http.Header{"Content-Type": {"application/xml"}}}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusMethodNotAllowed, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	}
	body, _ := io.ReadAll(req.Body)
	m.objects[strings.TrimPrefix(req.URL.Path, "/")] = recorded{
		body:               body,
		contentType:        req.Header.Get("Content-Type"),
		contentDisposition: req.Header.Get("Content-Disposition"),
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{"ETag": {`"etag123"`}}}, nil
}

func newMockS3Sink(t *testing.T, rt http.RoundTripper) *S3Sink {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	sink := NewS3SinkFromClient(client, "grades", "exports")
	sink.newID = func() string { return "0b6e9d2a-1111-4c3b-9f00-000000000001" }
	return sink
}

func TestS3Sink(t *testing.T) {
	rt := &putRecorder{objects: map[string]recorded{}}
	sink := newMockS3Sink(t, rt)

	rec, err := sink.Deliver(context.Background(), "consolidado_seccion_4.xlsx", []byte("xlsx-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "s3://grades/exports/0b6e9d2a-1111-4c3b-9f00-000000000001/consolidado_seccion_4.xlsx", rec.Location)
	assert.Equal(t, 10, rec.Size)

	obj, ok := rt.objects["grades/exports/0b6e9d2a-1111-4c3b-9f00-000000000001/consolidado_seccion_4.xlsx"]
	require.True(t, ok)
	assert.Equal(t, "xlsx-bytes", string(obj.body))
	assert.Equal(t, ContentType, obj.contentType)
	assert.Contains(t, obj.contentDisposition, "consolidado_seccion_4.xlsx")
}

func TestS3Sink_Error(t *testing.T) {
	sink := newMockS3Sink(t, &putRecorder{objects: map[string]recorded{}, status: http.StatusForbidden})
	_, err := sink.Deliver(context.Background(), "a.xlsx", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://grades/exports/")
}

func TestS3Sink_DefaultKeys(t *testing.T) {
	sink := NewS3SinkFromClient(nil, "b", "")
	id := sink.newID()
	assert.Len(t, id, 36)
	assert.Equal(t, id+"/a.xlsx", sink.Key(id, "a.xlsx"))
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{})
	assert.Error(t, err)
}
