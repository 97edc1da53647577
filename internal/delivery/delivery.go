// Package delivery hands finished workbooks to their destination.
package delivery

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// ContentType is the media type of xlsx files.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Receipt describes a delivered workbook.
type Receipt struct {
	// Location is a path, an s3:// URL or "-" for a stream.
	Location string `json:"location"`
	Size     int    `json:"size"`
}

// Sink stores or streams a workbook under a file name.
type Sink interface {
	Deliver(ctx context.Context, name string, data []byte) (Receipt, error)
}

// WriterSink copies the workbook to W, e.g. stdout.
type WriterSink struct {
	W io.Writer
}

func (s *WriterSink) Deliver(ctx context.Context, name string, data []byte) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if _, err := s.W.Write(data); err != nil {
		return Receipt{}, errors.Wrapf(err, "write %s", name)
	}
	return Receipt{Location: "-", Size: len(data)}, nil
}
