package delivery

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FileSink writes workbooks into Dir. The file appears atomically: data goes
// to a temporary file that is renamed once complete.
type FileSink struct {
	Fs  afero.Fs
	Dir string
}

// NewFileSink returns a FileSink on the OS filesystem.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Fs: afero.NewOsFs(), Dir: dir}
}

func (s *FileSink) Deliver(ctx context.Context, name string, data []byte) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if name == "" || filepath.Base(name) != name {
		return Receipt{}, errors.Errorf("invalid file name %q", name)
	}

	if err := s.Fs.MkdirAll(s.Dir, 0o755); err != nil {
		return Receipt{}, errors.Wrapf(err, "create %s", s.Dir)
	}

	tmp, err := afero.TempFile(s.Fs, s.Dir, "."+name+".*")
	if err != nil {
		return Receipt{}, errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.Fs.Remove(tmpName)
		return Receipt{}, errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = s.Fs.Remove(tmpName)
		return Receipt{}, errors.Wrapf(err, "close %s", tmpName)
	}

	dst := filepath.Join(s.Dir, name)
	if err := s.Fs.Rename(tmpName, dst); err != nil {
		_ = s.Fs.Remove(tmpName)
		return Receipt{}, errors.Wrapf(err, "rename to %s", dst)
	}
	return Receipt{Location: dst, Size: len(data)}, nil
}
