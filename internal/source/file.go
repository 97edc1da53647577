package source

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

// FileSource reads JSON snapshots. Path is either one snapshot file, used for
// every section, or a directory holding "<sectionID>.json" files.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

// NewFileSource returns a FileSource on the OS filesystem.
func NewFileSource(path string) *FileSource {
	return &FileSource{Fs: afero.NewOsFs(), Path: path}
}

func (s *FileSource) Load(ctx context.Context, sectionID int64) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}

	path := s.Path
	info, err := s.Fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Snapshot{}, errors.Wrapf(ErrSectionNotFound, "snapshot %s", path)
		}
		return models.Snapshot{}, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		path = filepath.Join(path, strconv.FormatInt(sectionID, 10)+".json")
	}

	data, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Snapshot{}, errors.Wrapf(ErrSectionNotFound, "section %d", sectionID)
		}
		return models.Snapshot{}, errors.Wrapf(err, "read %s", path)
	}
	return Decode(data)
}
