// Package source loads section snapshots from files, an HTTP API or SQLite.
package source

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
)

// ErrSectionNotFound is returned when the section does not exist.
var ErrSectionNotFound = errors.New("section not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source returns the snapshot of one section.
type Source interface {
	Load(ctx context.Context, sectionID int64) (models.Snapshot, error)
}

// Decode parses a JSON snapshot.
func Decode(data []byte) (models.Snapshot, error) {
	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Snapshot{}, errors.Wrap(err, "decode snapshot")
	}
	return s, nil
}

// Encode renders a snapshot as indented JSON.
func Encode(s models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return data, nil
}
