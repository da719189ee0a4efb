package storage

import (
	"context"
	"errors"

	"ewintr.nl/ytharvest/model"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
)

var ErrNotFound = errors.New("object not found")

// ObjectStore is a flat key to bytes store. Get returns ErrNotFound when
// there is no object for the key. Put replaces the whole object, a reader
// never sees a partially written object.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type RunRepository interface {
	Record(ctx context.Context, run *model.JobRun) error
}
