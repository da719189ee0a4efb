package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Sink writes job results to an object store. JSON and per-run CSV objects
// are replaced, cumulative CSV objects are merge-appended.
type Sink struct {
	store ObjectStore
	csv   *CSVWriter
}

func NewSink(store ObjectStore) *Sink {
	return &Sink{
		store: store,
		csv:   NewCSVWriter(store),
	}
}

func (s *Sink) PutJSON(ctx context.Context, key string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := s.store.Put(ctx, key, buf.Bytes(), ContentTypeJSON); err != nil {
		return fmt.Errorf("failed to write json %s: %w", key, err)
	}

	return nil
}

func (s *Sink) PutCSV(ctx context.Context, key string, header []string, rows [][]string) error {
	if err := s.store.Put(ctx, key, encodeCSV(header, rows), ContentTypeCSV); err != nil {
		return fmt.Errorf("failed to write csv %s: %w", key, err)
	}

	return nil
}

func (s *Sink) MergeCSV(ctx context.Context, key string, header []string, rows [][]string) error {
	return s.csv.MergeAppend(ctx, key, header, rows)
}
