package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
)

// CSVWriter grows a CSV object by appending rows to whatever is already
// stored at a key.
//
// The merge is a read followed by a full overwrite, not a conditional write.
// Two runs appending to the same key at the same time can lose one of the
// batches. Only one job may write a given key at a time.
type CSVWriter struct {
	store ObjectStore
}

func NewCSVWriter(store ObjectStore) *CSVWriter {
	return &CSVWriter{store: store}
}

// MergeAppend appends rows to the object at key. If there is no object yet,
// the header line is written first. Existing content is kept as is, apart
// from trailing line breaks, which are normalized to a single newline. The
// header is only used for a new object, it is not compared with the stored
// one.
func (w *CSVWriter) MergeAppend(ctx context.Context, key string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	existing, err := w.store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		existing = nil
	case err != nil:
		return fmt.Errorf("failed to read existing csv %s: %w", key, err)
	}

	body := mergeCSV(existing, header, rows)
	if err := w.store.Put(ctx, key, body, ContentTypeCSV); err != nil {
		return fmt.Errorf("failed to write csv %s: %w", key, err)
	}

	return nil
}

func mergeCSV(existing []byte, header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	existing = bytes.TrimRight(existing, "\r\n")
	if len(existing) == 0 {
		writeLine(&buf, header)
	} else {
		buf.Write(existing)
		buf.WriteByte('\n')
	}
	for _, row := range rows {
		writeLine(&buf, row)
	}

	return buf.Bytes()
}

// encodeCSV renders a complete CSV document with a header line.
func encodeCSV(header []string, rows [][]string) []byte {
	return mergeCSV(nil, header, rows)
}

func writeLine(buf *bytes.Buffer, fields []string) {
	buf.WriteString(strings.Join(fields, ","))
	buf.WriteByte('\n')
}
