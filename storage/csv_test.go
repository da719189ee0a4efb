package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	getErr error
	putErr error
}

func (f *failingStore) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, f.getErr
}

func (f *failingStore) Put(_ context.Context, _ string, _ []byte, _ string) error {
	return f.putErr
}

func TestMergeAppendNewKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	w := NewCSVWriter(store)

	rows := [][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}
	require.NoError(t, w.MergeAppend(ctx, "data.csv", []string{"a", "b"}, rows))

	obj, ok := store.Object("data.csv")
	require.True(t, ok)
	assert.Equal(t, "a,b\n1,2\n3,4\n5,6\n", string(obj.Body))
	assert.Equal(t, ContentTypeCSV, obj.ContentType)
	assert.Equal(t, 1, strings.Count(string(obj.Body), "a,b"))
}

func TestMergeAppendExisting(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name     string
		existing string
		exp      string
	}{
		{
			name:     "trailing newline",
			existing: "a,b\n1,2\n",
			exp:      "a,b\n1,2\n3,4\n",
		},
		{
			name:     "no trailing newline",
			existing: "a,b\n1,2",
			exp:      "a,b\n1,2\n3,4\n",
		},
		{
			name:     "trailing blank line",
			existing: "a,b\n1,2\n\n",
			exp:      "a,b\n1,2\n3,4\n",
		},
		{
			name:     "crlf",
			existing: "a,b\r\n1,2\r\n",
			exp:      "a,b\r\n1,2\n3,4\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Put(ctx, "data.csv", []byte(tc.existing), ContentTypeCSV))

			w := NewCSVWriter(store)
			require.NoError(t, w.MergeAppend(ctx, "data.csv", []string{"a", "b"}, [][]string{{"3", "4"}}))

			act, err := store.Get(ctx, "data.csv")
			require.NoError(t, err)
			assert.Equal(t, tc.exp, string(act))
		})
	}
}

func TestMergeAppendKeepsPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	existing := "x,y,z\nfoo，bar,1,2\nbaz,3,4\n"
	require.NoError(t, store.Put(ctx, "k", []byte(existing), ContentTypeCSV))

	w := NewCSVWriter(store)
	require.NoError(t, w.MergeAppend(ctx, "k", []string{"other", "header"}, [][]string{{"q", "5", "6"}}))
	require.NoError(t, w.MergeAppend(ctx, "k", []string{"other", "header"}, [][]string{{"r", "7", "8"}}))

	act, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(act), existing))
	assert.Equal(t, existing+"q,5,6\nr,7,8\n", string(act))
}

func TestMergeAppendEmptyObject(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "k", []byte("\n"), ContentTypeCSV))

	require.NoError(t, NewCSVWriter(store).MergeAppend(ctx, "k", []string{"a"}, [][]string{{"1"}}))

	act, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(act))
}

func TestMergeAppendNoRows(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, NewCSVWriter(store).MergeAppend(context.Background(), "k", []string{"a"}, nil))

	_, ok := store.Object("k")
	assert.False(t, ok)
}

func TestMergeAppendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("read", func(t *testing.T) {
		w := NewCSVWriter(&failingStore{getErr: boom})
		err := w.MergeAppend(ctx, "k", []string{"a"}, [][]string{{"1"}})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("write", func(t *testing.T) {
		w := NewCSVWriter(&failingStore{getErr: ErrNotFound, putErr: boom})
		err := w.MergeAppend(ctx, "k", []string{"a"}, [][]string{{"1"}})
		assert.ErrorIs(t, err, boom)
	})
}
