package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers path style GetObject and PutObject requests for a single
// bucket.
type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.contentTypes[r.URL.Path])
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.objects[r.URL.Path] = body
		f.contentTypes[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := aws.Config{
		Region:      "ap-northeast-1",
		Credentials: credentials.NewStaticCredentialsProvider("key", "secret", ""),
		HTTPClient:  srv.Client(),
	}

	return NewS3Store(NewS3ClientFromConfig(cfg, srv.URL), "bucket"), fake
}

func TestS3StoreGetNotFound(t *testing.T) {
	store, _ := newTestS3Store(t)

	_, err := store.Get(context.Background(), "youtube_videos/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StoreGet(t *testing.T) {
	store, fake := newTestS3Store(t)
	fake.objects["/bucket/youtube_videos/UC1/videos.csv"] = []byte("a,b\n1,2\n")
	fake.contentTypes["/bucket/youtube_videos/UC1/videos.csv"] = ContentTypeCSV

	act, err := store.Get(context.Background(), "youtube_videos/UC1/videos.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(act))
}

func TestS3StorePut(t *testing.T) {
	store, fake := newTestS3Store(t)

	require.NoError(t, store.Put(context.Background(), "out.json", []byte(`{"a":1}`), ContentTypeJSON))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, `{"a":1}`, string(fake.objects["/bucket/out.json"]))
	assert.Equal(t, ContentTypeJSON, fake.contentTypes["/bucket/out.json"])
}
