package testsupport

import (
	"io"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
)

// FakeBucket is an in-memory S3 server holding a single bucket.
type FakeBucket struct {
	// Endpoint is the server URL. Clients must use path-style addressing.
	Endpoint string

	name    string
	backend *s3mem.Backend
}

// FakeS3 starts an in-memory S3 server with bucket already created.
func FakeS3(t testing.TB, bucket string) *FakeBucket {
	t.Helper()

	backend := s3mem.New()
	if err := backend.CreateBucket(bucket); err != nil {
		t.Fatalf("create fake bucket: %v", err)
	}
	ts := httptest.NewServer(gofakes3.New(backend).Server())
	t.Cleanup(ts.Close)
	return &FakeBucket{Endpoint: ts.URL, name: bucket, backend: backend}
}

// Object returns the content stored under key and whether it exists.
func (b *FakeBucket) Object(t testing.TB, key string) ([]byte, bool) {
	t.Helper()
	obj, err := b.backend.GetObject(b.name, key, nil)
	if err != nil {
		return nil, false
	}
	defer obj.Contents.Close()
	data, err := io.ReadAll(obj.Contents)
	if err != nil {
		t.Fatalf("read fake object %s: %v", key, err)
	}
	return data, true
}

// Keys lists every object key in the bucket, sorted.
func (b *FakeBucket) Keys(t testing.TB) []string {
	t.Helper()
	list, err := b.backend.ListBucket(b.name, nil, gofakes3.ListBucketPage{})
	if err != nil {
		t.Fatalf("list fake bucket: %v", err)
	}
	keys := make([]string, 0, len(list.Contents))
	for _, item := range list.Contents {
		keys = append(keys, item.Key)
	}
	sort.Strings(keys)
	return keys
}
