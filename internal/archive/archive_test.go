package archive

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncra/paritarias/pkg/errors"
)

// mockRoundTripper accepts PutObject calls and keeps the bodies by path.
type mockRoundTripper struct {
	mu      sync.Mutex
	status  int
	objects map[string][]byte
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != 0 {
		return &http.Response{StatusCode: m.status, Body: io.NopCloser(strings.NewReader("<Error><Code>AccessDenied</Code></Error>")), Header: http.Header{}}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: 501, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	body, _ := io.ReadAll(req.Body)
	m.objects[req.URL.Path] = body
	return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {`"etag"`}}}, nil
}

func newMockArchiver(t *testing.T, rt *mockRoundTripper) *Archiver {
	t.Helper()
	a, err := New(context.Background(),
		Config{Bucket: "paritarias", Endpoint: "https://mock.s3.local", PathStyle: true, Prefix: "runs"},
		WithHTTPClient(&http.Client{Transport: rt}),
		WithCredentials(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	return a
}

func TestPut(t *testing.T) {
	rt := &mockRoundTripper{objects: map[string][]byte{}}
	a := newMockArchiver(t, rt)

	snap := Snapshot{
		Scheme:      "sanidad",
		Mode:        "table",
		Delta:       2.5,
		Description: "Ajuste automático IPC INDEC: 2.5% (Mes: 2026-08-01)",
		SavedAt:     time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Records:     []map[string]any{{"jurisdiccion": "caba"}},
	}
	key, err := a.Put(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "runs/sanidad/20260901T120000Z.json", key)

	body, ok := rt.objects["/paritarias/runs/sanidad/20260901T120000Z.json"]
	require.True(t, ok, "objects: %v", rt.objects)
	// The SDK may send the payload aws-chunked, so look for content rather than exact bytes.
	assert.True(t, bytes.Contains(body, []byte(`"jurisdiccion": "caba"`)))
	assert.True(t, bytes.Contains(body, []byte(`"delta_pct": 2.5`)))
}

func TestPutError(t *testing.T) {
	rt := &mockRoundTripper{status: http.StatusForbidden, objects: map[string][]byte{}}
	a := newMockArchiver(t, rt)

	_, err := a.Put(context.Background(), Snapshot{Scheme: "federal", SavedAt: time.Now()})
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
