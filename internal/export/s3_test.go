package export

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPut struct {
	method string
	path   string
	body   string
}

func TestS3Uploader_Upload(t *testing.T) {
	var (
		mu  sync.Mutex
		got []recordedPut
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, recordedPut{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := NewS3Uploader(context.Background(), S3Config{
		Bucket:          "exports",
		Prefix:          "reports/",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	}, zerolog.Nop())
	require.NoError(t, err)

	loc, err := u.Upload(context.Background(), "spy.csv", "text/csv", strings.NewReader("returns\n0.01\n"))
	require.NoError(t, err)
	assert.Contains(t, loc, "reports/spy.csv")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/exports/reports/spy.csv", got[0].path)
	assert.Contains(t, got[0].body, "returns\n0.01\n")
}

func TestS3Uploader_Key(t *testing.T) {
	u := &S3Uploader{prefix: "reports/"}
	assert.Equal(t, "reports/a.xlsx", u.Key("a.xlsx"))

	u = &S3Uploader{}
	assert.Equal(t, "a.xlsx", u.Key("a.xlsx"))
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{Region: "us-east-1"}, zerolog.Nop())
	assert.Error(t, err)
}
