package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockRoundTripper is a tiny fake S3 (path-style) good enough for Put/Get/Head/Delete.
type mockRoundTripper struct {
	mu    sync.Mutex
	state map[string]stored
}

type stored struct {
	body        []byte
	contentType string
}

func xmlResponse(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body)), Header: http.Header{"Content-Type": {"application/xml"}}}
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch req.Method {
	case http.MethodHead:
		if st, ok := m.state[key]; ok {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{
				"Content-Length": {fmt.Sprintf("%d", len(st.body))},
				"Content-Type":   {st.contentType},
				"ETag":           {"\"etag123\""},
				"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
			}}, nil
		}
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		m.state[key] = stored{body: body, contentType: req.Header.Get("Content-Type")}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
	case http.MethodGet:
		if st, ok := m.state[key]; ok {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(st.body)), Header: http.Header{
				"Content-Length": {fmt.Sprintf("%d", len(st.body))},
				"Content-Type":   {st.contentType},
				"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
				"ETag":           {"\"etag\""},
			}}, nil
		}
		return xmlResponse(http.StatusNotFound, "<?xml version=\"1.0\"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>"), nil
	case http.MethodDelete:
		delete(m.state, key)
		return &http.Response{StatusCode: http.StatusNoContent, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
}

// decodeChunked strips a single-chunk aws-chunked body: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	var sz int
	if _, err := fmt.Sscanf(parts[0], "%x", &sz); err != nil || sz != len(parts[1]) {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newMockS3(t *testing.T, prefix string) (*S3, *mockRoundTripper) {
	t.Helper()
	rt := &mockRoundTripper{state: map[string]stored{}}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		t.Fatalf("cfg: %v", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
	})
	return &S3{client: client, bucket: "rnaseqkit-test", prefix: prefix}, rt
}

func TestS3MockedFlow(t *testing.T) {
	st, rt := newMockS3(t, "runs/abc/")
	ctx := context.Background()

	if _, err := st.Put(ctx, "selected_genomes.txt", strings.NewReader("g1\ng2\n"), PutOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := rt.state["runs/abc/selected_genomes.txt"]; !ok {
		t.Fatalf("object not stored under prefix: %v", rt.state)
	}
	// overwrite
	if _, err := st.Put(ctx, "selected_genomes.txt", strings.NewReader("g3\n"), PutOptions{}); err != nil {
		t.Fatalf("put again: %v", err)
	}
	_, rc, err := st.Get(ctx, "selected_genomes.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "g3\n" {
		t.Fatalf("body = %q", body)
	}
	if info, err := st.Head(ctx, "selected_genomes.txt"); err != nil || info.Size != 3 {
		t.Fatalf("head: %+v %v", info, err)
	}

	if _, err := st.Put(ctx, "clusters.csv", strings.NewReader("genome,cluster\n"), PutOptions{}); err != nil {
		t.Fatal(err)
	}
	if info, err := st.Head(ctx, "clusters.csv"); err != nil || info.Size != 15 {
		t.Fatalf("head clusters: %+v %v", info, err)
	}

	if ok, err := st.Delete(ctx, "clusters.csv"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if _, _, err := st.Get(ctx, "clusters.csv"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := st.Head(ctx, "clusters.csv"); err != ErrNotFound {
		t.Fatalf("head after delete: want ErrNotFound, got %v", err)
	}
	if st.Driver() != DriverS3 {
		t.Fatal("driver")
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	t.Setenv("RNASEQKIT_S3_BUCKET", "")
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Fatal("want bucket error")
	}
}
