package s3report

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type captured struct {
	mu          sync.Mutex
	method      string
	path        string
	body        string
	contentType string
}

func newTestPublisher(t *testing.T, status int) (*Publisher, *captured) {
	t.Helper()
	c := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.method = r.Method
		c.path = r.URL.Path
		c.body = string(body)
		c.contentType = r.Header.Get("Content-Type")
		c.mu.Unlock()
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	}
	return NewPublisher(cfg, "bench-results", "fsbench", server.URL, slog.Default()), c
}

// TestKey_Layout verifies reports are grouped by host and named by counter.
func TestKey_Layout(t *testing.T) {
	p := &Publisher{prefix: "fsbench"}
	if got := p.Key("host-a", 20000); got != "fsbench/host-a/20000.json" {
		t.Errorf("Key = %q", got)
	}

	p = &Publisher{}
	if got := p.Key("host-a", 10000); got != "host-a/10000.json" {
		t.Errorf("Key without prefix = %q", got)
	}
}

// TestPut_UploadsBody verifies the object lands at bucket/key with the JSON
// body and content type.
func TestPut_UploadsBody(t *testing.T) {
	pub, c := newTestPublisher(t, http.StatusOK)

	body := []byte(`{"counter":10000}`)
	if err := pub.Put(context.Background(), pub.Key("host-a", 10000), body); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.method != http.MethodPut {
		t.Errorf("method = %s, want PUT", c.method)
	}
	if c.path != "/bench-results/fsbench/host-a/10000.json" {
		t.Errorf("path = %q", c.path)
	}
	if c.body != string(body) {
		t.Errorf("body = %q", c.body)
	}
	if c.contentType != "application/json" {
		t.Errorf("content type = %q", c.contentType)
	}
}

// TestPut_ServerError verifies a failed upload is returned to the caller
// rather than swallowed.
func TestPut_ServerError(t *testing.T) {
	pub, _ := newTestPublisher(t, http.StatusForbidden)

	if err := pub.Put(context.Background(), "k.json", []byte("{}")); err == nil {
		t.Fatal("expected error on 403")
	}
}
