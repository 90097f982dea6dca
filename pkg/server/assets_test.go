package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/vpbrowse/internal/errors"
)

type fakeS3 struct {
	objects map[string]string
	err     error
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.keys = append(f.keys, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewBufferString(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("text/css"),
		ETag:          aws.String(`"abc"`),
		LastModified:  &modified,
	}, nil
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/b.txt", "hello")
	src := NewDirSource(dir)

	a, err := src.Open(context.Background(), "a/b.txt")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer a.Body.Close()
	data, _ := io.ReadAll(a.Body)
	if string(data) != "hello" || a.Size != 5 {
		t.Fatalf("asset = %q size %d", data, a.Size)
	}

	for _, name := range []string{"missing.txt", "a"} {
		_, err := src.Open(context.Background(), name)
		if !stderrors.Is(err, errors.New("E301")) {
			t.Errorf("Open(%q) error = %v, want E301", name, err)
		}
	}
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"site/styles.css": "body{}"}}
	src := NewS3Source(client, "bucket", "site")

	a, err := src.Open(context.Background(), "styles.css")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	data, _ := io.ReadAll(a.Body)
	a.Body.Close()
	if string(data) != "body{}" {
		t.Fatalf("body = %q", data)
	}
	if a.Size != 6 || a.ContentType != "text/css" || a.ETag != `"abc"` || a.ModTime.IsZero() {
		t.Fatalf("asset = %+v", a)
	}
	if client.keys[0] != "bucket/site/styles.css" {
		t.Fatalf("requested %q", client.keys[0])
	}

	if _, err := src.Open(context.Background(), "missing.css"); !stderrors.Is(err, errors.New("E301")) {
		t.Fatalf("missing key error = %v, want E301", err)
	}

	client.err = stderrors.New("connection refused")
	if _, err := src.Open(context.Background(), "styles.css"); !stderrors.Is(err, errors.New("E302")) {
		t.Fatalf("failure error = %v, want E302", err)
	}
}

func TestServerWithS3Assets(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"styles.css": "body{}"}}
	s, _ := newTestServer(t, Config{Assets: NewS3Source(client, "bucket", "")})

	rec := get(t, s.Handler(), "/styles.css")
	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Fatalf("asset: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("ETag") != `"abc"` || rec.Header().Get("Content-Length") != "6" {
		t.Fatalf("headers = %v", rec.Header())
	}

	head := httptest.NewRecorder()
	s.Handler().ServeHTTP(head, httptest.NewRequest(http.MethodHead, "/styles.css", nil))
	if head.Code != http.StatusOK || head.Body.Len() != 0 {
		t.Fatalf("HEAD: %d with %d bytes", head.Code, head.Body.Len())
	}

	client.err = stderrors.New("timeout")
	if rec := get(t, s.Handler(), "/styles.css"); rec.Code != http.StatusBadGateway {
		t.Fatalf("unavailable source: status = %d, want 502", rec.Code)
	}
}

func TestEnvCredentials(t *testing.T) {
	anon := envCredentials(func(string) string { return "" })
	if _, ok := anon.(aws.AnonymousCredentials); !ok {
		t.Fatalf("provider = %T, want anonymous", anon)
	}

	env := map[string]string{"AWS_ACCESS_KEY_ID": "id", "AWS_SECRET_ACCESS_KEY": "secret"}
	creds, err := envCredentials(func(k string) string { return env[k] }).Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Fatalf("creds = %+v", creds)
	}
}
