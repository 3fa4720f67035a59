package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	errs "github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/host/memdom"
	"github.com/vango-dev/livetree/pkg/reconcile"
	"github.com/vango-dev/livetree/pkg/vdom"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

type memSink map[string][]byte

func (m memSink) Put(_ context.Context, key string, data []byte) error {
	m[key] = data
	return nil
}

func take(t *testing.T) *Snapshot {
	t.Helper()
	doc := memdom.New()
	root := doc.CreateElement("div", "")
	reconcile.NewEngine().Render(vdom.Host(vdom.Span("hi")), root, reconcile.DefaultPass)
	return Take("step-1", doc, root)
}

func TestTake(t *testing.T) {
	snap := take(t)
	if snap.HTML != "<div><span>hi</span></div>" {
		t.Errorf("HTML = %q", snap.HTML)
	}
	if snap.Tree == nil || snap.Tree.Tag != "div" {
		t.Errorf("Tree = %+v, want div", snap.Tree)
	}
	if len(snap.Mutations) == 0 {
		t.Error("Mutations should not be empty")
	}
	if snap.TakenAt.IsZero() {
		t.Error("TakenAt should be set")
	}
}

func TestSaveEncodesJSON(t *testing.T) {
	sink := memSink{}
	if err := Save(context.Background(), sink, take(t)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, ok := sink["step-1.json"]
	if !ok {
		t.Fatalf("keys = %v, want step-1.json", sink)
	}
	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Name != "step-1" || got.HTML != "<div><span>hi</span></div>" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestSaveRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "a/b", `a\b`, "..", "x..y"} {
		snap := &Snapshot{Name: name}
		err := Save(context.Background(), memSink{}, snap)
		if !errors.Is(err, errs.New("E040")) {
			t.Errorf("Save(%q) error = %v, want E040", name, err)
		}
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	sink := NewFileSink(dir)
	if err := Save(context.Background(), sink, take(t)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "step-1.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"name": "step-1"`) {
		t.Errorf("file = %s", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestFileSinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewFileSink(t.TempDir()).Put(ctx, "x.json", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

func TestS3Sink(t *testing.T) {
	client := &fakeS3{}
	sink := NewS3Sink(client, "bucket", "snaps")
	if err := Save(context.Background(), sink, take(t)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(client.inputs))
	}
	in := client.inputs[0]
	if *in.Bucket != "bucket" || *in.Key != "snaps/step-1.json" || *in.ContentType != "application/json" {
		t.Errorf("input = bucket %q key %q type %q", *in.Bucket, *in.Key, *in.ContentType)
	}
	if !strings.Contains(client.bodies[0], `"html"`) {
		t.Errorf("body = %s", client.bodies[0])
	}
}

func TestS3SinkError(t *testing.T) {
	client := &fakeS3{err: errors.New("denied")}
	err := Save(context.Background(), NewS3Sink(client, "b", ""), take(t))
	if !errors.Is(err, errs.New("E040")) {
		t.Errorf("Save() error = %v, want E040", err)
	}
	if !strings.Contains(err.Error(), "denied") {
		t.Errorf("Save() error = %v, want cause denied", err)
	}
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client(ClientOptions{Region: "us-east-1", Endpoint: "http://localhost:9000"})
	o := c.Options()
	if o.Region != "us-east-1" || !o.UsePathStyle || o.BaseEndpoint == nil || *o.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("options = region %q path %v endpoint %v", o.Region, o.UsePathStyle, o.BaseEndpoint)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); err == nil {
		t.Error("envCredentials() with empty env should fail")
	}
	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil || creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("envCredentials() = %+v, %v", creds, err)
	}
}
