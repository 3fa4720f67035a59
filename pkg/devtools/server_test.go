package devtools

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/host/memdom"
	"github.com/vango-dev/livetree/pkg/reconcile"
	"github.com/vango-dev/livetree/pkg/vdom"
)

type countingTracker struct {
	mu      sync.Mutex
	current int
}

func (c *countingTracker) ClientConnected()    { c.mu.Lock(); c.current++; c.mu.Unlock() }
func (c *countingTracker) ClientDisconnected() { c.mu.Lock(); c.current--; c.mu.Unlock() }

func setup(t *testing.T, opts ...Option) (*memdom.Document, host.Element, *Server, *httptest.Server) {
	t.Helper()
	doc := memdom.New()
	root := doc.CreateElement("main", "")
	reconcile.NewEngine().Render(vdom.Host(vdom.P(vdom.Class("x"), "hi")), root, reconcile.DefaultPass)

	s := New(doc, root, opts...)
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return doc, root, s, ts
}

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/mutations" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMutation(t *testing.T, conn *websocket.Conn) memdom.Mutation {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m memdom.Mutation
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return m
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	_, _, _, ts := setup(t)
	code, _, body := get(t, ts.URL+"/healthz")
	if code != http.StatusOK || body != "ok" {
		t.Errorf("GET /healthz = %d %q, want 200 ok", code, body)
	}
}

func TestTreeHTML(t *testing.T) {
	_, _, _, ts := setup(t)
	code, ct, body := get(t, ts.URL+"/tree")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if want := `<main><p class="x">hi</p></main>`; body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestTreeJSON(t *testing.T) {
	_, _, _, ts := setup(t)
	_, ct, body := get(t, ts.URL+"/tree.json")
	if ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var snap memdom.NodeSnapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if snap.Tag != "main" || len(snap.Children) != 1 || snap.Children[0].Tag != "p" {
		t.Errorf("snapshot = %+v, want main > p", snap)
	}
}

func TestMetricsRoute(t *testing.T) {
	_, _, _, ts := setup(t)
	if code, _, _ := get(t, ts.URL+"/metrics"); code != http.StatusNotFound {
		t.Errorf("GET /metrics without handler = %d, want 404", code)
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("metrics")) })
	_, _, _, ts2 := setup(t, WithMetrics(h))
	if _, _, body := get(t, ts2.URL+"/metrics"); body != "metrics" {
		t.Errorf("GET /metrics = %q, want metrics", body)
	}
}

func TestMutationStream(t *testing.T) {
	tracker := &countingTracker{}
	_, root, s, ts := setup(t, WithClientTracker(tracker))
	conn := dial(t, ts, "")
	waitFor(t, func() bool { return s.Clients() == 1 })

	root.SetAttribute("data-step", "1")
	m := readMutation(t, conn)
	if m.Kind != memdom.MutSetAttribute || m.Name != "data-step" || m.Value != "1" {
		t.Errorf("mutation = %+v, want set-attribute data-step=1", m)
	}

	_ = conn.Close()
	waitFor(t, func() bool { return s.Clients() == 0 })
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.current != 0 {
		t.Errorf("tracked clients = %d, want 0", tracker.current)
	}
}

func TestMutationReplay(t *testing.T) {
	doc, _, _, ts := setup(t)
	log := doc.Mutations()
	if len(log) < 2 {
		t.Fatalf("mutation log = %d entries, want at least 2", len(log))
	}
	since := log[len(log)-2].Seq

	conn := dial(t, ts, "?since="+strconv.FormatUint(since, 10))
	m := readMutation(t, conn)
	if m.Seq != log[len(log)-1].Seq {
		t.Errorf("replayed seq = %d, want %d", m.Seq, log[len(log)-1].Seq)
	}
}

func TestInvalidSince(t *testing.T) {
	_, _, _, ts := setup(t)
	if code, _, _ := get(t, ts.URL+"/mutations?since=abc"); code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestSlowClientDropped(t *testing.T) {
	_, root, s, ts := setup(t, WithBuffer(1))
	conn := dial(t, ts, "")
	waitFor(t, func() bool { return s.Clients() == 1 })

	for i := 0; i < 1000; i++ {
		root.SetAttribute("data-n", strconv.Itoa(i))
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var m memdom.Mutation
		err := conn.ReadJSON(&m)
		if err == nil {
			continue
		}
		if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
			t.Errorf("ReadJSON() error = %v, want policy violation close", err)
		}
		break
	}
	waitFor(t, func() bool { return s.Clients() == 0 })
}
