package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/forcepad/editor"
	"github.com/TFMV/forcepad/models"
	"github.com/TFMV/forcepad/physics"
	"github.com/TFMV/forcepad/session"
)

func newTestServer(t *testing.T) (*Server, *session.Session, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := editor.DefaultOptions()
	opts.Seed = 11
	sess := session.New(editor.New(opts, logger), session.WithFrameRate(200), session.WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx)
	}()

	srv := New(sess, DefaultConfig(), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return srv, sess, ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<canvas id="canvas" width="800" height="600">`)
	assert.Contains(t, body, `const background = '#6495ED'`)
	assert.Contains(t, body, `window.addEventListener('mouseup'`, "releases outside the canvas still end a drag")

	resp, _ = get(t, ts, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventsAndSnapshot(t *testing.T) {
	_, sess, ts := newTestServer(t)

	resp := post(t, ts, "/api/mode", `{"mode": "Add"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, ts, "/api/events", `[{"type":"press","x":50,"y":60},{"type":"release","x":50,"y":60}]`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Eventually(t, func() bool {
		return len(sess.Latest().Nodes) == 1
	}, 2*time.Second, 5*time.Millisecond)

	resp, body := get(t, ts, "/api/snapshot")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Equal(t, "add", snap.Mode)
	require.Len(t, snap.Nodes, 1)
}

func TestEvents_BadInput(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := post(t, ts, "/api/events", `[{"type":"teleport"}]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts, "/api/events", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts, "/api/mode", `{"mode": "lasso"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Get(ts.URL + "/api/events")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestForces(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, body := get(t, ts, "/api/forces")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got forcesBody
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, physics.DefaultPush(), got.Push)
	assert.Equal(t, physics.DefaultPull(), got.Pull)

	resp = post(t, ts, "/api/forces", `{"push":{"force":5,"distance":10},"pull":{"min_distance":20,"force_at_twice_distance":3}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = get(t, ts, "/api/forces")
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, physics.PushConfig{Force: 5, Distance: 10}, got.Push)

	resp = post(t, ts, "/api/forces", `{"push":{"force":-5,"distance":10},"pull":{"min_distance":20,"force_at_twice_distance":3}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToggleAndDirected(t *testing.T) {
	_, sess, ts := newTestServer(t)

	resp := post(t, ts, "/api/toggle", `{"x": 10, "y": 10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	assert.False(t, found["found"])

	resp = post(t, ts, "/api/directed", `{"directed": false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Eventually(t, func() bool {
		return !sess.Latest().Directed
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRender(t *testing.T) {
	_, _, ts := newTestServer(t)

	cases := map[string]string{
		"svg":   "image/svg+xml",
		"ascii": "text/plain; charset=utf-8",
		"json":  "application/json",
		"dot":   "text/vnd.graphviz",
	}
	for format, contentType := range cases {
		resp, body := get(t, ts, "/render?format="+format+"&width=400&height=300")
		assert.Equal(t, http.StatusOK, resp.StatusCode, format)
		assert.Equal(t, contentType, resp.Header.Get("Content-Type"), format)
		assert.NotEmpty(t, body, format)
	}

	resp, body := get(t, ts, "/render")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<svg width="800" height="600"`)

	resp, _ = get(t, ts, "/render?format=webgl")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebSocket(t *testing.T) {
	_, _, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var snap models.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "move", snap.Mode)

	require.NoError(t, conn.WriteJSON(message{Type: "mode", Mode: "add"}))
	require.NoError(t, conn.WriteJSON(message{Type: "press", X: 100, Y: 100}))
	require.NoError(t, conn.WriteJSON(message{Type: "release", X: 100, Y: 100}))

	deadline := time.Now().Add(2 * time.Second)
	for len(snap.Nodes) == 0 {
		require.True(t, time.Now().Before(deadline), "no node appeared")
		conn.SetReadDeadline(deadline)
		require.NoError(t, conn.ReadJSON(&snap))
	}
	assert.Equal(t, "add", snap.Mode)
	assert.Len(t, snap.Nodes, 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/snapshot")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}
