package main_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	buzzd "gregoryjjb/buzzd"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

type mockRelay struct {
	mu     sync.Mutex
	pulses []time.Duration
	err    error
}

func (m *mockRelay) Pulse(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.pulses = append(m.pulses, d)
	return nil
}

func (m *mockRelay) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pulses)
}

type mockChime struct {
	mu    sync.Mutex
	plays int
}

func (m *mockChime) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
}

func (m *mockChime) Close() {}

func (m *mockChime) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

type mockAnnouncer struct {
	mu     sync.Mutex
	pulses []buzzd.PulseEvent
}

func (m *mockAnnouncer) Startup(address string) {}

func (m *mockAnnouncer) Pulse(event buzzd.PulseEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pulses = append(m.pulses, event)
}

func (m *mockAnnouncer) Shutdown() {}
func (m *mockAnnouncer) Close()    {}

func (m *mockAnnouncer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pulses)
}

func newTestConfig(t *testing.T, flags buzzd.Flags, env map[string]string, toml string) *buzzd.Config {
	fs := buzzd.NewBuzzdMemFS()

	require.NoError(t, afero.WriteFile(fs, "/buzzd.toml", []byte(toml), 0777))
	if flags.ConfigPath == "" {
		flags.ConfigPath = "/buzzd.toml"
	}

	c, err := buzzd.NewConfig(fs, flags, func(s string) string { return env[s] })
	require.NoError(t, err)

	return c
}

type testServer struct {
	http     *httptest.Server
	activity *buzzd.Recorder
	relay    *mockRelay
	chime    *mockChime
	announce *mockAnnouncer
}

func newTestServer(t *testing.T, relay *mockRelay) testServer {
	config := newTestConfig(t, buzzd.Flags{}, nil, "[relay]\npulse_ms = 25\n")

	activity := buzzd.NewRecorder(10)
	chime := &mockChime{}
	announce := &mockAnnouncer{}

	s := buzzd.NewServer(config, activity, relay, announce, chime)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return testServer{
		http:     ts,
		activity: activity,
		relay:    relay,
		chime:    chime,
		announce: announce,
	}
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &mockRelay{})

	status, body := get(t, ts.http.URL+"/health")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"status":"up"}`, body)

	snap := ts.activity.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, http.StatusOK, snap[0].Status)
	assert.Equal(t, "/health", snap[0].Path)
	assert.Equal(t, 0, ts.relay.count())
}

func TestPush(t *testing.T) {
	ts := newTestServer(t, &mockRelay{})

	status, body := get(t, ts.http.URL+"/push")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"success":true}`, body)

	require.Equal(t, 1, ts.relay.count())
	assert.Equal(t, 25*time.Millisecond, ts.relay.pulses[0])

	snap := ts.activity.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, http.StatusOK, snap[0].Status)
	assert.Equal(t, "/push", snap[0].Path)

	assert.Equal(t, 1, ts.chime.count())
	assert.Eventually(t, func() bool {
		return ts.announce.count() == 1
	}, time.Second, 5*time.Millisecond, "pulse never announced")
}

func TestPushRelayFailure(t *testing.T) {
	ts := newTestServer(t, &mockRelay{err: errors.New("coil jammed")})

	status, body := get(t, ts.http.URL+"/push")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body, "success")
	assert.Contains(t, body, "coil jammed")

	snap := ts.activity.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, http.StatusInternalServerError, snap[0].Status)
	assert.Equal(t, "/push", snap[0].Path)

	assert.Equal(t, 0, ts.chime.count())
	assert.Equal(t, 0, ts.announce.count())
}

func TestUnknownRoutesAre404(t *testing.T) {
	ts := newTestServer(t, &mockRelay{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/doorbell"},
		{http.MethodPost, "/push"},
		{http.MethodDelete, "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.http.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Empty(t, body, "404 responses carry no body")
		})
	}

	snap := ts.activity.Snapshot()
	require.Len(t, snap, len(tests))
	for i, tt := range tests {
		assert.Equal(t, http.StatusNotFound, snap[i].Status)
		assert.Equal(t, tt.path, snap[i].Path)
	}

	assert.Equal(t, 0, ts.relay.count())
}

func TestActivityLogRollsOver(t *testing.T) {
	ts := newTestServer(t, &mockRelay{})

	for i := 0; i < 13; i++ {
		get(t, fmt.Sprintf("%s/missing-%d", ts.http.URL, i))
	}

	snap := ts.activity.Snapshot()
	require.Len(t, snap, 10)
	assert.Equal(t, "/missing-3", snap[0].Path)
	assert.Equal(t, "/missing-12", snap[9].Path)
}

func TestLiveFeed(t *testing.T) {
	ts := newTestServer(t, &mockRelay{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	// Give the handler a moment to register its subscription
	time.Sleep(150 * time.Millisecond)

	get(t, ts.http.URL+"/push")

	typ, msg, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Contains(t, string(msg), `"path":"/push"`)
	assert.Contains(t, string(msg), `"status":200`)

	// The feed connection itself stays out of the log
	snap := ts.activity.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "/push", snap[0].Path)
}

// waitForReady calls the endpoint until it gets a 200 response or until
// the context is cancelled or the timeout is reached.
func waitForReady(ctx context.Context, timeout time.Duration, endpoint string) error {
	client := http.Client{}
	startTime := time.Now()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req)
		if err == nil {
			if resp.StatusCode == http.StatusOK {
				resp.Body.Close()
				return nil
			}
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return fmt.Errorf("timeout reached while waiting for endpoint")
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func TestListenAndServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	config := newTestConfig(t,
		buzzd.Flags{},
		map[string]string{
			"HOST": "127.0.0.1",
			"PORT": "41225",
		},
		"",
	)

	s := buzzd.NewServer(config, buzzd.NewRecorder(10), &mockRelay{}, nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe()
	}()

	require.NoError(t, waitForReady(ctx, 5*time.Second, "http://127.0.0.1:41225/health"))

	status, body := get(t, "http://127.0.0.1:41225/push")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"success":true}`, body)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	require.NoError(t, s.Shutdown(shutdownCtx))

	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}
