package dashboard

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jalvemo/planera/pkg/application"
	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/events"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

// mockProvider implements DataProvider for testing.
type mockProvider struct {
	snapshot *application.BoardSnapshot
	err      error
}

func (m *mockProvider) Snapshot() (*application.BoardSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func testSnapshot() *application.BoardSnapshot {
	return &application.BoardSnapshot{
		Jobs: []schedule.Job{
			{ID: "j1", Title: "Boiler service", Start: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), ResourceID: "o1", OrderID: "w1"},
		},
		Resources: []directory.Resource{
			{ID: "o1", DisplayName: "Anna"},
			{ID: "o2", DisplayName: "Bert"},
		},
		Orders: []workorder.Order{
			{ID: "w1", OrderNumber: "1001", Title: "Boiler service"},
			{ID: "w2", OrderNumber: "1002", Title: "Leaky faucet", CustomerName: "Ek"},
		},
		Unassigned: []workorder.Order{
			{ID: "w2", OrderNumber: "1002", Title: "Leaky faucet", CustomerName: "Ek"},
		},
	}
}

func newTestServer(t *testing.T, provider DataProvider, dispatcher *events.Dispatcher) *Server {
	t.Helper()
	server, err := NewServer(":0", provider, dispatcher, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestHandleIndex(t *testing.T) {
	server := newTestServer(t, &mockProvider{snapshot: testSnapshot()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Anna", "Bert", "Boiler service", "1002"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page is missing %q", want)
		}
	}
}

func TestHandleIndexProviderError(t *testing.T) {
	server := newTestServer(t, &mockProvider{err: errors.New("store offline")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "store offline") {
		t.Error("index page should surface the provider error")
	}
}

func TestHandleAPIJobs(t *testing.T) {
	server := newTestServer(t, &mockProvider{snapshot: testSnapshot()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var jobs []schedule.Job
	if err := json.NewDecoder(rec.Body).Decode(&jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "j1" {
		t.Errorf("jobs = %+v, want the single seeded job", jobs)
	}
}

func TestHandleAPIUnassigned(t *testing.T) {
	server := newTestServer(t, &mockProvider{snapshot: testSnapshot()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/unassigned", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var orders []workorder.Order
	if err := json.NewDecoder(rec.Body).Decode(&orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderNumber != "1002" {
		t.Errorf("unassigned = %+v, want order 1002 only", orders)
	}
}

func TestHandleAPIError(t *testing.T) {
	server := newTestServer(t, &mockProvider{err: errors.New("boom")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestSSEHandshakeCompletesBeforeFirstEvent(t *testing.T) {
	server := newTestServer(t, &mockProvider{snapshot: testSnapshot()}, events.NewDispatcher())

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	// No event is ever dispatched here: the response headers must
	// arrive on connect, not ride on the first event.
	done := make(chan *http.Response, 1)
	errc := make(chan error, 1)
	go func() {
		resp, err := http.Get(ts.URL + "/events")
		if err != nil {
			errc <- err
			return
		}
		done <- resp
	}()

	select {
	case resp := <-done:
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
			t.Errorf("Content-Type = %q, want text/event-stream", ct)
		}
	case err := <-errc:
		t.Fatalf("GET /events: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("SSE handshake did not complete without an event")
	}
}

func TestSSEStreamsDispatchedEvents(t *testing.T) {
	dispatcher := events.NewDispatcher()
	server := newTestServer(t, &mockProvider{snapshot: testSnapshot()}, dispatcher)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	// The subscription races the dispatch; give the handler a moment.
	time.Sleep(50 * time.Millisecond)
	job := schedule.Job{ID: "j9", Title: "Radiator bleed"}
	if err := dispatcher.Dispatch(t.Context(), events.NewJobScheduled(job)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	deadline := time.After(2 * time.Second)
	got := make(chan string, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(line, "data: ") {
				got <- line
				return
			}
		}
	}()

	select {
	case line := <-got:
		if !strings.Contains(line, events.TypeJobScheduled) || !strings.Contains(line, "j9") {
			t.Errorf("SSE data = %q, want a job.scheduled event for j9", line)
		}
	case <-deadline:
		t.Fatal("timed out waiting for SSE event")
	}
}

func TestWebSocketStreamsDispatchedEvents(t *testing.T) {
	dispatcher := events.NewDispatcher()
	server := newTestServer(t, &mockProvider{snapshot: testSnapshot()}, dispatcher)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	if err := dispatcher.Dispatch(t.Context(), events.NewJobDeleted("j1", "w1")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env streamEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if env.Type != events.TypeJobDeleted || env.JobID != "j1" {
		t.Errorf("envelope = %+v, want job.deleted for j1", env)
	}
}

func TestStreamHubDropsSlowClients(t *testing.T) {
	hub := newStreamHub(nil)
	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	// Fill the buffer past capacity; broadcast must never block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.broadcast(events.NewBoardReloaded(i))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}
