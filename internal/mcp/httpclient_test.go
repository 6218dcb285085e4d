package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcossootooo-ctrl/trainuppp/internal/activity"
	"github.com/marcossootooo-ctrl/trainuppp/internal/session"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

// newTestAPI creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestAPI(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestState verifies the state endpoint parsing and the API key header.
func TestState(t *testing.T) {
	ts := newTestAPI(t, map[string]http.HandlerFunc{
		"/api/v1/state": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("X-API-Key"); got != "secret" {
				t.Errorf("X-API-Key = %q, want secret", got)
			}
			writeTestJSON(t, w, session.Snapshot{
				Screen:   session.ScreenDashboard,
				Sport:    sport.Running,
				Username: "Atleta",
				Streak:   4,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "secret")
	snap, err := client.State(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Streak != 4 {
		t.Errorf("streak = %d, want 4", snap.Streak)
	}
	if snap.Sport != sport.Running {
		t.Errorf("sport = %s, want running", snap.Sport)
	}
}

// TestTodayValue verifies the today endpoint sends the sport query param.
func TestTodayValue(t *testing.T) {
	ts := newTestAPI(t, map[string]http.HandlerFunc{
		"/api/v1/activity/today": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("sport"); got != "futbol" {
				t.Errorf("sport=%q, want futbol", got)
			}
			writeTestJSON(t, w, map[string]int{"value": 45})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	value, err := client.TodayValue(context.Background(), sport.Futbol)
	if err != nil {
		t.Fatal(err)
	}
	if value != 45 {
		t.Errorf("value = %d, want 45", value)
	}
}

// TestWeeklyChart verifies chart parsing into ordered points.
func TestWeeklyChart(t *testing.T) {
	ts := newTestAPI(t, map[string]http.HandlerFunc{
		"/api/v1/activity/chart": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("sport"); got != "running" {
				t.Errorf("sport=%q, want running", got)
			}
			writeTestJSON(t, w, []activity.ChartPoint{
				{Day: "L", Value: 5}, {Day: "M", Value: 0}, {Day: "X", Value: 8},
				{Day: "J", Value: 0}, {Day: "V", Value: 0}, {Day: "S", Value: 0},
				{Day: "D", Value: 0},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	points, err := client.WeeklyChart(context.Background(), sport.Running)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}
	if points[2].Day != "X" || points[2].Value != 8 {
		t.Errorf("wednesday point = %+v", points[2])
	}
}

// TestLogActivity verifies the log request body carries sport and value.
func TestLogActivity(t *testing.T) {
	ts := newTestAPI(t, map[string]http.HandlerFunc{
		"/api/v1/activity/log": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Sport string `json:"sport"`
				Value int    `json:"value"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode: %v", err)
			}
			if req.Sport != "fitness" || req.Value != 60 {
				t.Errorf("payload = %+v, want fitness/60", req)
			}
			writeTestJSON(t, w, map[string]string{"status": "ok"})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	if err := client.LogActivity(context.Background(), sport.Fitness, 60); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPClientServerError verifies the client returns an error on non-200
// responses.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestAPI(t, map[string]http.HandlerFunc{
		"/api/v1/state": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"session down"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	_, err := client.State(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}
