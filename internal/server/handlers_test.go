package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcossootooo-ctrl/trainuppp/internal/coach"
	"github.com/marcossootooo-ctrl/trainuppp/internal/haptics"
	"github.com/marcossootooo-ctrl/trainuppp/internal/session"
	"github.com/marcossootooo-ctrl/trainuppp/internal/store"
)

// stubCoach is a canned coach.Service for API tests.
type stubCoach struct {
	reply      string
	replyErr   error
	imageURL   string
	summary    *coach.Summary
	summaryErr error
}

func (s *stubCoach) CoachReply(context.Context, string, []coach.Turn, string) (string, error) {
	return s.reply, s.replyErr
}

func (s *stubCoach) TrainingSummary(context.Context, coach.Biometrics, string, string) (*coach.Summary, error) {
	return s.summary, s.summaryErr
}

func (s *stubCoach) GenerateImage(context.Context, string) (string, error) {
	return s.imageURL, nil
}

func newTestServer(t *testing.T, svc coach.Service, apiKey string) *Server {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sess, err := session.New(st, svc, haptics.Nop{}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	return New(sess, apiKey, slog.New(slog.DiscardHandler))
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) session.Snapshot {
	t.Helper()
	var snap session.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

// advance walks the server state through the intro lift, onboarding, and
// sport selection via the HTTP API.
func advance(t *testing.T, srv *Server, sportID string) {
	t.Helper()
	if rec := doJSON(t, srv, http.MethodPost, "/api/v1/gesture/begin", map[string]float64{"y": 500}); rec.Code != http.StatusOK {
		t.Fatalf("gesture begin: %d", rec.Code)
	}
	if rec := doJSON(t, srv, http.MethodPost, "/api/v1/gesture/move", map[string]float64{"y": 100}); rec.Code != http.StatusOK {
		t.Fatalf("gesture move: %d", rec.Code)
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/onboarding", map[string]string{"age": "30", "weight": "70", "height": "175"})
	if rec.Code != http.StatusOK {
		t.Fatalf("onboarding: %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/sport", map[string]string{"sport": sportID})
	if rec.Code != http.StatusOK {
		t.Fatalf("select sport: %d %s", rec.Code, rec.Body.String())
	}
}

// TestStateEndpoint verifies a fresh session reports the intro screen with
// the default profile.
func TestStateEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubCoach{}, "")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	snap := decodeSnapshot(t, rec)
	if snap.Screen != session.ScreenIntro {
		t.Errorf("screen = %s, want INTRO", snap.Screen)
	}
	if snap.Username != store.DefaultUsername {
		t.Errorf("username = %q, want %q", snap.Username, store.DefaultUsername)
	}
}

// TestSportsEndpoint verifies the catalog lists all four disciplines.
func TestSportsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubCoach{}, "")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/sports", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var defs []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&defs); err != nil {
		t.Fatal(err)
	}
	if len(defs) != 4 {
		t.Errorf("got %d sports, want 4", len(defs))
	}
}

// TestFullFlow verifies the complete happy path over HTTP: lift, onboarding,
// sport selection, activity logging, and chart retrieval.
func TestFullFlow(t *testing.T) {
	srv := newTestServer(t, &stubCoach{}, "")
	advance(t, srv, "running")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/state", nil)
	snap := decodeSnapshot(t, rec)
	if snap.Screen != session.ScreenDashboard || string(snap.Sport) != "running" {
		t.Fatalf("state = %s/%s, want DASHBOARD/running", snap.Screen, snap.Sport)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/activity/log", map[string]int{"value": 9})
	if rec.Code != http.StatusOK {
		t.Fatalf("activity log: %d %s", rec.Code, rec.Body.String())
	}
	if snap := decodeSnapshot(t, rec); snap.TodayValue != 9 {
		t.Errorf("todayValue = %d, want 9", snap.TodayValue)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/activity/today?sport=running", nil)
	var today struct {
		Value int `json:"value"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&today); err != nil {
		t.Fatal(err)
	}
	if today.Value != 9 {
		t.Errorf("today value = %d, want 9", today.Value)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/activity/chart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("chart: %d", rec.Code)
	}
	var points []struct {
		Day   string `json:"day"`
		Value int    `json:"value"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&points); err != nil {
		t.Fatal(err)
	}
	if len(points) != 7 {
		t.Fatalf("got %d chart points, want 7", len(points))
	}
	total := 0
	for _, p := range points {
		total += p.Value
	}
	if total != 9 {
		t.Errorf("chart total = %d, want 9 (today's value in one slot)", total)
	}
}

// TestErrorMapping verifies validation failures map to 400 and state
// conflicts to 409.
func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t, &stubCoach{}, "")

	// Onboarding from the intro screen: wrong screen, 409.
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/onboarding", map[string]string{"age": "30", "weight": "70", "height": "175"})
	if rec.Code != http.StatusConflict {
		t.Errorf("onboarding from intro: %d, want 409", rec.Code)
	}

	// Chat with no sport selected: 409.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/chat", map[string]string{"message": "hola"})
	if rec.Code != http.StatusConflict {
		t.Errorf("chat without sport: %d, want 409", rec.Code)
	}

	advance(t, srv, "futbol")

	// Missing biometric field after the fact: wrong screen again, 409.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/onboarding", map[string]string{"age": "30"})
	if rec.Code != http.StatusConflict {
		t.Errorf("onboarding from dashboard: %d, want 409", rec.Code)
	}

	// Unknown sport on the today endpoint: validation, 400.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/activity/today?sport=curling", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown sport: %d, want 400", rec.Code)
	}

	// Empty chat message: validation, 400.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/chat", map[string]string{"message": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty chat: %d, want 400", rec.Code)
	}
}

// TestChatEndpoint verifies a chat exchange returns the model message and a
// coach failure maps to 502.
func TestChatEndpoint(t *testing.T) {
	svc := &stubCoach{reply: "¡A por ello!"}
	srv := newTestServer(t, svc, "")
	advance(t, srv, "futbol")

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/chat", map[string]string{"message": "hola míster"})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: %d %s", rec.Code, rec.Body.String())
	}
	var msg session.ChatMessage
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Role != "model" || msg.Text != "¡A por ello!" {
		t.Errorf("message = %+v", msg)
	}
}

// TestChatHistoryEndpoint verifies the history read returns the accumulated
// conversation and an empty array before any message.
func TestChatHistoryEndpoint(t *testing.T) {
	svc := &stubCoach{reply: "Bien hecho"}
	srv := newTestServer(t, svc, "")
	advance(t, srv, "futbol")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/chat", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: %d %s", rec.Code, rec.Body.String())
	}
	var history []session.ChatMessage
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("history before chat = %d messages", len(history))
	}

	if rec := doJSON(t, srv, http.MethodPost, "/api/v1/chat", map[string]string{"message": "hola"}); rec.Code != http.StatusOK {
		t.Fatalf("chat: %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/chat", nil)
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d messages, want user + model", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "model" {
		t.Errorf("roles = %s, %s", history[0].Role, history[1].Role)
	}
}

// TestChatImageNoContent verifies an image request that yields no image
// returns 204 with no chat message.
func TestChatImageNoContent(t *testing.T) {
	srv := newTestServer(t, &stubCoach{imageURL: ""}, "")
	advance(t, srv, "fitness")

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/chat", map[string]string{"message": "dibuja una sentadilla"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("chat image: %d, want 204", rec.Code)
	}
}

// TestSummaryEndpoint verifies the structured summary round trip and the 502
// mapping on coach failure.
func TestSummaryEndpoint(t *testing.T) {
	svc := &stubCoach{summary: &coach.Summary{Calories: 300, RecoveryTip: "Descansa"}}
	srv := newTestServer(t, svc, "")
	advance(t, srv, "running")

	if rec := doJSON(t, srv, http.MethodPost, "/api/v1/workout/finish", nil); rec.Code != http.StatusOK {
		t.Fatalf("finish workout: %d", rec.Code)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/summary", map[string]string{"description": "10 km suaves"})
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", rec.Code, rec.Body.String())
	}
	var sum coach.Summary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if sum.Calories != 300 {
		t.Errorf("calories = %f, want 300", sum.Calories)
	}

	// Streak was confirmed by the successful summary.
	state := doJSON(t, srv, http.MethodGet, "/api/v1/state", nil)
	if snap := decodeSnapshot(t, state); snap.Streak != 1 {
		t.Errorf("streak = %d, want 1", snap.Streak)
	}
}

// TestSummaryFailureMapsTo502 verifies a coach failure on the summary
// endpoint surfaces as a gateway error.
func TestSummaryFailureMapsTo502(t *testing.T) {
	svc := &stubCoach{summaryErr: context.DeadlineExceeded}
	srv := newTestServer(t, svc, "")
	advance(t, srv, "running")

	if rec := doJSON(t, srv, http.MethodPost, "/api/v1/workout/finish", nil); rec.Code != http.StatusOK {
		t.Fatalf("finish workout: %d", rec.Code)
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/summary", map[string]string{"description": "10 km"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("summary failure: %d, want 502", rec.Code)
	}
}

// TestUsernameEndpoint verifies the profile rename over HTTP.
func TestUsernameEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubCoach{}, "")

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/profile/username", map[string]string{"username": "Marta"})
	if rec.Code != http.StatusOK {
		t.Fatalf("username: %d", rec.Code)
	}
	if snap := decodeSnapshot(t, rec); snap.Username != "Marta" {
		t.Errorf("username = %q, want Marta", snap.Username)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/profile/username", map[string]string{"username": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty username: %d, want 400", rec.Code)
	}
}

// TestInvalidJSON verifies malformed request bodies map to 400.
func TestInvalidJSON(t *testing.T) {
	srv := newTestServer(t, &stubCoach{}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tab", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: %d, want 400", rec.Code)
	}
}
