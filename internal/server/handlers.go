package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/marcossootooo-ctrl/trainuppp/internal/activity"
	"github.com/marcossootooo-ctrl/trainuppp/internal/session"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sport.All())
}

// --- intro gesture ---

type gestureRequest struct {
	Y float64 `json:"y"`
}

func (s *Server) handleGestureBegin(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.session.LiftBegin(req.Y)
	writeJSON(w, http.StatusOK, map[string]any{"progress": 0.0})
}

func (s *Server) handleGestureMove(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	progress, screen := s.session.LiftMove(req.Y)
	writeJSON(w, http.StatusOK, map[string]any{"progress": progress, "screen": screen})
}

func (s *Server) handleGestureEnd(w http.ResponseWriter, r *http.Request) {
	s.session.LiftEnd()
	writeJSON(w, http.StatusOK, map[string]any{"progress": 0.0})
}

// --- navigation ---

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Age    string `json:"age"`
		Weight string `json:"weight"`
		Height string `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.respond(w, s.session.ConfirmOnboarding(req.Age, req.Weight, req.Height))
}

func (s *Server) handleSelectSport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sport sport.ID `json:"sport"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.respond(w, s.session.SelectSport(req.Sport))
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab session.Tab `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.respond(w, s.session.SetTab(req.Tab))
}

func (s *Server) handleReturnToSelection(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.session.ReturnToSelection())
}

func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.session.FinishWorkout())
}

func (s *Server) handleCloseSummary(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.session.CloseSummary())
}

// --- activity ---

func (s *Server) handleActivityToday(w http.ResponseWriter, r *http.Request) {
	id := sport.ID(r.URL.Query().Get("sport"))
	if _, ok := sport.ByID(id); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown sport"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"value": s.session.TodayValue(id)})
}

func (s *Server) handleActivityLog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sport sport.ID `json:"sport,omitempty"`
		Value int      `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	// An explicit sport bypasses the selection, for programmatic clients.
	if req.Sport != "" {
		s.respond(w, s.session.LogActivity(req.Sport, req.Value))
		return
	}
	s.respond(w, s.session.SaveDailyLog(req.Value))
}

func (s *Server) handleActivityChart(w http.ResponseWriter, r *http.Request) {
	var (
		points []activity.ChartPoint
		err    error
	)
	if id := sport.ID(r.URL.Query().Get("sport")); id != "" {
		points, err = s.session.ChartFor(id)
	} else {
		points, err = s.session.ChartData()
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// --- coach + AI ---

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if snap.Chat == nil {
		snap.Chat = []session.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, snap.Chat)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	msg, err := s.session.SendMessage(r.Context(), req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if msg.ID == uuid.Nil {
		// Image request that produced no image part: nothing appended.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	imageURL, err := s.session.GenerateAvatar(r.Context(), req.Prompt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if imageURL == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profileImage": imageURL})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	summary, err := s.session.GenerateSummary(r.Context(), req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// --- profile ---

func (s *Server) handleUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.respond(w, s.session.SetUsername(req.Username))
}

// --- helpers ---

// respond writes the fresh session snapshot on success, or the mapped error.
func (s *Server) respond(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// writeError maps session errors onto HTTP statuses: validation failures are
// 400, state conflicts 409, and coach-service failures 502.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var transition *session.TransitionError
	switch {
	case errors.Is(err, session.ErrEmptyInput),
		errors.Is(err, session.ErrMissingBiometrics),
		errors.Is(err, session.ErrUnknownSport):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &transition),
		errors.Is(err, session.ErrNoSport),
		errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrSessionChanged):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
