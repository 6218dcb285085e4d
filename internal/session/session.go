// Package session owns the whole application state: screen navigation, the
// selected sport, profile and streak data, chat history, and the in-flight
// bookkeeping for generative-AI calls. All mutation goes through Session
// methods; the presentation layer only ever reads snapshots.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marcossootooo-ctrl/trainuppp/internal/activity"
	"github.com/marcossootooo-ctrl/trainuppp/internal/coach"
	"github.com/marcossootooo-ctrl/trainuppp/internal/gesture"
	"github.com/marcossootooo-ctrl/trainuppp/internal/haptics"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
	"github.com/marcossootooo-ctrl/trainuppp/internal/store"
)

// Screen is the top-level navigation state.
type Screen string

const (
	ScreenIntro      Screen = "INTRO"
	ScreenOnboarding Screen = "ONBOARDING"
	ScreenSelection  Screen = "SELECTION"
	ScreenDashboard  Screen = "DASHBOARD"
	ScreenSummary    Screen = "SUMMARY"
)

// Tab is the dashboard sub-state; it only exists while on the dashboard.
type Tab string

const (
	TabPanel   Tab = "PANEL"
	TabCoach   Tab = "COACH"
	TabStats   Tab = "STATS"
	TabProfile Tab = "PROFILE"
)

var (
	ErrMissingBiometrics = errors.New("all biometric fields are required")
	ErrUnknownSport      = errors.New("unknown sport")
	ErrNoSport           = errors.New("no sport selected")
	ErrEmptyInput        = errors.New("empty input")
	ErrBusy              = errors.New("request already in flight")
	// ErrSessionChanged marks a late AI response whose sport context was
	// abandoned while the request was pending; the result is discarded.
	ErrSessionChanged = errors.New("session changed while request in flight")
)

// TransitionError reports an operation attempted from the wrong screen.
type TransitionError struct {
	From Screen
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from screen %s", e.Op, e.From)
}

// ChatMessage is one entry in the per-sport coach conversation.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"` // "user" or "model"
	Text      string    `json:"text"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// imageIntent routes chat messages asking for a picture to the image model.
var imageIntent = regexp.MustCompile(`(?i)\b(imagen|foto|dibuja|genera|muéstrame|ver|diseña)\b`)

// fallbackReply is shown when the coach returns an empty reply body.
const fallbackReply = "Lo siento, hay un problema en la red."

// Session is the single application session. Methods are safe for concurrent
// use; AI calls release the lock for the duration of the network round trip
// and re-validate the sport generation token before applying results.
type Session struct {
	mu      sync.Mutex
	store   *store.Store
	coach   coach.Service
	haptics haptics.Driver
	log     *slog.Logger
	now     func() time.Time

	screen  Screen
	tab     Tab
	sportID sport.ID
	lift    *gesture.Controller

	state *store.State

	chat []ChatMessage
	// gen changes every time the sport selection changes; pending AI calls
	// capture it and discard their result on mismatch.
	gen uuid.UUID

	chatPending    bool
	imagePending   bool
	avatarPending  bool
	summaryPending bool

	summary *coach.Summary
}

// New loads the persisted profile and starts a session on the intro screen.
func New(st *store.Store, svc coach.Service, driver haptics.Driver, log *slog.Logger) (*Session, error) {
	state, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	if driver == nil {
		driver = haptics.Nop{}
	}
	s := &Session{
		store:   st,
		coach:   svc,
		haptics: driver,
		log:     log,
		now:     time.Now,
		screen:  ScreenIntro,
		tab:     TabPanel,
		state:   state,
		gen:     uuid.New(),
	}
	s.lift = gesture.New(driver, func() { s.screen = ScreenOnboarding })
	return s, nil
}

func (s *Session) today() string {
	return s.now().Format(activity.DateLayout)
}

func (s *Session) hasTrainedTodayLocked() bool {
	return s.state.LastTrained != "" && s.state.LastTrained == s.today()
}

// persistLocked rewrites the full profile. Persistence failures are logged
// and otherwise ignored; the same group of keys is rewritten on the next
// state change.
func (s *Session) persistLocked() {
	if err := s.store.Save(s.state); err != nil {
		s.log.Error("persist failed", "error", err)
	}
}

// --- intro gesture ---

// LiftBegin starts a drag on the intro weight.
func (s *Session) LiftBegin(pointerY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenIntro {
		return
	}
	s.lift.Begin(pointerY)
}

// LiftMove advances the drag. Completion transitions INTRO → ONBOARDING via
// the controller callback. Returns the resulting progress and screen.
func (s *Session) LiftMove(pointerY float64) (float64, Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen == ScreenIntro {
		s.lift.Move(pointerY)
	}
	return s.lift.Progress(), s.screen
}

// LiftEnd releases the drag; incomplete lifts reset to zero.
func (s *Session) LiftEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lift.End()
}

// --- navigation ---

// ConfirmOnboarding records the three biometric fields and advances to sport
// selection. All three must be non-empty.
func (s *Session) ConfirmOnboarding(age, weight, height string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenOnboarding {
		return &TransitionError{From: s.screen, Op: "confirm onboarding"}
	}
	age, weight, height = strings.TrimSpace(age), strings.TrimSpace(weight), strings.TrimSpace(height)
	if age == "" || weight == "" || height == "" {
		return ErrMissingBiometrics
	}

	s.state.Age, s.state.Weight, s.state.Height = age, weight, height
	s.persistLocked()
	s.screen = ScreenSelection
	return nil
}

// SelectSport enters the dashboard for the chosen discipline. The chat
// session is cleared and a new generation token issued, so any reply still in
// flight for the previous sport is discarded on arrival.
func (s *Session) SelectSport(id sport.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenSelection {
		return &TransitionError{From: s.screen, Op: "select sport"}
	}
	if _, ok := sport.ByID(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSport, id)
	}

	s.sportID = id
	s.screen = ScreenDashboard
	s.tab = TabPanel
	s.chat = nil
	s.gen = uuid.New()
	s.chatPending, s.imagePending, s.summaryPending = false, false, false
	s.summary = nil
	return nil
}

// SetTab switches the dashboard tab.
func (s *Session) SetTab(t Tab) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenDashboard {
		return &TransitionError{From: s.screen, Op: "change tab"}
	}
	switch t {
	case TabPanel, TabCoach, TabStats, TabProfile:
		s.tab = t
		return nil
	default:
		return fmt.Errorf("unknown tab %q", t)
	}
}

// ReturnToSelection goes back to the sport picker. Profile data is kept; the
// chat is only cleared once a (possibly different) sport is chosen.
func (s *Session) ReturnToSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenDashboard {
		return &TransitionError{From: s.screen, Op: "return to selection"}
	}
	s.screen = ScreenSelection
	return nil
}

// FinishWorkout opens the post-workout summary flow.
func (s *Session) FinishWorkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenDashboard {
		return &TransitionError{From: s.screen, Op: "finish workout"}
	}
	s.screen = ScreenSummary
	return nil
}

// CloseSummary returns to the dashboard and clears the summary result.
func (s *Session) CloseSummary() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != ScreenSummary {
		return &TransitionError{From: s.screen, Op: "close summary"}
	}
	s.screen = ScreenDashboard
	s.summary = nil
	return nil
}

// --- activity logging ---

// TodayValue returns the counter logged today for the given sport. A log
// stamped on an earlier day reads as zero without being rewritten.
func (s *Session) TodayValue(id sport.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return activity.ValueForDate(s.state.DailyLogs[id], s.today())
}

// SaveDailyLog stamps today's counter for the selected sport and copies it
// into the weekly history slot for today's weekday. This is the only path
// that persists a counter into the weekly chart.
func (s *Session) SaveDailyLog(value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sportID == "" {
		return ErrNoSport
	}

	s.logActivityLocked(s.sportID, value)
	s.haptics.Pulse(20)
	return nil
}

// ChartData projects the weekly history for the selected sport, with today's
// slot overridden by the live counter so the chart reflects unsaved activity.
func (s *Session) ChartData() ([]activity.ChartPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sportID == "" {
		return nil, ErrNoSport
	}
	return s.chartLocked(s.sportID), nil
}

// ChartFor is ChartData for an explicit sport, independent of the selection.
func (s *Session) ChartFor(id sport.ID) ([]activity.ChartPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := sport.ByID(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSport, id)
	}
	return s.chartLocked(id), nil
}

func (s *Session) chartLocked(id sport.ID) []activity.ChartPoint {
	live := activity.ValueForDate(s.state.DailyLogs[id], s.today())
	week := activity.WeeklyView(s.state.WeeklyStats[id], live, activity.DayIndex(s.now()))
	return activity.ChartData(week)
}

// LogActivity records a counter for an explicit sport without requiring it to
// be selected. Used by the MCP surface; unlike SaveDailyLog it fires no
// haptic feedback.
func (s *Session) LogActivity(id sport.ID, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := sport.ByID(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSport, id)
	}
	s.logActivityLocked(id, value)
	return nil
}

func (s *Session) logActivityLocked(id sport.ID, value int) {
	s.state.DailyLogs[id] = activity.Log{Value: value, Date: s.today()}
	week := s.state.WeeklyStats[id]
	week[activity.DayIndex(s.now())] = value
	s.state.WeeklyStats[id] = week
	s.persistLocked()
}

// ConfirmTrainingToday bumps the streak, at most once per calendar day.
func (s *Session) ConfirmTrainingToday() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmTrainingLocked()
}

func (s *Session) confirmTrainingLocked() {
	if s.hasTrainedTodayLocked() {
		return
	}
	s.state.Streak++
	s.state.LastTrained = s.today()
	s.persistLocked()
	s.haptics.Pattern(15, 40, 15)
}

// --- profile ---

// SetUsername updates the display name and persists it.
func (s *Session) SetUsername(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyInput
	}
	s.state.Username = name
	s.persistLocked()
	return nil
}

func (s *Session) biometricsLocked() coach.Biometrics {
	return coach.Biometrics{Age: s.state.Age, Weight: s.state.Weight, Height: s.state.Height}
}

func (s *Session) stamp() string {
	return s.now().Format("15:04")
}
