package session

import (
	"github.com/marcossootooo-ctrl/trainuppp/internal/activity"
	"github.com/marcossootooo-ctrl/trainuppp/internal/coach"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

// PendingFlags reports which AI requests are currently in flight. The
// presentation layer uses these to disable the triggering controls.
type PendingFlags struct {
	Chat    bool `json:"chat"`
	Image   bool `json:"image"`
	Avatar  bool `json:"avatar"`
	Summary bool `json:"summary"`
}

// Snapshot is a read-only view of the session for rendering. It carries no
// references into session internals; mutating a snapshot has no effect.
type Snapshot struct {
	Screen          Screen         `json:"screen"`
	Tab             Tab            `json:"tab"`
	Sport           sport.ID       `json:"sport,omitempty"`
	Username        string         `json:"username"`
	ProfileImage    string         `json:"profileImage"`
	Age             string         `json:"age"`
	Weight          string         `json:"weight"`
	Height          string         `json:"height"`
	Streak          int            `json:"streak"`
	HasTrainedToday bool           `json:"hasTrainedToday"`
	LiftProgress    float64        `json:"liftProgress"`
	TodayValue      int            `json:"todayValue"`
	Chat            []ChatMessage  `json:"chat"`
	Summary         *coach.Summary `json:"summary,omitempty"`
	Pending         PendingFlags   `json:"pending"`
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Screen:          s.screen,
		Tab:             s.tab,
		Sport:           s.sportID,
		Username:        s.state.Username,
		ProfileImage:    s.state.ProfileImage,
		Age:             s.state.Age,
		Weight:          s.state.Weight,
		Height:          s.state.Height,
		Streak:          s.state.Streak,
		HasTrainedToday: s.hasTrainedTodayLocked(),
		LiftProgress:    s.lift.Progress(),
		Chat:            append([]ChatMessage(nil), s.chat...),
		Pending: PendingFlags{
			Chat:    s.chatPending,
			Image:   s.imagePending,
			Avatar:  s.avatarPending,
			Summary: s.summaryPending,
		},
	}
	if s.sportID != "" {
		snap.TodayValue = activity.ValueForDate(s.state.DailyLogs[s.sportID], s.today())
	}
	if s.summary != nil {
		copied := *s.summary
		snap.Summary = &copied
	}
	return snap
}
