package mcp

import (
	"context"

	"github.com/marcossootooo-ctrl/trainuppp/internal/activity"
	"github.com/marcossootooo-ctrl/trainuppp/internal/session"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

// DataSource abstracts the session for MCP tools. Both SessionSource (in
// process) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	State(ctx context.Context) (session.Snapshot, error)
	Sports(ctx context.Context) ([]sport.Definition, error)
	TodayValue(ctx context.Context, id sport.ID) (int, error)
	WeeklyChart(ctx context.Context, id sport.ID) ([]activity.ChartPoint, error)
	LogActivity(ctx context.Context, id sport.ID, value int) error
}

// SessionSource adapts an in-process session to DataSource.
type SessionSource struct {
	Session *session.Session
}

// Compile-time check: *SessionSource satisfies DataSource.
var _ DataSource = (*SessionSource)(nil)

func (s *SessionSource) State(context.Context) (session.Snapshot, error) {
	return s.Session.Snapshot(), nil
}

func (s *SessionSource) Sports(context.Context) ([]sport.Definition, error) {
	return sport.All(), nil
}

func (s *SessionSource) TodayValue(_ context.Context, id sport.ID) (int, error) {
	if _, ok := sport.ByID(id); !ok {
		return 0, session.ErrUnknownSport
	}
	return s.Session.TodayValue(id), nil
}

func (s *SessionSource) WeeklyChart(_ context.Context, id sport.ID) ([]activity.ChartPoint, error) {
	return s.Session.ChartFor(id)
}

func (s *SessionSource) LogActivity(_ context.Context, id sport.ID, value int) error {
	return s.Session.LogActivity(id, value)
}
