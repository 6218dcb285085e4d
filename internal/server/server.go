package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marcossootooo-ctrl/trainuppp/internal/session"
)

// Server exposes the application session as a JSON API.
type Server struct {
	session *session.Session
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables auth (tsnet deployments rely on tailnet access instead).
func New(sess *session.Session, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		session: sess,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}

		r.Get("/state", s.handleState)
		r.Get("/sports", s.handleSports)

		// Intro gesture
		r.Post("/gesture/begin", s.handleGestureBegin)
		r.Post("/gesture/move", s.handleGestureMove)
		r.Post("/gesture/end", s.handleGestureEnd)

		// Navigation
		r.Post("/onboarding", s.handleOnboarding)
		r.Post("/sport", s.handleSelectSport)
		r.Post("/tab", s.handleSetTab)
		r.Post("/selection", s.handleReturnToSelection)
		r.Post("/workout/finish", s.handleFinishWorkout)

		// Activity logging
		r.Get("/activity/today", s.handleActivityToday)
		r.Post("/activity/log", s.handleActivityLog)
		r.Get("/activity/chart", s.handleActivityChart)

		// Coach + AI
		r.Get("/chat", s.handleChatHistory)
		r.Post("/chat", s.handleChat)
		r.Post("/avatar", s.handleAvatar)
		r.Post("/summary", s.handleSummary)
		r.Post("/summary/close", s.handleCloseSummary)

		// Profile
		r.Post("/profile/username", s.handleUsername)
	})
}
