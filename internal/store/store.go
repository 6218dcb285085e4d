// Package store persists the user profile, streak, and activity history in a
// local SQLite database, exposed as a string key-value table. Every key is
// read once at startup and rewritten as a group whenever relevant state
// changes; there is no transactional coupling between keys.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/marcossootooo-ctrl/trainuppp/internal/activity"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Profile keys. The v2 suffix on daily logs survives from a format change in
// an earlier release; the stored shape is the current one.
const (
	keyUsername     = "trainup_username"
	keyProfileImage = "trainup_profile_image"
	keyStreak       = "trainup_streak"
	keyLastTrained  = "trainup_last_trained"
	keyAge          = "trainup_age"
	keyWeight       = "trainup_weight"
	keyHeight       = "trainup_height"
	keyDailyLogs    = "trainup_daily_logs_v2"
	keyWeeklyStats  = "trainup_weekly_stats"
)

// Defaults applied when a key has never been written.
const (
	DefaultUsername = "Atleta"
	DefaultAvatar   = "https://api.dicebear.com/7.x/avataaars/svg?seed=Felix&backgroundColor=b6e3f4"
)

// State is the full persisted profile.
type State struct {
	Username     string
	ProfileImage string
	Streak       int
	LastTrained  string // ISO date, empty when never trained
	Age          string
	Weight       string
	Height       string
	DailyLogs    map[sport.ID]activity.Log
	WeeklyStats  map[sport.ID]activity.Week
}

// Store wraps the SQLite profile database.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the profile database at dir/profile.db and applies
// pending migrations from the embedded migration set.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "profile.db")
	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("migrating profile db: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening profile db: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+dbPath)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the full profile, applying defaults for keys that have never
// been written. Weekly stats default to a zero-filled week per discipline.
func (s *Store) Load() (*State, error) {
	st := &State{
		DailyLogs:   make(map[sport.ID]activity.Log),
		WeeklyStats: make(map[sport.ID]activity.Week),
	}

	var err error
	if st.Username, err = s.getString(keyUsername, DefaultUsername); err != nil {
		return nil, err
	}
	if st.ProfileImage, err = s.getString(keyProfileImage, DefaultAvatar); err != nil {
		return nil, err
	}
	if st.LastTrained, err = s.getString(keyLastTrained, ""); err != nil {
		return nil, err
	}
	if st.Age, err = s.getString(keyAge, ""); err != nil {
		return nil, err
	}
	if st.Weight, err = s.getString(keyWeight, ""); err != nil {
		return nil, err
	}
	if st.Height, err = s.getString(keyHeight, ""); err != nil {
		return nil, err
	}

	streakStr, err := s.getString(keyStreak, "0")
	if err != nil {
		return nil, err
	}
	if st.Streak, err = strconv.Atoi(streakStr); err != nil {
		return nil, fmt.Errorf("parsing streak %q: %w", streakStr, err)
	}

	if err := s.getJSON(keyDailyLogs, &st.DailyLogs); err != nil {
		return nil, err
	}
	if err := s.getJSON(keyWeeklyStats, &st.WeeklyStats); err != nil {
		return nil, err
	}
	for _, id := range sport.IDs() {
		if _, ok := st.WeeklyStats[id]; !ok {
			st.WeeklyStats[id] = activity.Week{}
		}
	}

	return st, nil
}

// Save rewrites every profile key from the given state. Keys are written
// one by one; a crash mid-save leaves a partially updated profile, which is
// acceptable because the same group is rewritten on the next change.
func (s *Store) Save(st *State) error {
	writes := []struct {
		key, value string
	}{
		{keyUsername, st.Username},
		{keyProfileImage, st.ProfileImage},
		{keyStreak, strconv.Itoa(st.Streak)},
		{keyLastTrained, st.LastTrained},
		{keyAge, st.Age},
		{keyWeight, st.Weight},
		{keyHeight, st.Height},
	}
	for _, w := range writes {
		if err := s.setString(w.key, w.value); err != nil {
			return err
		}
	}

	if err := s.setJSON(keyDailyLogs, st.DailyLogs); err != nil {
		return err
	}
	return s.setJSON(keyWeeklyStats, st.WeeklyStats)
}

func (s *Store) getString(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM profile WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setString(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO profile (key, value) VALUES (?, ?)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *Store) getJSON(key string, out any) error {
	raw, err := s.getString(key, "")
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *Store) setJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.setString(key, string(raw))
}
