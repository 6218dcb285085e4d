package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/marcossootooo-ctrl/trainuppp/internal/coach"
	"github.com/marcossootooo-ctrl/trainuppp/internal/sport"
)

// The AI operations below share one shape: validate and record intent under
// the lock, release it for the network round trip, then re-acquire and apply
// the result only if the captured generation token still matches. A sport
// switch mid-flight invalidates the token, so a late reply can never land in
// another sport's chat or summary.

// SendMessage appends the user's message and asks the coach for a reply.
// Messages matching the image-intent pattern are routed to image generation
// instead of the conversational model. On service failure the chat is left
// with only the user message; the error is logged and returned for the
// transport layer to report.
func (s *Session) SendMessage(ctx context.Context, text string) (ChatMessage, error) {
	s.mu.Lock()

	if s.screen != ScreenDashboard || s.sportID == "" {
		s.mu.Unlock()
		return ChatMessage{}, ErrNoSport
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.mu.Unlock()
		return ChatMessage{}, ErrEmptyInput
	}

	wantsImage := imageIntent.MatchString(text)
	if (wantsImage && s.imagePending) || (!wantsImage && s.chatPending) {
		s.mu.Unlock()
		return ChatMessage{}, ErrBusy
	}

	def, _ := sport.ByID(s.sportID)
	history := make([]coach.Turn, len(s.chat))
	for i, m := range s.chat {
		history[i] = coach.Turn{Role: m.Role, Text: m.Text}
	}

	s.chat = append(s.chat, ChatMessage{
		ID:        uuid.New(),
		Role:      "user",
		Text:      text,
		Timestamp: s.stamp(),
	})

	gen := s.gen
	if wantsImage {
		s.imagePending = true
	} else {
		s.chatPending = true
	}
	s.mu.Unlock()

	var (
		reply    string
		imageURL string
		err      error
	)
	if wantsImage {
		imageURL, err = s.coach.GenerateImage(ctx, coach.ExerciseImagePrompt(text, def.Name))
	} else {
		reply, err = s.coach.CoachReply(ctx, def.CoachInstruction, history, text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if wantsImage {
		s.imagePending = false
	} else {
		s.chatPending = false
	}

	if err != nil {
		s.log.Error("coach request failed", "sport", s.sportID, "error", err)
		return ChatMessage{}, fmt.Errorf("coach request: %w", err)
	}
	if gen != s.gen {
		s.log.Debug("discarding stale coach reply", "sport", s.sportID)
		return ChatMessage{}, ErrSessionChanged
	}

	if wantsImage {
		if imageURL == "" {
			// No image part in the response; nothing to append.
			return ChatMessage{}, nil
		}
		msg := ChatMessage{
			ID:        uuid.New(),
			Role:      "model",
			Text:      "He generado esta visualización técnica:",
			ImageURL:  imageURL,
			Timestamp: s.stamp(),
		}
		s.chat = append(s.chat, msg)
		return msg, nil
	}

	if reply == "" {
		reply = fallbackReply
	}
	msg := ChatMessage{
		ID:        uuid.New(),
		Role:      "model",
		Text:      reply,
		Timestamp: s.stamp(),
	}
	s.chat = append(s.chat, msg)
	return msg, nil
}

// GenerateAvatar replaces the profile image with a generated one. The avatar
// is session-global, not sport-scoped, so no generation check applies.
func (s *Session) GenerateAvatar(ctx context.Context, description string) (string, error) {
	s.mu.Lock()
	description = strings.TrimSpace(description)
	if description == "" {
		s.mu.Unlock()
		return "", ErrEmptyInput
	}
	if s.avatarPending {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.avatarPending = true
	s.mu.Unlock()

	imageURL, err := s.coach.GenerateImage(ctx, coach.AvatarPrompt(description))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatarPending = false

	if err != nil {
		s.log.Error("avatar generation failed", "error", err)
		return "", fmt.Errorf("avatar generation: %w", err)
	}
	if imageURL == "" {
		return "", nil
	}

	s.state.ProfileImage = imageURL
	s.persistLocked()
	return imageURL, nil
}

// GenerateSummary asks the service for the structured post-workout analysis.
// On success the result is stored and today's training is confirmed (streak
// side effect); on failure the summary stays empty and the screen stays on
// the input form.
func (s *Session) GenerateSummary(ctx context.Context, description string) (*coach.Summary, error) {
	s.mu.Lock()

	if s.screen != ScreenSummary {
		from := s.screen
		s.mu.Unlock()
		return nil, &TransitionError{From: from, Op: "generate summary"}
	}
	if s.sportID == "" {
		s.mu.Unlock()
		return nil, ErrNoSport
	}
	description = strings.TrimSpace(description)
	if description == "" {
		s.mu.Unlock()
		return nil, ErrEmptyInput
	}
	if s.summaryPending {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	def, _ := sport.ByID(s.sportID)
	bio := s.biometricsLocked()
	gen := s.gen
	s.summaryPending = true
	s.mu.Unlock()

	summary, err := s.coach.TrainingSummary(ctx, bio, description, def.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaryPending = false

	if err != nil {
		s.log.Error("summary generation failed", "sport", s.sportID, "error", err)
		return nil, fmt.Errorf("summary generation: %w", err)
	}
	if gen != s.gen {
		s.log.Debug("discarding stale summary", "sport", s.sportID)
		return nil, ErrSessionChanged
	}

	s.summary = summary
	s.confirmTrainingLocked()
	return summary, nil
}
