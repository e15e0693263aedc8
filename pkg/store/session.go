package store

import (
	"time"

	"ai-storefront/internal/entity"
	"ai-storefront/pkg/llm"
	"ai-storefront/pkg/navigation"
)

// Session represents one browser session: current view, conversation and
// the notices waiting to be shown on the next render.
type Session struct {
	ID           string           `json:"id"`
	View         navigation.State `json:"view"`
	Conversation Conversation     `json:"conversation"`
	Notices      []Notice         `json:"notices,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type Conversation struct {
	Turns        []entity.Turn      `json:"turns"`
	PendingImage *entity.Attachment `json:"pending_image,omitempty"`

	// Dialogue is the live model handle. It never survives serialisation and
	// is rebuilt from Turns when missing.
	Dialogue llm.Dialogue `json:"-"`
}

const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a one-shot message rendered once and then dropped.
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		View:      navigation.Home(),
		CreatedAt: time.Now(),
	}
}

func (s *Session) AddNotice(level, text string) {
	s.Notices = append(s.Notices, Notice{Level: level, Text: text})
}

// TakeNotices returns the pending notices and clears them.
func (s *Session) TakeNotices() []Notice {
	out := s.Notices
	s.Notices = nil
	return out
}

// FindTurn returns the turn with the given id.
func (s *Session) FindTurn(id string) (*entity.Turn, bool) {
	for i := range s.Conversation.Turns {
		if s.Conversation.Turns[i].Id.String() == id {
			return &s.Conversation.Turns[i], true
		}
	}
	return nil, false
}

// Reset wipes everything except the id.
func (s *Session) Reset() {
	s.View = navigation.Home()
	s.Conversation = Conversation{}
	s.Notices = nil
}
