package entity

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is an image kept in memory, either pending or bound to a turn.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type Turn struct {
	Id        uuid.UUID   `json:"id"`
	Role      Role        `json:"role"`
	Text      string      `json:"text"`
	Image     *Attachment `json:"image,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewTurn(role Role, text string, image *Attachment) Turn {
	return Turn{
		Id:        uuid.New(),
		Role:      role,
		Text:      text,
		Image:     image,
		CreatedAt: time.Now(),
	}
}
