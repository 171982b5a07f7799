package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLen is the hard cap on message text. Longer input is
// silently truncated at creation, never rejected.
const MaxMessageLen = 500

// Coordinate is a latitude/longitude pair in signed decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Message is a note pinned to a place and locked until a future date.
// Everything except IsRead is immutable once created.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadID"`
	// ParentMessageID marks a reply; empty means root message.
	ParentMessageID string `json:"parentMessageID,omitempty"`

	// Anchor location, set once at creation.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName string  `json:"placeName,omitempty"`

	// MessageText is capped at MaxMessageLen characters.
	MessageText string `json:"messageText"`
	// PhotoAssetID is a placeholder for a future media attachment.
	PhotoAssetID string `json:"photoAssetID,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	// UnlockDate is compared at calendar-day granularity; its
	// time-of-day component carries no meaning.
	UnlockDate time.Time `json:"unlockDate"`

	CreatorID string `json:"creatorID"`
	IsRead    bool   `json:"isRead"`
}

// NewMessageParams carries the caller-supplied fields for NewMessage.
// ThreadID and ParentMessageID are optional; an absent ThreadID starts
// a new thread rooted at the message's own id.
type NewMessageParams struct {
	Text            string
	UnlockDate      time.Time
	Coordinate      Coordinate
	PlaceName       string
	ThreadID        string
	ParentMessageID string
	CreatorID       string
}

// NewMessage constructs a Message with a fresh id, truncated text and
// an unread flag. Identifier uniqueness is guaranteed here, not by the
// repository.
func NewMessage(p NewMessageParams) Message {
	id := uuid.NewString()
	threadID := p.ThreadID
	if threadID == "" {
		threadID = id
	}
	return Message{
		ID:              id,
		ThreadID:        threadID,
		ParentMessageID: p.ParentMessageID,
		Latitude:        p.Coordinate.Latitude,
		Longitude:       p.Coordinate.Longitude,
		PlaceName:       p.PlaceName,
		MessageText:     Truncate(p.Text, MaxMessageLen),
		CreatedAt:       time.Now(),
		UnlockDate:      p.UnlockDate,
		CreatorID:       p.CreatorID,
		IsRead:          false,
	}
}

// Coordinate returns the message's anchor point.
func (m Message) Coordinate() Coordinate {
	return Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}
}

// IsReply reports whether the message was left in answer to another.
func (m Message) IsReply() bool {
	return m.ParentMessageID != ""
}

// Truncate caps s at n characters, counting runes so multi-byte text
// is never split mid-character.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
