// Package chat models the conversational surface: everything a client
// renders in the thread view is an Item. It deliberately knows nothing
// about persistence; the repository core never imports it.
package chat

import (
	"time"

	"github.com/google/uuid"

	"hereafter/pkg/models"
)

// Kind tags the Item union.
type Kind string

const (
	KindSystem      Kind = "system"
	KindUserMessage Kind = "user_message"
	KindQuickReply  Kind = "quick_reply"
	KindTyping      Kind = "typing"
)

// Item is a tagged union: exactly one of the variant pointers is set,
// matching Kind. Typing items carry only their id and timestamp.
type Item struct {
	Kind       Kind            `json:"kind"`
	System     *SystemMessage  `json:"system,omitempty"`
	User       *models.Message `json:"user,omitempty"`
	QuickReply *QuickReply     `json:"quickReply,omitempty"`

	id string
	ts time.Time
}

// SystemMessage is a line from the app's host voice.
type SystemMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// QuickReply is a set of tappable response options.
type QuickReply struct {
	ID        string    `json:"id"`
	Options   []string  `json:"options"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSystem wraps a host-voice line as an Item.
func NewSystem(text string, at time.Time) Item {
	sm := &SystemMessage{ID: uuid.NewString(), Text: text, Timestamp: at}
	return Item{Kind: KindSystem, System: sm, id: "sys-" + sm.ID, ts: at}
}

// NewUserMessage wraps a planted message as an Item.
func NewUserMessage(m models.Message) Item {
	return Item{Kind: KindUserMessage, User: &m, id: "usr-" + m.ID, ts: m.CreatedAt}
}

// NewQuickReply wraps response options as an Item.
func NewQuickReply(options []string, at time.Time) Item {
	qr := &QuickReply{ID: uuid.NewString(), Options: options, Timestamp: at}
	return Item{Kind: KindQuickReply, QuickReply: qr, id: "qr-" + qr.ID, ts: at}
}

// NewTyping creates a typing indicator Item.
func NewTyping(at time.Time) Item {
	return Item{Kind: KindTyping, id: "typing-" + uuid.NewString(), ts: at}
}

// ID is stable and unique per Item, prefixed by kind.
func (i Item) ID() string { return i.id }

// Timestamp orders Items in the thread view.
func (i Item) Timestamp() time.Time { return i.ts }
