package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewMessageDefaults(t *testing.T) {
	unlock := time.Now().AddDate(1, 0, 0)
	m := NewMessage(NewMessageParams{
		Text:       "see you next year",
		Coordinate: Coordinate{Latitude: 37.7749, Longitude: -122.4194},
		PlaceName:  "Dolores Park",
		UnlockDate: unlock,
		CreatorID:  "device-1",
	})

	if m.ID == "" {
		t.Fatalf("id must be assigned")
	}
	if m.ThreadID != m.ID {
		t.Fatalf("root message threadID = %q; want own id %q", m.ThreadID, m.ID)
	}
	if m.IsReply() {
		t.Fatalf("root message must not be a reply")
	}
	if m.IsRead {
		t.Fatalf("new messages start unread")
	}
	if m.CreatedAt.IsZero() {
		t.Fatalf("createdAt must be set")
	}
	if !m.UnlockDate.Equal(unlock) {
		t.Fatalf("unlockDate = %v; want %v", m.UnlockDate, unlock)
	}
}

func TestNewMessageReply(t *testing.T) {
	parent := NewMessage(NewMessageParams{
		Text: "first", UnlockDate: time.Now().AddDate(0, 6, 0), CreatorID: "d",
	})
	reply := NewMessage(NewMessageParams{
		Text:            "and again",
		ThreadID:        parent.ThreadID,
		ParentMessageID: parent.ID,
		UnlockDate:      time.Now().AddDate(0, 6, 0),
		CreatorID:       "d",
	})
	if reply.ThreadID != parent.ThreadID {
		t.Fatalf("reply must stay in the parent's thread")
	}
	if !reply.IsReply() {
		t.Fatalf("reply with parentMessageID must report IsReply")
	}
	if reply.ID == parent.ID {
		t.Fatalf("reply must get its own id")
	}
}

func TestNewMessageTruncatesLongText(t *testing.T) {
	long := strings.Repeat("é", MaxMessageLen+40)
	m := NewMessage(NewMessageParams{
		Text: long, UnlockDate: time.Now().AddDate(1, 0, 0), CreatorID: "d",
	})
	got := []rune(m.MessageText)
	if len(got) != MaxMessageLen {
		t.Fatalf("truncated length = %d runes; want %d", len(got), MaxMessageLen)
	}
	if !strings.HasPrefix(long, m.MessageText) {
		t.Fatalf("truncation must keep the leading runes intact")
	}
}

func TestTruncateShortStringsUntouched(t *testing.T) {
	if got := Truncate("short", 500); got != "short" {
		t.Fatalf("Truncate changed a short string: %q", got)
	}
	if got := Truncate("", 500); got != "" {
		t.Fatalf("Truncate on empty = %q", got)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	m := NewMessage(NewMessageParams{
		Text:       "x",
		Coordinate: Coordinate{Latitude: -33.9, Longitude: 151.2},
		UnlockDate: time.Now().AddDate(1, 0, 0), CreatorID: "d",
	})
	c := m.Coordinate()
	if c.Latitude != -33.9 || c.Longitude != 151.2 {
		t.Fatalf("Coordinate() = %+v", c)
	}
}
