// Package notify abstracts the local-alert collaborator. The core only
// ever hands it a Message; delivery is someone else's problem.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hereafter/pkg/logger"
	"hereafter/pkg/models"
	"hereafter/pkg/settings"
	"hereafter/pkg/unlock"
)

// Notifier schedules and cancels unlock alerts, keyed by message id.
type Notifier interface {
	ScheduleUnlock(m models.Message) error
	Cancel(messageID string) error
}

// pendingPrefix namespaces scheduled-alert records in the settings
// store so Cancel works across process restarts.
const pendingPrefix = "notify:pending:"

type pendingAlert struct {
	MessageID  string    `json:"messageID"`
	Body       string    `json:"body"`
	UnlockDate time.Time `json:"unlockDate"`
	FiredAt    time.Time `json:"firedAt,omitempty"`
}

// LogNotifier is the default platform-free implementation: it records
// the pending alert in the settings store and emits it as a structured
// log event. A mobile shell would swap in a real scheduler here.
type LogNotifier struct {
	Settings *settings.Store
}

// NewLogNotifier builds a LogNotifier over the given settings store.
func NewLogNotifier(s *settings.Store) *LogNotifier {
	return &LogNotifier{Settings: s}
}

// ScheduleUnlock records an alert for m keyed by its id and unlock
// date and logs the alert body.
func (n *LogNotifier) ScheduleUnlock(m models.Message) error {
	body := AlertBody(m)
	rec := pendingAlert{MessageID: m.ID, Body: body, UnlockDate: m.UnlockDate}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := n.Settings.Set(pendingPrefix+m.ID, raw); err != nil {
		logger.Log.Error("notify_schedule_failed", zap.String("id", m.ID), zap.Error(err))
		return err
	}
	logger.Log.Info("unlock_alert_scheduled",
		zap.String("id", m.ID),
		zap.Time("unlock_date", m.UnlockDate),
		zap.String("body", body))
	return nil
}

// Cancel drops the pending alert for messageID. Cancelling an alert
// that was never scheduled is a no-op.
func (n *LogNotifier) Cancel(messageID string) error {
	return n.Settings.Delete(pendingPrefix + messageID)
}

// Pending lists the ids of messages with an alert still scheduled.
func (n *LogNotifier) Pending() ([]string, error) {
	keys, err := n.Settings.Keys(pendingPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k[len(pendingPrefix):])
	}
	return out, nil
}

// AlertBody renders the unlock alert text: "Something you left at
// <place> on <date> just unlocked."
func AlertBody(m models.Message) string {
	place := m.PlaceName
	if place == "" {
		place = "a place that matters"
	}
	return fmt.Sprintf("Something you left at %s on %s just unlocked.",
		place, unlock.ShortDate(m.CreatedAt))
}
