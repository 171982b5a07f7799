// Package unlock holds the pure time-lock policy: a message opens on
// its unlock calendar day and stays open forever after. Everything is
// parameterized by `now` so callers (and tests) control the clock.
package unlock

import (
	"time"

	"github.com/dustin/go-humanize"

	"hereafter/pkg/models"
)

// StartOfDay strips the time component in t's own location. All lock
// comparisons happen at this day granularity.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsUnlocked reports whether m's unlock day is on or before now's day,
// in now's local calendar.
func IsUnlocked(m models.Message, now time.Time) bool {
	unlock := m.UnlockDate.In(now.Location())
	return !StartOfDay(unlock).After(StartOfDay(now))
}

// DaysUntilUnlock returns the whole calendar days from now's day to the
// unlock day. ok is false iff the message is already unlocked, so this
// and IsUnlocked can never disagree at the boundary.
func DaysUntilUnlock(m models.Message, now time.Time) (days int, ok bool) {
	if IsUnlocked(m, now) {
		return 0, false
	}
	// Count days through UTC-normalized dates so DST transitions in the
	// local zone cannot skew the difference.
	from := asUTCDate(StartOfDay(now))
	to := asUTCDate(StartOfDay(m.UnlockDate.In(now.Location())))
	return int(to.Sub(from) / (24 * time.Hour)), true
}

func asUTCDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RelativeAge renders how long ago a message was planted: "3 months
// ago", "1 year ago". Wording is a display concern; only the coarse
// tiers are contractual.
func RelativeAge(createdAt, now time.Time) string {
	return humanize.RelTime(createdAt, now, "ago", "from now")
}

// Tomorrow is the minimum legal unlock date relative to now.
func Tomorrow(now time.Time) time.Time {
	return StartOfDay(now.AddDate(0, 0, 1))
}

// OneYearFrom is the default unlock date suggestion.
func OneYearFrom(now time.Time) time.Time {
	return StartOfDay(now.AddDate(1, 0, 0))
}

// DisplayDate renders the long unlock-date form, e.g. "March 3, 2027".
func DisplayDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// ShortDate renders the compact form used in chat bubbles.
func ShortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
