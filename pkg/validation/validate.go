package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hereafter/pkg/models"
	"hereafter/pkg/unlock"
)

// ValidateMessage checks caller-supplied message fields at plant time.
// Text truncation is not validated here: the factory already caps it
// silently, and that cap is a guarantee, not an error condition.
func ValidateMessage(m models.Message) error {
	var errs []string
	if strings.TrimSpace(m.MessageText) == "" {
		errs = append(errs, "messageText is required")
	}
	if m.Latitude < -90 || m.Latitude > 90 {
		errs = append(errs, fmt.Sprintf("latitude out of range: %v", m.Latitude))
	}
	if m.Longitude < -180 || m.Longitude > 180 {
		errs = append(errs, fmt.Sprintf("longitude out of range: %v", m.Longitude))
	}
	if m.UnlockDate.IsZero() {
		errs = append(errs, "unlockDate is required")
	}
	if m.CreatorID == "" {
		errs = append(errs, "creatorID is required")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ValidateUnlockDate enforces the composition rule that locks start no
// earlier than tomorrow. allowToday relaxes it for same-day planting.
func ValidateUnlockDate(unlockDate, now time.Time, allowToday bool) error {
	if unlockDate.IsZero() {
		return errors.New("unlockDate is required")
	}
	min := unlock.Tomorrow(now)
	if allowToday {
		min = unlock.StartOfDay(now)
	}
	if unlock.StartOfDay(unlockDate).Before(min) {
		return fmt.Errorf("unlockDate %s is before the minimum %s",
			unlockDate.Format("2006-01-02"), min.Format("2006-01-02"))
	}
	return nil
}
