package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the single local user record. No accounts, no server;
// DeviceID is generated once per installation and stamps every message
// this installation plants.
type UserProfile struct {
	FirstName              string    `json:"firstName"`
	CreatedAt              time.Time `json:"createdAt"`
	HasCompletedOnboarding bool      `json:"hasCompletedOnboarding"`
	DeviceID               string    `json:"deviceID"`
}

// NewProfile creates a fresh profile with a device-bound identifier.
// Onboarding starts incomplete; the flag only ever flips to true.
func NewProfile(firstName string) UserProfile {
	return UserProfile{
		FirstName:              firstName,
		CreatedAt:              time.Now(),
		HasCompletedOnboarding: false,
		DeviceID:               uuid.NewString(),
	}
}
