package settings

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"hereafter/pkg/logger"
	"hereafter/pkg/models"
)

// ProfileKey is the fixed key the single user profile lives under.
const ProfileKey = "profile:user"

// LoadProfile returns the stored profile. ok is false when no profile
// exists yet (first run or after a reset). A corrupt record is logged
// and treated as absent.
func (s *Store) LoadProfile() (p models.UserProfile, ok bool, err error) {
	raw, err := s.Get(ProfileKey)
	if errors.Is(err, ErrNotFound) {
		return models.UserProfile{}, false, nil
	}
	if err != nil {
		return models.UserProfile{}, false, err
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warn("profile_corrupt", zap.Error(err))
		return models.UserProfile{}, false, nil
	}
	return p, true, nil
}

// SaveProfile overwrites the profile wholesale. There is no merge; the
// caller holds the full record.
func (s *Store) SaveProfile(p models.UserProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.Set(ProfileKey, raw); err != nil {
		logger.Log.Error("profile_save_failed", zap.Error(err))
		return err
	}
	logger.Log.Info("profile_saved", zap.String("device_id", p.DeviceID))
	return nil
}

// ClearProfile removes the profile record (explicit reset only).
func (s *Store) ClearProfile() error {
	return s.Delete(ProfileKey)
}
