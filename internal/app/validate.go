package app

import (
	"fmt"

	"github.com/adhocore/gronx"

	"hereafter/pkg/config"
)

// validateConfig fails fast on configuration that would only surface
// as a confusing runtime error later.
func validateConfig(eff config.Effective) error {
	c := eff.Config
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must be set")
	}
	if c.Proximity.RadiusMeters <= 0 {
		return fmt.Errorf("proximity.radius_meters must be positive: %v", c.Proximity.RadiusMeters)
	}
	if c.Unlock.Enabled && c.Unlock.Cron != "" && !gronx.IsValid(c.Unlock.Cron) {
		return fmt.Errorf("invalid unlock.cron expression: %s", c.Unlock.Cron)
	}
	return nil
}
