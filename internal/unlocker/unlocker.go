// Package unlocker runs the background unlock sweep: on a cron
// schedule it scans the repository for messages that have crossed
// their unlock day unread and hands each one to the notifier, once.
package unlocker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"hereafter/pkg/logger"
	"hereafter/pkg/notify"
	"hereafter/pkg/store"
)

// DefaultCron fires the sweep daily at 09:00 local time.
const DefaultCron = "0 9 * * *"

// Unlocker owns the sweep loop. It only reads the repository, so the
// repository's single-writer discipline is untouched.
type Unlocker struct {
	repo     *store.Repository
	notifier notify.Notifier

	mu      sync.Mutex
	alerted map[string]struct{}
}

// New builds an Unlocker over the given repository and notifier.
func New(repo *store.Repository, notifier notify.Notifier) *Unlocker {
	return &Unlocker{repo: repo, notifier: notifier, alerted: map[string]struct{}{}}
}

// Start launches the sweep scheduler when enabled. An empty cron maps
// to DefaultCron; an invalid one is a startup error, not a silent
// fallback. The returned cancel stops the loop.
func Start(ctx context.Context, u *Unlocker, enabled bool, cronExpr string) (context.CancelFunc, error) {
	if !enabled {
		logger.Log.Info("unlocker_disabled")
		return func() {}, nil
	}
	if cronExpr == "" {
		cronExpr = DefaultCron
	}
	if !gronx.IsValid(cronExpr) {
		logger.Log.Error("unlocker_invalid_cron", zap.String("cron", cronExpr))
		return nil, fmt.Errorf("invalid unlock sweep cron expression: %s", cronExpr)
	}
	logger.Log.Info("unlocker_enabled", zap.String("cron", cronExpr))
	ctx2, cancel := context.WithCancel(ctx)
	go u.runScheduler(ctx2, cronExpr)
	return cancel, nil
}

// runScheduler sleeps until the next cron tick and sweeps. gronx gives
// us full cron syntax without hand-rolling a matcher.
func (u *Unlocker) runScheduler(ctx context.Context, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("unlocker_stopping")
			return
		default:
		}

		now := time.Now()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Log.Error("unlocker_nexttick_failed", zap.String("cron", cronExpr), zap.Error(err))
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if n := u.RunOnce(time.Now()); n > 0 {
				logger.Log.Info("unlock_sweep_alerts", zap.Int("count", n))
			}
		case <-ctx.Done():
			logger.Log.Info("unlocker_stopping")
			return
		}
	}
}

// RunOnce performs a single sweep as of now and returns how many new
// alerts were handed to the notifier. Each message alerts at most once
// per process lifetime; the notifier's own pending records cover
// restarts.
func (u *Unlocker) RunOnce(now time.Time) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	fired := 0
	for _, m := range u.repo.UnreadUnlocked(now) {
		if _, done := u.alerted[m.ID]; done {
			continue
		}
		if err := u.notifier.ScheduleUnlock(m); err != nil {
			logger.Log.Error("unlock_alert_failed", zap.String("id", m.ID), zap.Error(err))
			continue
		}
		u.alerted[m.ID] = struct{}{}
		fired++
	}
	return fired
}
