// Package app wires the services together: config, stores, the unlock
// sweep and the HTTP surface. Everything is constructed here and
// passed by reference; no package owns ambient global state.
package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"hereafter/internal/unlocker"
	"hereafter/pkg/api"
	"hereafter/pkg/api/handlers"
	"hereafter/pkg/config"
	"hereafter/pkg/logger"
	"hereafter/pkg/notify"
	"hereafter/pkg/settings"
	"hereafter/pkg/store"
)

// App holds the constructed services and the server lifecycle.
type App struct {
	eff     config.Effective
	version string

	repo     *store.Repository
	settings *settings.Store
	notifier *notify.LogNotifier
	sweep    *unlocker.Unlocker

	srv         *http.Server
	cancelSweep context.CancelFunc
}

// New validates config and opens the stores. It does not start the
// sweep or the HTTP server; call Run for that.
func New(eff config.Effective, version string) (*App, error) {
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	dataDir := eff.Config.Storage.DataDir
	repo, err := store.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open message store: %w", err)
	}
	st, err := settings.Open(filepath.Join(dataDir, "settings"))
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	notifier := notify.NewLogNotifier(st)
	a := &App{
		eff:      eff,
		version:  version,
		repo:     repo,
		settings: st,
		notifier: notifier,
		sweep:    unlocker.New(repo, notifier),
	}
	return a, nil
}

// Run starts the unlock sweep and the HTTP server and blocks until ctx
// is canceled or the server fails.
func (a *App) Run(ctx context.Context) error {
	cancel, err := unlocker.Start(ctx, a.sweep, a.eff.Config.Unlock.Enabled, a.eff.Config.Unlock.Cron)
	if err != nil {
		return err
	}
	a.cancelSweep = cancel

	a.printBanner()
	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		a.shutdown()
		return err
	}
}

// Env builds the handler environment from the app's services.
func (a *App) Env() handlers.Env {
	return handlers.Env{
		Repo:         a.repo,
		Settings:     a.settings,
		Notifier:     a.notifier,
		RadiusMeters: a.eff.Config.Proximity.RadiusMeters,
		AllowToday:   a.eff.Config.Unlock.AllowToday,
	}
}

func (a *App) startHTTP() <-chan error {
	opts := api.Options{
		RPS:   a.eff.Config.Server.RateLimit.RPS,
		Burst: a.eff.Config.Server.RateLimit.Burst,
	}
	a.srv = &http.Server{
		Addr:              a.eff.Config.Addr(),
		Handler:           api.Handler(a.Env(), opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("http_listening", zap.String("addr", a.srv.Addr))
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

func (a *App) shutdown() {
	if a.cancelSweep != nil {
		a.cancelSweep()
	}
	if a.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.srv.Shutdown(ctx)
	}
	if err := a.settings.Close(); err != nil {
		logger.Log.Error("settings_close_failed", zap.Error(err))
	}
	logger.Log.Info("shutdown_complete")
	logger.Sync()
}
