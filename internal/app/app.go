// Package app wires the shared collaborators every subcommand needs:
// config, logger, API client, and session store.
package app

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"pixlab/internal/api"
	"pixlab/internal/config"
	"pixlab/internal/logging"
	"pixlab/internal/session"

	"github.com/spf13/afero"
)

type App struct {
	Cfg    config.Config
	Log    *slog.Logger
	Client *api.Client
	Store  *session.Store

	closer io.Closer
}

// Options tweak construction per subcommand.
type Options struct {
	ConfigPath string
	// Quiet routes logs to the configured file or nowhere. The TUI
	// owns the terminal, so it must not log to stderr.
	Quiet bool
}

func Load(opt Options) (*App, error) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		return nil, err
	}

	var lg *slog.Logger
	var closer io.Closer
	if opt.Quiet && cfg.Log.File == "" {
		lg = logging.Discard()
	} else {
		lo := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
		lg, closer, err = logging.New(lo)
		if err != nil {
			return nil, err
		}
	}

	client, err := api.NewClient(api.ClientOptions{
		Addr:     cfg.Server.Addr,
		Insecure: cfg.Server.Insecure,
		Timeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		Logger:   lg,
	})
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	store := session.NewStore(afero.NewOsFs(), cfg.State.Dir)
	// The client's token follows the store: a save arms it, a clear
	// disarms it. Subcommands mutate the store and never touch the
	// token directly.
	store.Subscribe(func(s session.Session, _ bool) {
		client.SetToken(s.Token)
	})
	return &App{Cfg: cfg, Log: lg, Client: client, Store: store, closer: closer}, nil
}

func (a *App) Close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

// RequireSession loads the stored session and arms the client with its
// token. Subcommands that need auth call this first.
func (a *App) RequireSession() (session.Session, error) {
	sess, ok := a.Store.Load()
	if !ok {
		return session.Session{}, errors.New("not logged in, run `pixlab login` first")
	}
	a.Client.SetToken(sess.Token)
	return sess, nil
}

// VerifyInterval converts the configured seconds to a duration.
func (a *App) VerifyInterval() time.Duration {
	return time.Duration(a.Cfg.Verify.IntervalSeconds) * time.Second
}
