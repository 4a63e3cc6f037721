package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/contacts"
	"github.com/dmitrijs2005/gophchat/internal/client/login"
	"github.com/dmitrijs2005/gophchat/internal/client/messaging"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/filex"
	"github.com/dmitrijs2005/gophchat/internal/logging"
)

// Build opens local storage, dials the backends and assembles an App on
// stdin/stdout. The returned cleanup releases everything in reverse order.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return fail(err)
	}

	db, err := client.InitDatabase(ctx, cfg.DatabasePath())
	if err != nil {
		return fail(fmt.Errorf("open database: %w", err))
	}
	closers = append(closers, func() { _ = db.Close() })

	auth, err := newAuthClient(cfg, logger)
	if err != nil {
		return fail(fmt.Errorf("auth client: %w", err))
	}
	closers = append(closers, func() { _ = auth.Close() })

	conn, err := messaging.NewGRPCConnector(cfg.MessagingEndpointAddr, logger)
	if err != nil {
		return fail(fmt.Errorf("messaging connector: %w", err))
	}
	closers = append(closers, func() { _ = conn.Close() })

	store, closeStore, err := newSessionStore(ctx, cfg, db)
	if err != nil {
		return fail(fmt.Errorf("session store: %w", err))
	}
	closers = append(closers, closeStore)

	syncer := contacts.NewSyncer(auth, db)
	dispatcher := contacts.NewDispatcher(syncer.Sync, logger)
	dispatcher.Start(ctx)
	closers = append(closers, dispatcher.Stop)

	orch := login.New(auth, conn, store,
		login.WithGate(login.NewGate(cfg.SplashMinDuration, cfg.SplashMaxDuration)),
		login.WithLogger(logger),
		login.WithContactSync(dispatcher),
	)

	app := NewApp(Deps{
		Config:       cfg,
		Auth:         auth,
		Orchestrator: orch,
		Store:        store,
		Contacts:     syncer,
		Messaging:    conn,
		Logger:       logger,
		In:           os.Stdin,
		Out:          os.Stdout,
	})
	return app, cleanup, nil
}

// authClient is what the CLI needs from either auth transport.
type authClient interface {
	client.Client
	contacts.Source
}

func newAuthClient(cfg *config.Config, logger logging.Logger) (authClient, error) {
	switch cfg.AuthTransport {
	case config.TransportHTTP:
		return client.NewHTTPClient(cfg.AuthHTTPBaseURL, cfg.RequestTimeout), nil
	default:
		return client.NewGRPCClient(cfg.ServerEndpointAddr, logger, client.WithRequestTimeout(cfg.RequestTimeout))
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, db *sql.DB) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		s, err := session.OpenRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		var opts []session.SQLiteOption
		if cfg.VaultSecret != "" {
			opts = append(opts, session.WithSecret(cfg.VaultSecret))
		}
		s, err := session.NewSQLiteStore(ctx, db, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
