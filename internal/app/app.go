package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ghostchat/ghostchat-server/internal/config"
	"github.com/ghostchat/ghostchat-server/internal/core"
	"github.com/ghostchat/ghostchat-server/internal/ids"
	"github.com/ghostchat/ghostchat-server/internal/store"
	"github.com/ghostchat/ghostchat-server/internal/store/pebble"
	"github.com/ghostchat/ghostchat-server/internal/store/sqlite"
	transporthttp "github.com/ghostchat/ghostchat-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := openStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if st != nil {
		logger.Info().Str("driver", cfg.Storage.Driver).Str("path", cfg.Storage.Path).Msg("store initialized")
	} else {
		logger.Info().Msg("running without durable storage")
	}

	var persist core.Persister
	if st != nil {
		persist = &storePersister{st: st}
	}

	hub := core.NewHub(
		ids.Random{Size: cfg.RoomIDLength},
		persist,
		core.Options{
			AutoCreateRooms: cfg.AutoCreateRooms,
			HistoryLimit:    cfg.HistoryLimit,
		},
		logger,
	)

	if st != nil {
		if err := bootstrap(hub, st); err != nil {
			st.Close()
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}

	server := transporthttp.NewServer(hub, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

func openStore(cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.New(cfg.Path)
	case "pebble":
		return pebble.New(cfg.Path)
	case "memory", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// bootstrap loads persisted rooms and history into the hub before it
// starts serving.
func bootstrap(hub *core.Hub, st store.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rooms, err := st.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	for _, room := range rooms {
		msgs, err := st.ListMessages(ctx, room.ID, 0)
		if err != nil {
			return fmt.Errorf("list messages for %s: %w", room.ID, err)
		}
		history := make([]core.Message, 0, len(msgs))
		for _, msg := range msgs {
			history = append(history, core.Message{
				Room:      msg.RoomID,
				Role:      core.Role(msg.Role),
				Body:      msg.Body,
				ImageURL:  msg.ImageURL,
				CreatedAt: msg.CreatedAt,
			})
		}
		hub.Bootstrap(room.ID, room.CreatedAt, history)
	}
	return nil
}

// storePersister adapts store.Store to the hub's Persister interface.
type storePersister struct {
	st store.Store
}

func (p *storePersister) CreateRoom(ctx context.Context, roomID string, createdAt time.Time) error {
	return p.st.CreateRoom(ctx, &store.Room{
		ID:           roomID,
		CreatedAt:    createdAt,
		LastActivity: createdAt,
	})
}

func (p *storePersister) AppendMessage(ctx context.Context, msg core.Message) error {
	return p.st.AppendMessage(ctx, &store.Message{
		RoomID:    msg.Room,
		Role:      string(msg.Role),
		Body:      msg.Body,
		ImageURL:  msg.ImageURL,
		CreatedAt: msg.CreatedAt,
	})
}

func (p *storePersister) DeleteRoom(ctx context.Context, roomID string) error {
	return p.st.DeleteRoom(ctx, roomID)
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the store and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
