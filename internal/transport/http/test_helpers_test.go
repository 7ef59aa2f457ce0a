package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ghostchat/ghostchat-server/internal/config"
	"github.com/ghostchat/ghostchat-server/internal/core"
	"github.com/ghostchat/ghostchat-server/internal/ids"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := core.NewHub(&ids.Sequence{}, nil, core.Options{AutoCreateRooms: true}, nil)
	go hub.Run(ctx)

	nop := zerolog.Nop()
	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		AllowedOrigins:    []string{"*"},
	}, &nop)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}
