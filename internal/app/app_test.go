package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wirerelay/internal/config"
	"github.com/vovakirdan/wirerelay/internal/proto"
)

func TestAppServesHealth(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.Default()

	application := New(&cfg, &logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAppRunStopsOnCancel(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second

	application := New(&cfg, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestAppAcceptsWebSocketClients(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second

	application := New(&cfg, &logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- application.Run(runCtx) }()

	ts := httptest.NewServer(application.Handler())
	defer ts.Close()

	conn, _, err := websocket.Dial(ctx, strings.Replace(ts.URL, "http", "ws", 1)+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	var hello proto.Frame
	require.NoError(t, wsjson.Read(ctx, conn, &hello))
	assert.Equal(t, proto.OutboundTypeConnected, hello.Type)
	assert.NotEmpty(t, hello.ID)

	require.NoError(t, wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeSubscribe, Room: "general"}))
	var ack proto.Frame
	require.NoError(t, wsjson.Read(ctx, conn, &ack))
	assert.Equal(t, proto.Frame{Type: proto.OutboundTypeSubscribed, Room: "general"}, ack)

	stop()
	require.NoError(t, <-done)
}
