package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
)

// Temporary debug tests; delete before finishing.

func TestDebugGinEcho(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			t.Logf("server accept error: %v", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "bye")
		ctx := context.Background()
		if err := wsjson.Write(ctx, conn, map[string]string{"hello": "world"}); err != nil {
			t.Logf("server write error: %v", err)
			return
		}
		t.Logf("server wrote greeting")
		var got map[string]string
		if err := wsjson.Read(ctx, conn, &got); err != nil {
			t.Logf("server read error: %v", err)
			return
		}
		t.Logf("server read: %v", got)
		conn.Close(websocket.StatusNormalClosure, "done")
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, ts.URL)

	var greeting map[string]string
	if err := wsjson.Read(ctx, conn, &greeting); err != nil {
		t.Fatalf("client read greeting: %v", err)
	}
	t.Logf("client got greeting: %v", greeting)
	if err := wsjson.Write(ctx, conn, map[string]string{"ping": "pong"}); err != nil {
		t.Fatalf("client write: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
}
