package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/air-gapped/jsxpreview/internal/config"
	"github.com/air-gapped/jsxpreview/internal/live"
	"github.com/air-gapped/jsxpreview/internal/vfs"
)

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/live"
}

func TestLive_DocumentThroughServer(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv.URL), &websocket.DialOptions{
		Subprotocols: []string{live.SubprotocolMsgPack},
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	codec := live.CodecFor(conn.Subprotocol())
	data, err := codec.Encode(&live.Message{
		Type: live.TypeRender,
		ID:   1,
		Files: []vfs.File{
			{Name: "App.tsx", Content: "export default function App() { return <main>live</main>; }"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.Write(ctx, codec.FrameType(), data); err != nil {
		t.Fatal(err)
	}

	_, reply, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	msg, err := codec.Decode(reply)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != live.TypeDocument || msg.ID != 1 || msg.Empty {
		t.Fatalf("reply = %+v", msg)
	}
	if !strings.Contains(msg.HTML, "<main>live</main>") || !strings.Contains(msg.HTML, "<!DOCTYPE html>") {
		t.Errorf("HTML = %q", msg.HTML)
	}
}

func TestLive_OriginPolicy(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) {
		c.AllowedOrigins = []string{"editor.example.com"}
	})

	tests := []struct {
		origin string
		want   int
	}{
		{"https://editor.example.com", http.StatusSwitchingProtocols},
		{"https://evil.test", http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.origin, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			header := http.Header{}
			header.Set("Origin", tc.origin)
			conn, resp, err := websocket.Dial(ctx, wsURL(srv.URL), &websocket.DialOptions{HTTPHeader: header})
			if conn != nil {
				defer conn.Close(websocket.StatusNormalClosure, "")
			}
			if resp == nil {
				t.Fatalf("no response: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d (err %v)", resp.StatusCode, tc.want, err)
			}
		})
	}
}
