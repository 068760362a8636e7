// Package live serves the websocket channel an editor uses to stream file
// sets and receive preview documents as they are rebuilt.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/air-gapped/jsxpreview/internal/logging"
	"github.com/air-gapped/jsxpreview/internal/worker"
)

// DefaultReadLimit caps a single client frame.
const DefaultReadLimit = 5 * 1024 * 1024

const writeTimeout = 10 * time.Second

// Handler upgrades requests to the live channel. Each connection owns a
// worker, so a burst of edits only ever renders the newest file set.
type Handler struct {
	Render worker.RenderFunc
	// AllowOrigin decides cross-origin upgrades. Nil allows same-origin
	// requests only.
	AllowOrigin func(r *http.Request) bool
	// ReadLimit caps a single frame in bytes. Zero means DefaultReadLimit.
	ReadLimit int64
}

func (h *Handler) originAllowed(r *http.Request) bool {
	if r.Header.Get("Origin") == "" {
		return true
	}
	if h.AllowOrigin != nil {
		return h.AllowOrigin(r)
	}
	return sameOrigin(r)
}

// sameOrigin reports whether the Origin header names the host the request
// was sent to.
func sameOrigin(r *http.Request) bool {
	u, err := url.Parse(r.Header.Get("Origin"))
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.originAllowed(r) {
		http.Error(w, "Forbidden: origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{SubprotocolJSON, SubprotocolMsgPack},
		// Origin was checked above against the configured allowlist.
		InsecureSkipVerify: true,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("websocket accept failed", "error", err)
		return
	}

	limit := h.ReadLimit
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	conn.SetReadLimit(limit)

	s := &session{
		id:     uuid.NewString(),
		conn:   conn,
		codec:  CodecFor(conn.Subprotocol()),
		worker: worker.New(h.Render),
	}
	s.log = logging.FromContext(r.Context()).With("session", s.id, "codec", s.codec.Name())
	s.serve(r.Context())
}

type session struct {
	id     string
	conn   *websocket.Conn
	codec  Codec
	worker *worker.Worker
	log    *slog.Logger

	writeMu sync.Mutex
}

func (s *session) serve(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	s.log.Info("live session opened")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		for res := range s.worker.Results() {
			msg := &Message{Type: TypeDocument, ID: res.ID, HTML: res.HTML, Empty: res.Empty}
			if err := s.send(ctx, msg); err != nil {
				cancel()
				return
			}
		}
	}()

	err := s.readLoop(ctx)
	cancel()
	wg.Wait()

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		s.conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
		s.conn.Close(websocket.StatusGoingAway, "server shutting down")
	default:
		s.log.Warn("live session failed", "error", err)
		s.conn.Close(websocket.StatusInternalError, "")
	}
	s.log.Info("live session closed")
}

// readLoop decodes client frames and hands render requests to the worker.
// It returns the error that ended the connection.
func (s *session) readLoop(ctx context.Context) error {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != s.codec.FrameType() {
			s.reply(ctx, 0, fmt.Errorf("%w: %s frame on %s", ErrInvalidMessage, typ, s.codec.Name()))
			continue
		}

		msg, err := s.codec.Decode(data)
		if err != nil {
			s.reply(ctx, 0, err)
			continue
		}
		if msg.Type != TypeRender {
			s.reply(ctx, msg.ID, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, msg.Type))
			continue
		}

		if !s.worker.SubmitRequest(worker.Request{ID: msg.ID, Files: msg.Files}) {
			s.reply(ctx, msg.ID, fmt.Errorf("%w: id %d is not newer than %d", ErrInvalidMessage, msg.ID, s.worker.Latest()))
			continue
		}
		s.log.Debug("render queued", "id", msg.ID, "files", len(msg.Files))
	}
}

func (s *session) reply(ctx context.Context, id uint64, err error) {
	if sendErr := s.send(ctx, &Message{Type: TypeError, ID: id, Error: err.Error()}); sendErr != nil {
		s.log.Debug("error reply not sent", "error", sendErr)
	}
}

func (s *session) send(ctx context.Context, msg *Message) error {
	data, err := s.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.Write(ctx, s.codec.FrameType(), data)
}
