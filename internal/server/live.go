package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/venkatesh3007/flexui/internal/live"
	"github.com/venkatesh3007/flexui/internal/render"
	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/store"
	"github.com/venkatesh3007/flexui/internal/value"
)

// clientMessage is what a live-preview client sends: either new runtime
// data ("data") or an explicit re-plan request ("plan").
type clientMessage struct {
	Type string      `json:"type"`
	Data value.Value `json:"data,omitempty"`
}

// serverMessage is what the live channel pushes to clients.
type serverMessage struct {
	Type     string             `json:"type"`
	ScreenID string             `json:"screenId,omitempty"`
	Entry    *render.Entry      `json:"entry,omitempty"`
	Issues   []render.NodeIssue `json:"issues,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// liveSession is one websocket connection previewing one screen. The bus
// consumer goroutine and the read loop both write to the socket, so sends
// are serialized through mu.
type liveSession struct {
	server   *Server
	conn     *websocket.Conn
	screenID string

	mu   sync.Mutex
	data *value.Map
}

// liveScreen upgrades to websocket and streams re-planned screens: once on
// connect, on every client data message, and on every stored-config write.
func (s *Server) liveScreen(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "screenID")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("server: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	sess := &liveSession{
		server:   s,
		conn:     conn,
		screenID: screenID,
		data:     value.NewMap(),
	}

	ctx := r.Context()

	if s.bus != nil {
		subID := uuid.NewString()
		s.bus.Subscribe(subID, live.SubscriberFunc(func(ctx context.Context, upd live.ScreenUpdate) error {
			if upd.ScreenID != screenID {
				return nil
			}
			sess.push(ctx)
			return nil
		}))
		defer s.bus.Unsubscribe(subID)
	}

	sess.push(ctx)

	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return
			}
			log.Printf("server: live read for %s: %v", screenID, err)
			return
		}

		switch msg.Type {
		case "data":
			sess.setData(msg.Data)
			sess.push(ctx)
		case "plan":
			sess.push(ctx)
		default:
			sess.send(ctx, serverMessage{Type: "error", ScreenID: screenID, Error: "unknown message type " + msg.Type})
		}
	}
}

func (s *liveSession) setData(v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := v.AsMap(); ok {
		s.data = m
	} else {
		s.data = value.NewMap()
	}
}

// push loads the current config, plans it against the session's data, and
// sends the result.
func (s *liveSession) push(ctx context.Context) {
	raw, err := s.server.store.Get(ctx, s.screenID)
	if errors.Is(err, store.ErrNotFound) {
		s.send(ctx, serverMessage{Type: "error", ScreenID: s.screenID, Error: "no config stored for " + s.screenID})
		return
	}
	if err != nil {
		s.send(ctx, serverMessage{Type: "error", ScreenID: s.screenID, Error: err.Error()})
		return
	}

	cfg, err := schema.ParseConfig(raw)
	if err != nil {
		s.send(ctx, serverMessage{Type: "error", ScreenID: s.screenID, Error: err.Error()})
		return
	}

	s.mu.Lock()
	data := s.data
	s.mu.Unlock()

	entry, issues := s.server.planner.PlanScreen(cfg, data)
	s.send(ctx, serverMessage{Type: "plan", ScreenID: s.screenID, Entry: entry, Issues: issues})
}

func (s *liveSession) send(ctx context.Context, msg serverMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := wsjson.Write(ctx, s.conn, msg); err != nil && ctx.Err() == nil {
		log.Printf("server: live write for %s: %v", s.screenID, err)
	}
}
