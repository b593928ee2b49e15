package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/game"
	"github.com/mendeleev-duel/server/internal/loop"
	"github.com/mendeleev-duel/server/internal/protocol"
)

const (
	writeTimeout  = 3 * time.Second
	outboxSize    = 16
	registerGrace = 30 * time.Second
)

// session adapts one websocket connection to the game.Session the
// registry speaks. Writes go through a buffered outbox drained by a
// dedicated goroutine; a slow consumer gets dropped, not waited on.
type session struct {
	conn   *websocket.Conn
	out    chan any
	cancel context.CancelFunc
	log    *zap.Logger
}

func newSession(ctx context.Context, conn *websocket.Conn, log *zap.Logger) *session {
	writeCtx, cancel := context.WithCancel(ctx)
	s := &session{
		conn:   conn,
		out:    make(chan any, outboxSize),
		cancel: cancel,
		log:    log,
	}
	go s.writer(writeCtx)
	return s
}

func (s *session) Send(msg any) {
	select {
	case s.out <- msg:
	default:
		s.log.Warn("outbox full, dropping connection")
		s.Close()
	}
}

func (s *session) Close() {
	s.cancel()
	_ = s.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (s *session) writer(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.out:
			payload, err := json.Marshal(msg)
			if err != nil {
				s.log.Error("marshal outbound message", zap.Error(err))
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = s.conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Handler upgrades a player connection. The first frame must be a
// register message claiming a name; every later frame is forwarded to
// the event loop under the bound client.
func Handler(l *loop.Loop, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		s := newSession(r.Context(), conn, log)
		defer s.cancel()

		client, ok := register(r.Context(), conn, s, l, log)
		if !ok {
			return
		}
		defer l.Send(loop.Disconnect{Client: client})

		readLoop(r.Context(), conn, s, client, l, log)
	}
}

// register performs the name-claim handshake on a fresh connection.
func register(ctx context.Context, conn *websocket.Conn, s *session, l *loop.Loop, log *zap.Logger) (*game.Client, bool) {
	rctx, cancel := context.WithTimeout(ctx, registerGrace)
	_, data, err := conn.Read(rctx)
	cancel()
	if err != nil {
		return nil, false
	}

	var cm protocol.ClientMessage
	if err := json.Unmarshal(data, &cm); err != nil || !cm.Classify() || cm.Kind != protocol.KindRegister {
		payload, _ := json.Marshal(protocol.ErrorMessage{Type: protocol.TypeError, Error: "register expected"})
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		_ = conn.Write(wctx, websocket.MessageText, payload)
		return nil, false
	}

	reply := make(chan loop.RegisterResult, 1)
	if !l.Send(loop.Register{Name: cm.Name, Session: s, Reply: reply}) {
		return nil, false
	}
	var res loop.RegisterResult
	select {
	case res = <-reply:
	case <-l.Done():
		return nil, false
	}
	if res.Err != nil {
		log.Info("registration refused",
			zap.String("name", cm.Name), zap.Error(res.Err))
		// Written directly so the refusal lands before the close frame.
		payload, _ := json.Marshal(protocol.AckMessage{Type: protocol.TypeRegisterResult})
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		_ = conn.Write(wctx, websocket.MessageText, payload)
		return nil, false
	}
	return res.Client, true
}

func readLoop(ctx context.Context, conn *websocket.Conn, s *session, client *game.Client, l *loop.Loop, log *zap.Logger) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				log.Debug("read failed", zap.Error(err))
			}
			return
		}

		var cm protocol.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			s.Send(protocol.ErrorMessage{Type: protocol.TypeError, Error: "bad json"})
			continue
		}
		if !cm.Classify() {
			s.Send(protocol.ErrorMessage{Type: protocol.TypeError, Error: "unknown type"})
			continue
		}

		if !l.Send(loop.FromClient{Client: client, Msg: cm}) {
			return
		}
	}
}
