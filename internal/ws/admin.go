package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/admin"
	"github.com/mendeleev-duel/server/internal/game"
	"github.com/mendeleev-duel/server/internal/loop"
	"github.com/mendeleev-duel/server/internal/protocol"
)

// AdminHandler streams the observer feed: a full snapshot on connect,
// then every lifecycle event. The admin side sends nothing; its reads
// only detect the close.
func AdminHandler(l *loop.Loop, feed *admin.Feed, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		events, unsubscribe := feed.Subscribe()
		defer unsubscribe()

		snap := make(chan protocol.AdminMessage, 1)
		if !l.Post(func(reg *game.Registry) { snap <- admin.Snapshot(reg) }) {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go func() {
			defer cancel()
			for {
				if _, _, err := conn.Read(ctx); err != nil {
					return
				}
			}
		}()

		write := func(msg protocol.AdminMessage) bool {
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Error("marshal admin message", zap.Error(err))
				return true
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			defer cancel()
			return conn.Write(wctx, websocket.MessageText, payload) == nil
		}

		select {
		case msg := <-snap:
			if !write(msg) {
				return
			}
		case <-ctx.Done():
			return
		}

		for {
			select {
			case msg, ok := <-events:
				if !ok || !write(msg) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}
}
