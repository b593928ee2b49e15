package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/admin"
	"github.com/mendeleev-duel/server/internal/loop"
	"github.com/mendeleev-duel/server/internal/ws"
)

func SetupRoutes(l *loop.Loop, feed *admin.Feed, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz(l))
	r.Get("/ws", ws.Handler(l, log))
	r.Get("/admin/ws", ws.AdminHandler(l, feed, log))
	return r
}

// Healthz answers with the loop's live counters so the probe also
// confirms the event loop is responsive.
func Healthz(l *loop.Loop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan loop.View, 1)
		if !l.Send(loop.GetView{Reply: reply}) {
			http.Error(w, "event loop unavailable", http.StatusServiceUnavailable)
			return
		}

		select {
		case v := <-reply:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(struct {
				Clients int `json:"clients"`
				Games   int `json:"games"`
			}{Clients: v.Clients, Games: v.Games})
		case <-l.Done():
			http.Error(w, "event loop unavailable", http.StatusServiceUnavailable)
		case <-r.Context().Done():
			http.Error(w, "event loop unavailable", http.StatusServiceUnavailable)
		}
	}
}
