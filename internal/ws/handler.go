package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmaples/ninja-fight-backend/internal/hub"
	"github.com/dmaples/ninja-fight-backend/internal/match"
	"github.com/dmaples/ninja-fight-backend/internal/types"
)

// Handler attaches a websocket client to a match by code. The writer
// goroutine streams snapshots, cues, and the final result; the reader
// loop forwards client commands into the match inbox.
func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *match.Match, 1)
		h.Inbox() <- hub.GetMatch{Code: code, Reply: reply}
		mt := <-reply
		if mt == nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.ServerMessage, 8)
		clientID := uuid.NewString()
		logger.Debug("ws client joined", zap.String("match", code), zap.String("client", clientID))

		mt.Inbox() <- match.Join{ClientID: clientID, Outbox: out}
		defer func() { mt.Inbox() <- match.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise just exit (match.Leave in defer).
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}
			if !knownClientType(cm.Type) {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			mt.Inbox() <- match.FromClient{Msg: cm}
		}
	}
}

func knownClientType(t string) bool {
	switch t {
	case "StrikeBot", "StrikePlayer", "PickUp", "Forfeit":
		return true
	default:
		return false
	}
}
