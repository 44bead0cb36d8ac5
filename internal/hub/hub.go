package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/dmaples/ninja-fight-backend/internal/match"
)

type HubMsg interface{ isHubMsg() }

type CreateMatch struct {
	Code  string
	Cfg   match.Config
	Reply chan *match.Match
}

type GetMatch struct {
	Code  string
	Reply chan *match.Match
}

type RemoveMatch struct {
	Code string
}

type ShutdownHub struct{}

func (CreateMatch) isHubMsg() {}
func (GetMatch) isHubMsg()    {}
func (RemoveMatch) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Hub is the registry of running matches, keyed by join code.
type Hub struct {
	inbox   chan HubMsg
	matches map[string]*match.Match
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		matches: make(map[string]*match.Match),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateMatch:
				if mt := h.matches[msg.Code]; mt != nil {
					msg.Reply <- mt
					break
				}
				cfg := msg.Cfg
				cfg.Code = msg.Code
				if cfg.OnEnd == nil {
					cfg.OnEnd = func(code string) {
						h.inbox <- RemoveMatch{Code: code}
					}
				}
				mt := match.NewMatch(h.ctx, cfg)
				h.matches[msg.Code] = mt
				h.logger.Info("match created",
					zap.String("code", msg.Code),
					zap.String("mode", cfg.Mode.Name()),
					zap.String("preset", cfg.Settings.Preset))
				msg.Reply <- mt

			case GetMatch:
				msg.Reply <- h.matches[msg.Code] // may be nil

			case RemoveMatch:
				if mt := h.matches[msg.Code]; mt != nil {
					delete(h.matches, msg.Code)
					mt.Inbox() <- match.Shutdown{}
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, mt := range h.matches {
		mt.Inbox() <- match.Shutdown{}
	}
	clear(h.matches)
	h.cancel()
}
