package hub

import (
	"context"
	"testing"
	"time"

	"github.com/dmaples/ninja-fight-backend/internal/engine"
	"github.com/dmaples/ninja-fight-backend/internal/match"
	"github.com/dmaples/ninja-fight-backend/internal/ninjafight"
)

func testCfg() match.Config {
	return match.Config{
		Mode:        ninjafight.Mode{},
		Settings:    engine.Settings{Map: ninjafight.MapCourtyard, Session: engine.SessionCoop},
		PlayerNames: []string{"Sam"},
		TickEvery:   5 * time.Millisecond,
	}
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := NewHub(context.Background(), nil)
	reply := make(chan *match.Match, 1)

	h.Inbox() <- CreateMatch{Code: "NINJA1", Cfg: testCfg(), Reply: reply}
	m1 := <-reply

	h.Inbox() <- GetMatch{Code: "NINJA1", Reply: reply}
	m2 := <-reply

	if m1 == nil || m2 == nil || m1 != m2 {
		t.Fatalf("expected same match pointer")
	}
}

func TestHub_CreateExistingCodeReturnsExisting(t *testing.T) {
	h := NewHub(context.Background(), nil)
	reply := make(chan *match.Match, 1)

	h.Inbox() <- CreateMatch{Code: "NINJA2", Cfg: testCfg(), Reply: reply}
	m1 := <-reply
	h.Inbox() <- CreateMatch{Code: "NINJA2", Cfg: testCfg(), Reply: reply}
	m2 := <-reply

	if m1 != m2 {
		t.Fatalf("second create should return the existing match")
	}
}

func TestHub_RemoveForgetsCode(t *testing.T) {
	h := NewHub(context.Background(), nil)
	reply := make(chan *match.Match, 1)

	h.Inbox() <- CreateMatch{Code: "NINJA3", Cfg: testCfg(), Reply: reply}
	if <-reply == nil {
		t.Fatalf("create failed")
	}

	h.Inbox() <- RemoveMatch{Code: "NINJA3"}
	h.Inbox() <- GetMatch{Code: "NINJA3", Reply: reply}
	if <-reply != nil {
		t.Fatalf("removed code should not resolve")
	}
}

func TestHub_EndedMatchRemovesItself(t *testing.T) {
	h := NewHub(context.Background(), nil)
	reply := make(chan *match.Match, 1)

	h.Inbox() <- CreateMatch{Code: "NINJA4", Cfg: testCfg(), Reply: reply}
	mt := <-reply

	mt.Inbox() <- match.Forfeit{}

	deadline := time.After(time.Second)
	for {
		h.Inbox() <- GetMatch{Code: "NINJA4", Reply: reply}
		if <-reply == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("ended match never left the hub")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
