package engine

import (
	"time"

	"github.com/dmaples/ninja-fight-backend/internal/sched"
)

type BotKind string

const (
	// BotCharger rushes the nearest player and punches.
	BotCharger BotKind = "charger"
)

func botMaxHP(kind BotKind) int {
	switch kind {
	case BotCharger:
		return 60
	default:
		return 60
	}
}

type Bot struct {
	ID      int
	Kind    BotKind
	Pos     Vec3
	HP      int
	ReadyAt time.Time // warming up (invulnerable) until then
	alive   bool
}

func (b *Bot) Alive() bool { return b.alive }

// BotSet tracks every bot spawned into a match. Death dispatch happens
// before the bot is marked dead: a HaveLivingBots call made from inside
// a BotDeathMsg handler still counts the dying bot, so handlers must
// defer their liveness checks to the next tick.
type BotSet struct {
	clock   sched.Clock
	deliver func(Message)
	bots    []*Bot
	nextID  int
	spawned int
}

func NewBotSet(clock sched.Clock, deliver func(Message)) *BotSet {
	return &BotSet{clock: clock, deliver: deliver}
}

// SpawnBot creates a bot of the given kind at pos. The bot counts as
// living immediately but cannot be hurt until its warm-up elapses.
func (s *BotSet) SpawnBot(kind BotKind, pos Vec3, warmup time.Duration) *Bot {
	s.nextID++
	s.spawned++
	b := &Bot{
		ID:      s.nextID,
		Kind:    kind,
		Pos:     pos,
		HP:      botMaxHP(kind),
		ReadyAt: s.clock.Now().Add(warmup),
		alive:   true,
	}
	s.bots = append(s.bots, b)
	return b
}

func (s *BotSet) HaveLivingBots() bool {
	for _, b := range s.bots {
		if b.alive {
			return true
		}
	}
	return false
}

// SpawnedCount reports how many spawn calls have been issued so far.
func (s *BotSet) SpawnedCount() int { return s.spawned }

func (s *BotSet) Bots() []*Bot { return s.bots }

func (s *BotSet) Get(id int) *Bot {
	for _, b := range s.bots {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Strike applies damage to a bot. Hits during warm-up are absorbed.
// On a kill the death message is delivered first and only then is the
// bot marked dead.
func (s *BotSet) Strike(b *Bot, dmg int) {
	if b == nil || !b.alive || s.clock.Now().Before(b.ReadyAt) {
		return
	}
	b.HP -= dmg
	if b.HP > 0 {
		return
	}
	b.HP = 0
	s.deliver(BotDeathMsg{Bot: b})
	b.alive = false
}
