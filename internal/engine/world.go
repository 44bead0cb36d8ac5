package engine

import (
	"math/rand"
	"time"

	"github.com/dmaples/ninja-fight-backend/internal/sched"
)

type PowerupKind string

const (
	PowerupPunch  PowerupKind = "punch"
	PowerupShield PowerupKind = "shield"
	PowerupCure   PowerupKind = "cure"
)

var powerupCycle = []PowerupKind{PowerupPunch, PowerupShield, PowerupCure}

// Standard drop cadence and positions for the courtyard-sized arenas.
var (
	powerupFirstDrop    = 3 * time.Second
	powerupDropInterval = 8 * time.Second
	powerupDropSpots    = []Vec3{
		{X: 2, Y: 3, Z: 0},
		{X: -2, Y: 3, Z: 0},
		{X: 0, Y: 3, Z: -3},
		{X: 4, Y: 3, Z: -4},
		{X: -4, Y: 3, Z: -4},
	}
)

type Powerup struct {
	ID   int
	Kind PowerupKind
	Pos  Vec3
}

// World owns the simulated side of a match: teams, player actors, the
// bot set, and powerup drops. It delivers death and pickup messages to
// the running activity through the deliver callback. All calls happen
// on the match loop.
type World struct {
	clock   sched.Clock
	rng     *rand.Rand
	deliver func(Message)

	teams    []*Team
	bots     *BotSet
	powerups []*Powerup

	nextPowerupID int
	dropCursor    int
	dropHandle    *sched.Handle

	watch *Stopwatch
}

// AttachStopwatch registers the on-screen match timer so its reading
// can be surfaced in snapshots.
func (w *World) AttachStopwatch(sw *Stopwatch) { w.watch = sw }

// Stopwatch is nil until an activity attaches one.
func (w *World) Stopwatch() *Stopwatch { return w.watch }

func NewWorld(clock sched.Clock, rng *rand.Rand, deliver func(Message)) *World {
	w := &World{clock: clock, rng: rng, deliver: deliver}
	w.bots = NewBotSet(clock, deliver)
	return w
}

func (w *World) Bots() *BotSet  { return w.bots }
func (w *World) Teams() []*Team { return w.teams }

func (w *World) Powerups() []*Powerup { return w.powerups }

func (w *World) AddTeam(name string) *Team {
	t := &Team{ID: len(w.teams), Name: name}
	w.teams = append(w.teams, t)
	return t
}

func (w *World) AddPlayer(t *Team, id, name string) *Player {
	p := &Player{ID: id, Name: name, Team: t}
	t.Players = append(t.Players, p)
	return p
}

func (w *World) Players() []*Player {
	var out []*Player
	for _, t := range w.teams {
		out = append(out, t.Players...)
	}
	return out
}

func (w *World) FindPlayer(id string) *Player {
	for _, p := range w.Players() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// SpawnPlayerActor places a fresh actor for p and makes it the
// player's current body.
func (w *World) SpawnPlayerActor(p *Player, pos Vec3) *PlayerActor {
	a := &PlayerActor{Player: p, Pos: pos, HP: playerMaxHP, alive: true}
	p.Actor = a
	return a
}

// StrikePlayer applies damage to a player actor. A shield halves the
// hit. On a kill the actor is marked dead and PlayerDeathMsg goes to
// the activity, which decides about respawning.
func (w *World) StrikePlayer(a *PlayerActor, dmg int) {
	if a == nil || !a.alive {
		return
	}
	if a.Shielded {
		dmg /= 2
	}
	a.HP -= dmg
	if a.HP > 0 {
		return
	}
	a.HP = 0
	a.alive = false
	w.deliver(PlayerDeathMsg{Actor: a})
}

// StrikeBot applies a hit from attacker to a bot. A punch boost doubles
// the damage. Death dispatch ordering is BotSet.Strike's business.
func (w *World) StrikeBot(attacker *PlayerActor, b *Bot, dmg int) {
	if attacker == nil || !attacker.alive {
		return
	}
	if attacker.PunchBoosted {
		dmg *= 2
	}
	w.bots.Strike(b, dmg)
}

// EnablePowerupDrops starts the standard drop schedule on q. Calling
// it twice is a no-op.
func (w *World) EnablePowerupDrops(q *sched.Queue) {
	if w.dropHandle != nil {
		return
	}
	q.After(powerupFirstDrop, w.dropPowerup)
	w.dropHandle = q.Every(powerupDropInterval, w.dropPowerup)
}

func (w *World) StopPowerupDrops() {
	if w.dropHandle != nil {
		w.dropHandle.Stop()
	}
}

func (w *World) dropPowerup() {
	w.nextPowerupID++
	kind := powerupCycle[w.dropCursor%len(powerupCycle)]
	pos := powerupDropSpots[w.rng.Intn(len(powerupDropSpots))]
	w.dropCursor++
	w.powerups = append(w.powerups, &Powerup{ID: w.nextPowerupID, Kind: kind, Pos: pos})
}

func (w *World) FindPowerup(id int) *Powerup {
	for _, pu := range w.powerups {
		if pu.ID == id {
			return pu
		}
	}
	return nil
}

// PickUpPowerup applies a drop to the collecting actor and removes it
// from the floor.
func (w *World) PickUpPowerup(a *PlayerActor, pu *Powerup) {
	if a == nil || !a.alive || pu == nil {
		return
	}
	for i, got := range w.powerups {
		if got == pu {
			w.powerups = append(w.powerups[:i], w.powerups[i+1:]...)
			switch pu.Kind {
			case PowerupPunch:
				a.PunchBoosted = true
			case PowerupShield:
				a.Shielded = true
			case PowerupCure:
				a.HP = playerMaxHP
			}
			w.deliver(PowerupPickedUpMsg{Actor: a, Powerup: pu})
			return
		}
	}
}

// DefaultHandleMessage is the base behavior for messages an activity
// does not treat specially.
func (w *World) DefaultHandleMessage(msg Message) {
	switch m := msg.(type) {
	case PlayerDeathMsg:
		// The dead body is no longer the player's current actor.
		if m.Actor.Player != nil && m.Actor.Player.Actor == m.Actor {
			m.Actor.Player.Actor = nil
		}
	}
}
