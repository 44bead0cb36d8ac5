// Package ninjafight implements the Ninja Fight co-op mini-game: defeat
// a squad of scripted ninja bots as fast as possible, score is elapsed
// milliseconds, lower is better.
package ninjafight

import (
	"math/rand"
	"time"

	"github.com/dmaples/ninja-fight-backend/internal/engine"
)

const (
	ModeName  = "Ninja Fight"
	PresetPro = "pro"

	MapCourtyard = "courtyard"

	winSound  = "score"
	gameMusic = "toTheDeath"

	botWarmup     = 3 * time.Second
	stopwatchLead = 4 * time.Second // start roughly when the bots appear
)

var spawnCenter = engine.Vec3{X: 0, Y: 3, Z: -2}

// Mode is the static descriptor plus activity factory.
type Mode struct{}

func (Mode) Name() string        { return ModeName }
func (Mode) Description() string { return "How fast can you defeat the ninjas?" }

func (Mode) Score() engine.ScoreInfo {
	return engine.ScoreInfo{ScoreType: "milliseconds", ScoreName: "Time", LowerIsBetter: true}
}

// Spawn positions are hard-coded, so only the courtyard works for now.
func (Mode) SupportedMaps(kind engine.SessionKind) []string {
	return []string{MapCourtyard}
}

func (Mode) SupportsSession(kind engine.SessionKind) bool {
	return kind == engine.SessionCoop
}

func (Mode) New(host engine.Host, settings engine.Settings, rng *rand.Rand) engine.Activity {
	return &Game{
		host:  host,
		rng:   rng,
		isPro: settings.Preset == PresetPro,
	}
}

type botSpawn struct {
	delay time.Duration
	pos   engine.Vec3
}

// spawnSchedule is the fixed bot drop plan: four chargers at 1..4s,
// a fifth and sixth for bigger groups or the pro preset.
func spawnSchedule(playerCount int, pro bool) []botSpawn {
	spawns := []botSpawn{
		{delay: 1 * time.Second, pos: engine.Vec3{X: 3, Y: 3, Z: -2}},
		{delay: 2 * time.Second, pos: engine.Vec3{X: -3, Y: 3, Z: -2}},
		{delay: 3 * time.Second, pos: engine.Vec3{X: 5, Y: 3, Z: -2}},
		{delay: 4 * time.Second, pos: engine.Vec3{X: -5, Y: 3, Z: -2}},
	}
	if playerCount > 2 || pro {
		spawns = append(spawns, botSpawn{delay: 5 * time.Second, pos: engine.Vec3{X: 0, Y: 3, Z: -5}})
	}
	if playerCount > 3 || pro {
		spawns = append(spawns, botSpawn{delay: 6 * time.Second, pos: engine.Vec3{X: 0, Y: 3, Z: 1}})
	}
	return spawns
}

// Game is one running Ninja Fight match.
type Game struct {
	host  engine.Host
	rng   *rand.Rand
	isPro bool

	won   bool
	ended bool

	watch         *engine.Stopwatch
	spawnsPlanned int
}

func (g *Game) OnTransitionIn() {
	g.host.SetMusic(gameMusic)
}

func (g *Game) OnBegin() {
	// In pro mode there's no powerups.
	if !g.isPro {
		g.host.EnablePowerupDrops()
	}

	playerCount := len(g.host.World().Players())
	if playerCount == 0 {
		panic("ninjafight: begun with no players")
	}

	// Start the match stopwatch roughly when the bots appear.
	g.watch = engine.NewStopwatch(g.host.Clock())
	g.host.World().AttachStopwatch(g.watch)
	g.host.After(stopwatchLead, g.watch.Start)

	spawns := spawnSchedule(playerCount, g.isPro)
	g.spawnsPlanned = len(spawns)
	for _, s := range spawns {
		g.host.After(s.delay, func() {
			g.host.World().Bots().SpawnBot(engine.BotCharger, s.pos, botWarmup)
		})
	}
}

// SpawnPlayer places the player close to the center, with a bit of
// jitter so a squad doesn't stack on one spot.
func (g *Game) SpawnPlayer(p *engine.Player) *engine.PlayerActor {
	pos := engine.Vec3{
		X: spawnCenter.X + g.uniform(-1.5, 1.5),
		Y: spawnCenter.Y,
		Z: spawnCenter.Z + g.uniform(-1.5, 1.5),
	}
	return g.host.World().SpawnPlayerActor(p, pos)
}

func (g *Game) HandleMessage(msg engine.Message) {
	switch m := msg.(type) {
	case engine.PlayerDeathMsg:
		g.host.DefaultHandleMessage(msg)
		g.host.RespawnPlayer(m.Actor.Player)

	case engine.BotDeathMsg:
		// The bot set still counts the dying bot as living at this
		// point, so check again once it has finished dying.
		g.host.Push(g.checkIfWon)

	default:
		g.host.DefaultHandleMessage(msg)
	}
}

func (g *Game) checkIfWon() {
	if g.ended {
		return
	}
	bots := g.host.World().Bots()
	// Killing a batch before the next one drops must not count as a
	// win, so wait until every planned spawn has been issued.
	if bots.SpawnedCount() < g.spawnsPlanned {
		return
	}
	if bots.HaveLivingBots() {
		return
	}
	g.won = true
	g.EndGame()
}

// EndGame fills out results and finalizes the activity regardless of
// whether the match was won; external termination (forfeit, deadline)
// lands here too.
func (g *Game) EndGame() {
	if g.ended {
		return
	}
	g.ended = true

	if g.watch == nil {
		panic("ninjafight: EndGame before OnBegin")
	}
	// Stop the clock so players can see what they got.
	g.watch.Stop()

	results := engine.NewGameResults()

	// On a win every team (just one in co-op) gets the elapsed time;
	// otherwise scores stay unset, which reads as a loss.
	if g.won {
		elapsed := g.host.Clock().Now().UnixMilli() - g.watch.StartTimeMillis()
		g.host.CameraFlash()
		g.host.PlaySound(winSound)
		for _, t := range g.host.World().Teams() {
			for _, p := range t.Players {
				if p.Actor != nil {
					p.Actor.HandleMessage(engine.CelebrateMsg{Seconds: 10})
				}
			}
			results.SetTeamScore(t, elapsed)
		}
	}

	g.host.EndActivity(results)
}

func (g *Game) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
