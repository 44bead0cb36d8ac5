package ninjafight

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/dmaples/ninja-fight-backend/internal/engine"
	"github.com/dmaples/ninja-fight-backend/internal/sched"
)

// fakeHost wires a Game to a real world and scheduler queue driven by a
// manual clock, and records every cue the game asks for.
type fakeHost struct {
	clock    *sched.ManualClock
	queue    *sched.Queue
	world    *engine.World
	activity engine.Activity

	music           []string
	sounds          []string
	flashes         int
	powerupsEnabled bool
	respawns        []*engine.Player

	endCalls int
	results  *engine.GameResults
}

func (h *fakeHost) After(d time.Duration, fn func()) *sched.Handle { return h.queue.After(d, fn) }
func (h *fakeHost) Push(fn func())                                 { h.queue.Push(fn) }
func (h *fakeHost) Clock() sched.Clock                             { return h.clock }
func (h *fakeHost) World() *engine.World                           { return h.world }
func (h *fakeHost) SetMusic(name string)                           { h.music = append(h.music, name) }
func (h *fakeHost) PlaySound(name string)                          { h.sounds = append(h.sounds, name) }
func (h *fakeHost) CameraFlash()                                   { h.flashes++ }
func (h *fakeHost) EnablePowerupDrops()                            { h.powerupsEnabled = true }
func (h *fakeHost) RespawnPlayer(p *engine.Player)                 { h.respawns = append(h.respawns, p) }
func (h *fakeHost) DefaultHandleMessage(msg engine.Message)        { h.world.DefaultHandleMessage(msg) }

func (h *fakeHost) EndActivity(results *engine.GameResults) {
	h.endCalls++
	h.results = results
}

// run steps the clock and ticks the queue, like the match loop does.
func (h *fakeHost) run(d, step time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		h.clock.Advance(step)
		h.queue.Tick()
	}
}

func newTestGame(t *testing.T, playerCount int, preset string) (*Game, *fakeHost) {
	t.Helper()
	h := &fakeHost{clock: sched.NewManualClock(time.Unix(0, 0))}
	h.queue = sched.NewQueue(h.clock)
	h.world = engine.NewWorld(h.clock, rand.New(rand.NewSource(7)), func(msg engine.Message) {
		h.activity.HandleMessage(msg)
	})

	team := h.world.AddTeam("Good Guys")
	for i := 0; i < playerCount; i++ {
		h.world.AddPlayer(team, fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
	}

	g := Mode{}.New(h, engine.Settings{
		Preset:  preset,
		Map:     MapCourtyard,
		Session: engine.SessionCoop,
	}, rand.New(rand.NewSource(7))).(*Game)
	h.activity = g
	return g, h
}

func TestModeMetadata(t *testing.T) {
	m := Mode{}
	if m.Name() != "Ninja Fight" {
		t.Fatalf("name: %q", m.Name())
	}
	score := m.Score()
	if score.ScoreType != "milliseconds" || !score.LowerIsBetter || score.ScoreName != "Time" {
		t.Fatalf("score info: %+v", score)
	}
	maps := m.SupportedMaps(engine.SessionCoop)
	if len(maps) != 1 || maps[0] != MapCourtyard {
		t.Fatalf("maps: %v", maps)
	}
	if !m.SupportsSession(engine.SessionCoop) {
		t.Fatalf("co-op should be supported")
	}
	if m.SupportsSession(engine.SessionTeams) || m.SupportsSession(engine.SessionFFA) {
		t.Fatalf("only co-op should be supported")
	}
}

func TestSpawnSchedule(t *testing.T) {
	base := []engine.Vec3{
		{X: 3, Y: 3, Z: -2},
		{X: -3, Y: 3, Z: -2},
		{X: 5, Y: 3, Z: -2},
		{X: -5, Y: 3, Z: -2},
	}
	fifth := engine.Vec3{X: 0, Y: 3, Z: -5}
	sixth := engine.Vec3{X: 0, Y: 3, Z: 1}

	cases := []struct {
		name    string
		players int
		pro     bool
		want    int
	}{
		{"solo", 1, false, 4},
		{"duo", 2, false, 4},
		{"trio gets a fifth", 3, false, 5},
		{"four players get a sixth", 4, false, 6},
		{"pro always gets six", 1, true, 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spawns := spawnSchedule(tc.players, tc.pro)
			if len(spawns) != tc.want {
				t.Fatalf("want %d spawns, got %d", tc.want, len(spawns))
			}
			for i, s := range spawns {
				wantDelay := time.Duration(i+1) * time.Second
				if s.delay != wantDelay {
					t.Fatalf("spawn %d: want delay %v, got %v", i, wantDelay, s.delay)
				}
			}
			for i := 0; i < 4; i++ {
				if spawns[i].pos != base[i] {
					t.Fatalf("spawn %d: want pos %+v, got %+v", i, base[i], spawns[i].pos)
				}
			}
			if tc.want >= 5 && spawns[4].pos != fifth {
				t.Fatalf("fifth spawn: got %+v", spawns[4].pos)
			}
			if tc.want >= 6 && spawns[5].pos != sixth {
				t.Fatalf("sixth spawn: got %+v", spawns[5].pos)
			}
		})
	}
}

func TestOnBegin_SchedulesBotsAndStopwatch(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	g.OnBegin()

	if !h.powerupsEnabled {
		t.Fatalf("non-pro games should have powerup drops")
	}

	h.run(1*time.Second, time.Second)
	if got := h.world.Bots().SpawnedCount(); got != 1 {
		t.Fatalf("after 1s want 1 bot, got %d", got)
	}

	h.run(2*time.Second, time.Second)
	if h.world.Stopwatch().Started() {
		t.Fatalf("stopwatch should not start before 4s")
	}

	h.run(1*time.Second, time.Second)
	if got := h.world.Bots().SpawnedCount(); got != 4 {
		t.Fatalf("after 4s want 4 bots, got %d", got)
	}
	if !h.world.Stopwatch().Started() {
		t.Fatalf("stopwatch should start at 4s")
	}

	// Solo non-pro stays at four bots.
	h.run(5*time.Second, time.Second)
	if got := h.world.Bots().SpawnedCount(); got != 4 {
		t.Fatalf("no extra spawns expected, got %d", got)
	}
}

func TestOnBegin_ProPresetSixBotsNoPowerups(t *testing.T) {
	g, h := newTestGame(t, 1, PresetPro)
	g.OnBegin()

	if h.powerupsEnabled {
		t.Fatalf("pro mode must not enable powerups")
	}

	h.run(6*time.Second, time.Second)
	if got := h.world.Bots().SpawnedCount(); got != 6 {
		t.Fatalf("pro solo should still get 6 bots, got %d", got)
	}
}

func TestOnTransitionIn_SetsMusic(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	g.OnTransitionIn()
	if len(h.music) != 1 || h.music[0] != gameMusic {
		t.Fatalf("music cues: %v", h.music)
	}
}

func TestSpawnPlayer_JitterStaysNearCenter(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	p := h.world.Players()[0]

	var positions []engine.Vec3
	for i := 0; i < 50; i++ {
		a := g.SpawnPlayer(p)
		positions = append(positions, a.Pos)
	}

	varied := false
	for _, pos := range positions {
		if pos.Y != spawnCenter.Y {
			t.Fatalf("y should stay at %v, got %v", spawnCenter.Y, pos.Y)
		}
		if pos.X < spawnCenter.X-1.5 || pos.X > spawnCenter.X+1.5 {
			t.Fatalf("x out of jitter range: %v", pos.X)
		}
		if pos.Z < spawnCenter.Z-1.5 || pos.Z > spawnCenter.Z+1.5 {
			t.Fatalf("z out of jitter range: %v", pos.Z)
		}
		if pos != positions[0] {
			varied = true
		}
	}
	if !varied {
		t.Fatalf("jitter produced identical positions")
	}
}

func TestPlayerDeathRequestsRespawn(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	g.OnBegin()
	p := h.world.Players()[0]
	a := g.SpawnPlayer(p)

	h.world.StrikePlayer(a, 1000)

	if len(h.respawns) != 1 || h.respawns[0] != p {
		t.Fatalf("want one respawn request for the player, got %v", h.respawns)
	}
	if p.Actor != nil {
		t.Fatalf("default handling should have detached the dead body")
	}
}

func killReadyBots(t *testing.T, h *fakeHost) {
	t.Helper()
	for _, b := range h.world.Bots().Bots() {
		if b.Alive() {
			h.world.Bots().Strike(b, 10000)
		}
	}
}

func TestWin_ScoreIsElapsedMilliseconds(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	g.OnBegin()

	// All four bots are spawned and done warming up by 7s. Stopwatch
	// runs from 4s; finish the fight at 49s for a 45000ms score.
	h.run(49*time.Second, time.Second)
	killReadyBots(t, h)

	if g.ended {
		t.Fatalf("win check must be deferred, not run during the death dispatch")
	}

	// Next tick runs the deferred checks.
	h.queue.Tick()

	if !g.won || !g.ended {
		t.Fatalf("want won+ended, got won=%v ended=%v", g.won, g.ended)
	}
	if h.endCalls != 1 {
		t.Fatalf("EndActivity calls: %d", h.endCalls)
	}
	if h.flashes != 1 || len(h.sounds) != 1 || h.sounds[0] != winSound {
		t.Fatalf("expected camera flash and win sound, got flashes=%d sounds=%v", h.flashes, h.sounds)
	}

	team := h.world.Teams()[0]
	score, ok := h.results.TeamScore(team)
	if !ok {
		t.Fatalf("winning team should have a score")
	}
	// Kill at 49s, stopwatch started at 4s.
	if score != 45000 {
		t.Fatalf("want 45000ms, got %d", score)
	}
}

func TestWin_LivingPlayersCelebrate(t *testing.T) {
	g, h := newTestGame(t, 2, "")
	g.OnBegin()
	for _, p := range h.world.Players() {
		g.SpawnPlayer(p)
	}

	h.run(10*time.Second, time.Second)
	killReadyBots(t, h)
	h.queue.Tick()

	if !g.won {
		t.Fatalf("expected a win")
	}
	for _, p := range h.world.Players() {
		if p.Actor == nil || !p.Actor.Celebrating {
			t.Fatalf("living players should celebrate")
		}
	}
}

func TestBotDeathWithOthersAliveIsNoWin(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	g.OnBegin()

	h.run(10*time.Second, time.Second)
	bots := h.world.Bots().Bots()
	h.world.Bots().Strike(bots[0], 10000)
	h.queue.Tick()

	if g.won || g.ended || h.endCalls != 0 {
		t.Fatalf("one dead bot must not end the match")
	}
}

func TestWinCheckWaitsForAllPlannedSpawns(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	g.OnBegin()

	h.run(10*time.Second, time.Second)

	// Pretend a fifth spawn is still queued: clearing the current batch
	// must not count as a win yet.
	g.spawnsPlanned = 5
	killReadyBots(t, h)
	h.queue.Tick()
	if g.won || g.ended {
		t.Fatalf("won before every planned spawn was issued")
	}

	// The straggler drops with no warm-up and dies: now it's a win.
	h.world.Bots().SpawnBot(engine.BotCharger, engine.Vec3{X: 0, Y: 3, Z: -5}, 0)
	killReadyBots(t, h)
	h.queue.Tick()
	if !g.won || !g.ended {
		t.Fatalf("expected a win once the straggler died")
	}
}

func TestEndGameWithoutWinLeavesScoresUnset(t *testing.T) {
	g, h := newTestGame(t, 1, "")
	g.OnBegin()
	h.run(10*time.Second, time.Second)

	// External termination: tournament timeout, forfeit.
	g.EndGame()

	if h.endCalls != 1 {
		t.Fatalf("EndActivity calls: %d", h.endCalls)
	}
	if h.flashes != 0 || len(h.sounds) != 0 {
		t.Fatalf("loss should not celebrate")
	}
	if _, ok := h.results.TeamScore(h.world.Teams()[0]); ok {
		t.Fatalf("losing team should have no score")
	}

	// A second call must not finalize twice.
	g.EndGame()
	if h.endCalls != 1 {
		t.Fatalf("EndGame ran twice")
	}
}

func TestOnBeginPanicsWithNoPlayers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	g, _ := newTestGame(t, 0, "")
	g.OnBegin()
}
