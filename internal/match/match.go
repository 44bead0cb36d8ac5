package match

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmaples/ninja-fight-backend/internal/engine"
	"github.com/dmaples/ninja-fight-backend/internal/sched"
	"github.com/dmaples/ninja-fight-backend/internal/types"
)

type Msg interface{ isMatchMsg() }

type Join struct {
	ClientID string
	Outbox   chan types.ServerMessage // where this client wants to receive server messages
}

type Leave struct{ ClientID string }

type FromClient struct {
	Msg types.ClientMessage
}

// Forfeit is the external termination path (DELETE endpoint, tournament
// bookkeeping). The activity still fills out results, as a loss.
type Forfeit struct{}

type Shutdown struct{}

type GetView struct {
	Reply chan View
}

func (Join) isMatchMsg()       {}
func (Leave) isMatchMsg()      {}
func (FromClient) isMatchMsg() {}
func (Forfeit) isMatchMsg()    {}
func (Shutdown) isMatchMsg()   {}
func (GetView) isMatchMsg()    {}

// View is a test-only reflection of match internals, read on the loop
// so there are no data races.
type View struct {
	Phase       string
	Version     int
	NumClients  int
	PlayerIDs   []string
	BotsSpawned int
	BotsAlive   int
	ElapsedMS   int64
	Result      *types.ResultView
}

const (
	PhaseRunning = "running"
	PhaseWon     = "won"
	PhaseLost    = "lost"
	PhaseEnded   = "ended"
)

const (
	defaultTickEvery = 100 * time.Millisecond
	respawnDelay     = 2 * time.Second
	strikeDamage     = 20
)

// Recorder persists final results; the store implements it, tests fake it.
type Recorder interface {
	RecordResult(res Result) error
}

type Result struct {
	Code   string
	Mode   string
	Preset string
	Map    string
	Won    bool
	Teams  []TeamResult
}

type TeamResult struct {
	Team    string
	ScoreMS *int64 // nil = loss
}

type Config struct {
	Code        string
	Mode        engine.GameMode
	Settings    engine.Settings
	PlayerNames []string

	Clock     sched.Clock   // nil = system clock
	TickEvery time.Duration // 0 = default
	Deadline  time.Duration // 0 = no forced end
	Seed      int64         // 0 = time-seeded

	Recorder Recorder
	Logger   *zap.Logger
	OnEnd    func(code string) // called once after finalization
}

// Match owns one running activity: the scheduler queue, the world, and
// the connected spectating/controlling clients. Everything the activity
// does happens on the match loop goroutine.
type Match struct {
	cfg     Config
	clock   sched.Clock
	logger  *zap.Logger
	inbox   chan Msg
	clients map[string]chan types.ServerMessage

	queue    *sched.Queue
	rng      *rand.Rand
	world    *engine.World
	activity engine.Activity

	phase     string
	version   int
	finalized bool
	final     *types.ResultView

	ctx    context.Context
	cancel context.CancelFunc
}

func NewMatch(parent context.Context, cfg Config) *Match {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Clock == nil {
		cfg.Clock = sched.SystemClock{}
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = defaultTickEvery
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := &Match{
		cfg:     cfg,
		clock:   cfg.Clock,
		logger:  cfg.Logger.With(zap.String("match", cfg.Code)),
		inbox:   make(chan Msg, 64),
		clients: make(map[string]chan types.ServerMessage),
		queue:   sched.NewQueue(cfg.Clock),
		rng:     rand.New(rand.NewSource(seed)),
		phase:   PhaseRunning,
		ctx:     ctx,
		cancel:  cancel,
	}
	m.world = engine.NewWorld(cfg.Clock, m.rng, m.dispatch)

	// Co-op: everyone on the one team.
	team := m.world.AddTeam("Good Guys")
	for _, name := range cfg.PlayerNames {
		m.world.AddPlayer(team, uuid.NewString(), name)
	}

	m.activity = cfg.Mode.New(m, cfg.Settings, m.rng)
	m.activity.OnTransitionIn()
	m.activity.OnBegin()
	for _, p := range m.world.Players() {
		m.activity.SpawnPlayer(p)
	}

	if cfg.Deadline > 0 {
		m.queue.After(cfg.Deadline, m.forceEnd)
	}

	go m.loop()
	return m
}

// Inbox is where the ws layer, the hub, and tests talk to the match.
func (m *Match) Inbox() chan<- Msg { return m.inbox }

func (m *Match) Players() []*engine.Player { return m.world.Players() }

func (m *Match) dispatch(msg engine.Message) {
	if m.finalized {
		return
	}
	m.activity.HandleMessage(msg)
}

func (m *Match) loop() {
	ticker := time.NewTicker(m.cfg.TickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			m.shutdown()
			return

		case <-ticker.C:
			if m.finalized {
				break
			}
			m.queue.Tick()
			if !m.finalized {
				m.version++
				m.broadcast(m.snapshotMsg())
			}

		case raw := <-m.inbox:
			switch msg := raw.(type) {
			case Join:
				m.clients[msg.ClientID] = msg.Outbox
				if m.final != nil {
					msg.Outbox <- types.ServerMessage{Type: "MatchEnd", Version: m.version, Result: m.final}
					break
				}
				msg.Outbox <- m.snapshotMsg()

			case Leave:
				delete(m.clients, msg.ClientID)

			case FromClient:
				m.handleClient(msg.Msg)

			case Forfeit:
				m.forceEnd()

			case GetView:
				msg.Reply <- m.view()

			case Shutdown:
				m.shutdown()
				return
			}
		}
	}
}

func (m *Match) handleClient(cm types.ClientMessage) {
	if m.finalized {
		return
	}
	switch cm.Type {
	case "StrikeBot":
		p := m.world.FindPlayer(cm.PlayerID)
		if p == nil || p.Actor == nil {
			return
		}
		m.world.StrikeBot(p.Actor, m.world.Bots().Get(cm.BotID), strikeDamage)

	case "StrikePlayer":
		target := m.world.FindPlayer(cm.TargetPlayerID)
		if target == nil {
			return
		}
		m.world.StrikePlayer(target.Actor, strikeDamage)

	case "PickUp":
		p := m.world.FindPlayer(cm.PlayerID)
		if p == nil {
			return
		}
		m.world.PickUpPowerup(p.Actor, m.world.FindPowerup(cm.PowerupID))

	case "Forfeit":
		m.forceEnd()
	}
}

func (m *Match) forceEnd() {
	if m.finalized {
		return
	}
	m.activity.EndGame()
}

// --- engine.Host ---

func (m *Match) After(d time.Duration, fn func()) *sched.Handle { return m.queue.After(d, fn) }
func (m *Match) Push(fn func())                                 { m.queue.Push(fn) }
func (m *Match) Clock() sched.Clock                             { return m.clock }
func (m *Match) World() *engine.World                           { return m.world }

func (m *Match) SetMusic(name string) {
	m.broadcast(types.ServerMessage{Type: "Cue", Cue: "music", Name: name})
}

func (m *Match) PlaySound(name string) {
	m.broadcast(types.ServerMessage{Type: "Cue", Cue: "sound", Name: name})
}

func (m *Match) CameraFlash() {
	m.broadcast(types.ServerMessage{Type: "Cue", Cue: "cameraFlash"})
}

func (m *Match) EnablePowerupDrops() {
	m.world.EnablePowerupDrops(m.queue)
}

func (m *Match) RespawnPlayer(p *engine.Player) {
	m.queue.After(respawnDelay, func() {
		if m.finalized || p.Actor != nil {
			return
		}
		m.activity.SpawnPlayer(p)
	})
}

func (m *Match) DefaultHandleMessage(msg engine.Message) {
	m.world.DefaultHandleMessage(msg)
}

// EndActivity finalizes the match: phase flips to won or lost, the
// result is persisted and broadcast, and the hub is told to forget the
// code. Safe against double invocation; the first caller wins.
func (m *Match) EndActivity(results *engine.GameResults) {
	if m.finalized {
		return
	}
	m.finalized = true
	m.world.StopPowerupDrops()

	won := false
	var teams []TeamResult
	var scores []types.TeamScoreView
	for _, t := range m.world.Teams() {
		if s, ok := results.TeamScore(t); ok {
			won = true
			v := s
			teams = append(teams, TeamResult{Team: t.Name, ScoreMS: &v})
			scores = append(scores, types.TeamScoreView{Team: t.Name, ScoreMS: &v})
		} else {
			teams = append(teams, TeamResult{Team: t.Name})
			scores = append(scores, types.TeamScoreView{Team: t.Name})
		}
	}

	if won {
		m.phase = PhaseWon
	} else {
		m.phase = PhaseLost
	}
	m.logger.Info("match over", zap.Bool("won", won))

	if m.cfg.Recorder != nil {
		res := Result{
			Code:   m.cfg.Code,
			Mode:   m.cfg.Mode.Name(),
			Preset: m.cfg.Settings.Preset,
			Map:    m.cfg.Settings.Map,
			Won:    won,
			Teams:  teams,
		}
		if err := m.cfg.Recorder.RecordResult(res); err != nil {
			m.logger.Warn("record result failed", zap.Error(err))
		}
	}

	m.version++
	m.final = &types.ResultView{Won: won, Scores: scores}
	m.broadcast(types.ServerMessage{Type: "MatchEnd", Version: m.version, Result: m.final})
	m.phase = PhaseEnded

	if m.cfg.OnEnd != nil {
		// Off-loop: the hub may be mid-send to our inbox.
		go m.cfg.OnEnd(m.cfg.Code)
	}
}

// --- snapshots ---

func (m *Match) snapshotMsg() types.ServerMessage {
	state := &types.StateView{Phase: m.phase}
	if sw := m.world.Stopwatch(); sw != nil {
		state.ElapsedMS = sw.ElapsedMillis()
	}
	for _, p := range m.world.Players() {
		pv := types.PlayerView{ID: p.ID, Name: p.Name}
		if a := p.Actor; a != nil {
			pv.Alive = a.Alive()
			pv.HP = a.HP
			pv.Pos = a.Pos
			pv.Celebrating = a.Celebrating
		}
		state.Players = append(state.Players, pv)
	}
	for _, b := range m.world.Bots().Bots() {
		state.Bots = append(state.Bots, types.BotView{
			ID: b.ID, Kind: string(b.Kind), Alive: b.Alive(), HP: b.HP, Pos: b.Pos,
		})
	}
	for _, pu := range m.world.Powerups() {
		state.Powerups = append(state.Powerups, types.PowerupView{
			ID: pu.ID, Kind: string(pu.Kind), Pos: pu.Pos,
		})
	}
	return types.ServerMessage{Type: "StateSnapshot", Version: m.version, State: state}
}

func (m *Match) view() View {
	v := View{
		Phase:       m.phase,
		Version:     m.version,
		NumClients:  len(m.clients),
		BotsSpawned: m.world.Bots().SpawnedCount(),
		Result:      m.final,
	}
	for _, p := range m.world.Players() {
		v.PlayerIDs = append(v.PlayerIDs, p.ID)
	}
	for _, b := range m.world.Bots().Bots() {
		if b.Alive() {
			v.BotsAlive++
		}
	}
	if sw := m.world.Stopwatch(); sw != nil {
		v.ElapsedMS = sw.ElapsedMillis()
	}
	return v
}

func (m *Match) broadcast(msg types.ServerMessage) {
	for id, ch := range m.clients {
		select {
		case ch <- msg:
			// ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(m.clients, id)
		}
	}
}

func (m *Match) shutdown() {
	for id, ch := range m.clients {
		close(ch)
		delete(m.clients, id)
	}
	m.cancel()
}
