package engine

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Team struct {
	ID      int
	Name    string
	Players []*Player
}

type Player struct {
	ID    string
	Name  string
	Team  *Team
	Actor *PlayerActor // nil while waiting to (re)spawn
}

const playerMaxHP = 100

// PlayerActor is a player-controlled character in the world.
type PlayerActor struct {
	Player      *Player
	Pos          Vec3
	HP           int
	Celebrating  bool
	PunchBoosted bool
	Shielded     bool
	alive        bool
}

func (a *PlayerActor) Alive() bool { return a.alive }

// HandleMessage covers the per-actor messages an activity may send.
// Unknown kinds are ignored, actors have no default behavior to fall
// back on.
func (a *PlayerActor) HandleMessage(msg Message) {
	switch msg.(type) {
	case CelebrateMsg:
		a.Celebrating = true
	}
}
