package types

import "github.com/dmaples/ninja-fight-backend/internal/engine"

// ClientMessage is what a connected client may send over the socket.
type ClientMessage struct {
	Type           string `json:"type"` // "StrikeBot" | "StrikePlayer" | "PickUp" | "Forfeit"
	PlayerID       string `json:"player_id,omitempty"`
	BotID          int    `json:"bot_id,omitempty"`
	TargetPlayerID string `json:"target_player_id,omitempty"`
	PowerupID      int    `json:"powerup_id,omitempty"`
}

// ServerMessage is the single envelope the server writes.
type ServerMessage struct {
	Type    string      `json:"type"` // "StateSnapshot" | "Cue" | "MatchEnd" | "Error"
	Version int         `json:"version,omitempty"`
	State   *StateView  `json:"state,omitempty"`
	Cue     string      `json:"cue,omitempty"`  // "music" | "sound" | "cameraFlash"
	Name    string      `json:"name,omitempty"` // cue argument, e.g. sound name
	Result  *ResultView `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type StateView struct {
	Phase     string        `json:"phase"`
	ElapsedMS int64         `json:"elapsed_ms"`
	Players   []PlayerView  `json:"players"`
	Bots      []BotView     `json:"bots"`
	Powerups  []PowerupView `json:"powerups"`
}

type PlayerView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Alive       bool        `json:"alive"`
	HP          int         `json:"hp"`
	Pos         engine.Vec3 `json:"pos"`
	Celebrating bool        `json:"celebrating,omitempty"`
}

type BotView struct {
	ID    int         `json:"id"`
	Kind  string      `json:"kind"`
	Alive bool        `json:"alive"`
	HP    int         `json:"hp"`
	Pos   engine.Vec3 `json:"pos"`
}

type PowerupView struct {
	ID   int         `json:"id"`
	Kind string      `json:"kind"`
	Pos  engine.Vec3 `json:"pos"`
}

// ResultView mirrors the final per-team scores. A nil score means the
// team lost; for a win every team carries the elapsed milliseconds.
type ResultView struct {
	Won    bool            `json:"won"`
	Scores []TeamScoreView `json:"scores"`
}

type TeamScoreView struct {
	Team    string `json:"team"`
	ScoreMS *int64 `json:"score_ms"` // null = loss
}
