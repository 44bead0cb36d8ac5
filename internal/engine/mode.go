package engine

import (
	"math/rand"
)

type SessionKind string

const (
	SessionCoop  SessionKind = "coop"
	SessionTeams SessionKind = "teams"
	SessionFFA   SessionKind = "ffa"
)

// ScoreInfo describes how a mode's scores should be read.
type ScoreInfo struct {
	ScoreType     string `json:"score_type"`
	ScoreName     string `json:"score_name"`
	LowerIsBetter bool   `json:"lower_is_better"`
}

// Settings is the per-match configuration a mode is constructed with.
type Settings struct {
	Preset  string
	Map     string
	Session SessionKind
}

// GameMode is the static face of a mini-game plus a factory for its
// per-match activity.
type GameMode interface {
	Name() string
	Description() string
	Score() ScoreInfo
	SupportedMaps(kind SessionKind) []string
	SupportsSession(kind SessionKind) bool
	New(host Host, settings Settings, rng *rand.Rand) Activity
}

// Registry is the set of modes a server offers. Wired explicitly in
// main rather than via init side effects.
type Registry struct {
	modes []GameMode
}

func NewRegistry(modes ...GameMode) *Registry {
	return &Registry{modes: modes}
}

func (r *Registry) Get(name string) (GameMode, bool) {
	for _, m := range r.modes {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

func (r *Registry) All() []GameMode { return r.modes }
