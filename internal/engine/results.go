package engine

// GameResults collects per-team final scores. A team with no score set
// has lost; SetTeamScore keeps the first value written for a team.
type GameResults struct {
	scores map[int]int64
}

func NewGameResults() *GameResults {
	return &GameResults{scores: make(map[int]int64)}
}

func (r *GameResults) SetTeamScore(t *Team, score int64) {
	if _, ok := r.scores[t.ID]; ok {
		return
	}
	r.scores[t.ID] = score
}

func (r *GameResults) TeamScore(t *Team) (int64, bool) {
	s, ok := r.scores[t.ID]
	return s, ok
}
