package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dmaples/ninja-fight-backend/internal/arena"
	"github.com/dmaples/ninja-fight-backend/internal/engine"
	"github.com/dmaples/ninja-fight-backend/internal/hub"
	"github.com/dmaples/ninja-fight-backend/internal/match"
	"github.com/dmaples/ninja-fight-backend/internal/store"
)

// ResultReader is the read side of the result store; nil when the
// server runs without a database.
type ResultReader interface {
	GetResult(code string) (*store.MatchResult, error)
}

type API struct {
	Hub      *hub.Hub
	Modes    *engine.Registry
	Arenas   *arena.Registry
	Results  ResultReader
	Recorder match.Recorder
	Deadline time.Duration
	Logger   *zap.Logger
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createMatchRequest struct {
	Mode    string   `json:"mode"`
	Preset  string   `json:"preset"`
	Map     string   `json:"map"`
	Session string   `json:"session"`
	Players []string `json:"players"`
}

type createMatchResponse struct {
	Code    string       `json:"code"`
	Players []playerInfo `json:"players"`
}

type playerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type modeInfo struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Score         engine.ScoreInfo `json:"score"`
	SupportedMaps []string         `json:"supported_maps"`
}

func (a *API) ListModes(w http.ResponseWriter, r *http.Request) {
	var out []modeInfo
	for _, m := range a.Modes.All() {
		out = append(out, modeInfo{
			Name:          m.Name(),
			Description:   m.Description(),
			Score:         m.Score(),
			SupportedMaps: m.SupportedMaps(engine.SessionCoop),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if len(req.Players) == 0 {
		http.Error(w, "at least one player required", http.StatusBadRequest)
		return
	}

	mode, ok := a.Modes.Get(req.Mode)
	if !ok {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}

	session := engine.SessionKind(req.Session)
	if session == "" {
		session = engine.SessionCoop
	}
	if !mode.SupportsSession(session) {
		http.Error(w, "mode does not support this session kind", http.StatusBadRequest)
		return
	}

	maps := mode.SupportedMaps(session)
	mapName := req.Map
	if mapName == "" {
		mapName = maps[0]
	}
	if !contains(maps, mapName) {
		http.Error(w, "mode does not support this map", http.StatusBadRequest)
		return
	}
	ar, err := a.Arenas.Get(mapName)
	if err != nil {
		http.Error(w, "unknown map", http.StatusBadRequest)
		return
	}
	if !ar.SupportsSession(session) {
		http.Error(w, "map does not support this session kind", http.StatusBadRequest)
		return
	}

	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}
		reply := make(chan *match.Match, 1)
		a.Hub.Inbox() <- hub.GetMatch{Code: c, Reply: reply}
		if <-reply == nil {
			code = c
			break
		}
		a.Logger.Debug("collision on code, regenerating")
	}

	cfg := match.Config{
		Mode: mode,
		Settings: engine.Settings{
			Preset:  req.Preset,
			Map:     mapName,
			Session: session,
		},
		PlayerNames: req.Players,
		Deadline:    a.Deadline,
		Recorder:    a.Recorder,
		Logger:      a.Logger,
	}

	reply := make(chan *match.Match, 1)
	a.Hub.Inbox() <- hub.CreateMatch{Code: code, Cfg: cfg, Reply: reply}
	mt := <-reply
	if mt == nil {
		http.Error(w, "failed to create match", http.StatusInternalServerError)
		return
	}

	resp := createMatchResponse{Code: code}
	for _, p := range mt.Players() {
		resp.Players = append(resp.Players, playerInfo{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) MatchView(w http.ResponseWriter, r *http.Request) {
	mt := a.lookup(w, r)
	if mt == nil {
		return
	}
	reply := make(chan match.View, 1)
	mt.Inbox() <- match.GetView{Reply: reply}
	writeJSON(w, http.StatusOK, <-reply)
}

func (a *API) EndMatch(w http.ResponseWriter, r *http.Request) {
	mt := a.lookup(w, r)
	if mt == nil {
		return
	}
	mt.Inbox() <- match.Forfeit{}
	w.WriteHeader(http.StatusAccepted)
}

func (a *API) MatchResult(w http.ResponseWriter, r *http.Request) {
	if a.Results == nil {
		http.Error(w, "result store not configured", http.StatusNotImplemented)
		return
	}
	code := chi.URLParam(r, "code")
	res, err := a.Results.GetResult(code)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.Logger.Error("result lookup failed", zap.String("code", code), zap.Error(err))
		http.Error(w, "result lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *API) lookup(w http.ResponseWriter, r *http.Request) *match.Match {
	code := chi.URLParam(r, "code")
	reply := make(chan *match.Match, 1)
	a.Hub.Inbox() <- hub.GetMatch{Code: code, Reply: reply}
	mt := <-reply
	if mt == nil {
		http.Error(w, "match not found", http.StatusNotFound)
	}
	return mt
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
