package engine

import (
	"time"

	"github.com/dmaples/ninja-fight-backend/internal/sched"
)

// Activity is one running instance of a game mode. The host calls the
// lifecycle hooks and forwards messages; everything runs on the match
// loop, never concurrently.
type Activity interface {
	OnTransitionIn()
	OnBegin()
	SpawnPlayer(p *Player) *PlayerActor
	HandleMessage(msg Message)
	EndGame()
}

// Host is the engine surface an activity programs against: deferred
// scheduling, the world, media cues reduced to named broadcasts, and
// activity termination.
type Host interface {
	// After schedules a fire-once callback, Push posts one for the next
	// scheduling tick (strictly after the current tick finishes).
	After(d time.Duration, fn func()) *sched.Handle
	Push(fn func())
	Clock() sched.Clock

	World() *World

	SetMusic(name string)
	PlaySound(name string)
	CameraFlash()

	EnablePowerupDrops()
	RespawnPlayer(p *Player)

	// DefaultHandleMessage is the base-behavior arm activities forward
	// unrecognized messages to.
	DefaultHandleMessage(msg Message)

	// EndActivity finalizes the match with the given results. Exactly
	// one call has effect.
	EndActivity(results *GameResults)
}
