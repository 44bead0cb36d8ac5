package engine

// Message is the typed-message taxonomy the host dispatches into an
// activity. Same marker-interface shape as the hub/match inboxes.
type Message interface{ isGameMsg() }

// PlayerDeathMsg carries the dead player's actor.
type PlayerDeathMsg struct {
	Actor *PlayerActor
}

// BotDeathMsg is dispatched while the dying bot is still counted as
// living by its set; see BotSet.Strike.
type BotDeathMsg struct {
	Bot *Bot
}

// CelebrateMsg makes an actor cheer for the given duration in seconds.
type CelebrateMsg struct {
	Seconds float64
}

// PowerupPickedUpMsg is dispatched when a player collects a drop.
type PowerupPickedUpMsg struct {
	Actor   *PlayerActor
	Powerup *Powerup
}

func (PlayerDeathMsg) isGameMsg()     {}
func (BotDeathMsg) isGameMsg()        {}
func (CelebrateMsg) isGameMsg()       {}
func (PowerupPickedUpMsg) isGameMsg() {}
