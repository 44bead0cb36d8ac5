package types

// Client -> Server
// StrikeBot:
//   player_id: string // acting player
//   bot_id: number
//
// StrikePlayer:
//   target_player_id: string // the player being hit (bots punch back through the reporting client)
//
// PickUp:
//   player_id: string
//   powerup_id: number
//
// Forfeit: {}

// Server -> Client
// StateSnapshot:
//   version: number
//   state: see snapshot.go
//
// Cue:
//   cue: "music" | "sound" | "cameraFlash"
//   name: string // e.g. "toTheDeath", "score"
//
// MatchEnd:
//   version: number
//   result:
//     won: boolean
//     scores: [{ team: string, score_ms: number | null }] // null = loss
//
// Error:
//   error: string
