package types

// StateSnapshot.state:
//   phase: "running" | "won" | "lost" | "ended"
//   elapsed_ms: number // 0 until the on-screen stopwatch starts (~4s in)
//   players: [{ id, name, alive, hp, pos: {x,y,z}, celebrating? }]
//   bots: [{ id, kind: "charger", alive, hp, pos: {x,y,z} }]
//   powerups: [{ id, kind: "punch" | "shield" | "cure", pos: {x,y,z} }]
