// Package rng provides deterministic random number generation for the
// simulation engine.
//
// # Overview
//
// GameState owns exactly one *RNG. It is consulted for bomb-origin
// tie-breaks, UFO target selection, spawn-model balance, and the shuffler.
// Its entire state is a single uint64, so GetState/SetState round-trip it
// bit-exactly across snapshot, restore, and Clone.
//
// # Determinism
//
// Identical state always implies identical future outputs:
//
//	a := rng.New(42)
//	b := rng.New(42)
//	a.Uint64() == b.Uint64() // always true
//
// # Derived sub-streams
//
// NewDerivedRNG gives a caller an RNG stream that is independent of how
// many times the main RNG has been called elsewhere, while still being
// reproducible from the master seed, mirroring the teacher's
// per-pipeline-stage seed derivation. The engine itself does not use it;
// the spawn model and the shuffler draw from GameState's RNG:
//
//	spawnRNG := rng.NewDerivedRNG(state.Seed, "spawn")
//
// # Thread safety
//
// RNG is not safe for concurrent use; GameState is owned by exactly one
// engine at a time (spec §5).
package rng
