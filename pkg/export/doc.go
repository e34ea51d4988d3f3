// Package export provides read-only debug export of a GameState to
// formats other than the engine's own binary snapshot (pkg/snapshot):
// indented/compact JSON for inspection, an SVG grid render for visual
// debugging, and a Tiled-compatible TMJ tilemap for loading a board into
// an external level viewer. None of these round-trip back into a
// GameState; that is pkg/snapshot's job.
package export
