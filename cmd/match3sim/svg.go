package main

import (
	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/export"
)

// dumpSVG writes a debug visualization of gs to path via pkg/export.
func dumpSVG(path string, gs *board.GameState) error {
	return export.SaveSVGToFile(gs, path, export.DefaultSVGOptions())
}
