// SpritePack packs rectangles (sprites, UI frames, glyphs) into the
// smallest square-ish atlas and writes the layout as atlas JSON, PDF,
// Excel, DXF or QR label sheets.
//
// Build:
//   go build -o spritepack ./cmd/spritepack
//
// Usage:
//   spritepack pack sprites.csv --atlas atlas.json --max-side 2048
//   spritepack compare sprites.csv
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, errUnplaced) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
