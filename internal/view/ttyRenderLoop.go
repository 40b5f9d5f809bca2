package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"orgclone/internal/console"
)

const renderInterval = 100 * time.Millisecond

// StartTTYRenderLoop repaints the view block through the console until the
// context is cancelled. Must only be called with a terminal file. Once it
// returns, no further repaints are issued.
func StartTTYRenderLoop(ctx context.Context, cons *console.Console, v View, file *os.File) {
	if !term.IsTerminal(int(file.Fd())) {
		panic(fmt.Errorf("cannot start a TTY render loop on a non-terminal file"))
	}
	renderLoop(ctx, cons, v, func() (int, error) {
		width, _, err := term.GetSize(int(file.Fd()))
		return width, err
	})
}

func renderLoop(ctx context.Context, cons *console.Console, v View, width func() (int, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			w, err := width()
			if err != nil {
				return
			}
			cons.Repaint(v, w)
			time.Sleep(renderInterval)
		}
	}
}
