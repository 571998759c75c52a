package charts

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Viewer opens rendered charts with the desktop image viewer.
type Viewer struct {
	Command string
}

func NewViewer() *Viewer {
	command := "xdg-open"
	if runtime.GOOS == "darwin" {
		command = "open"
	}
	return &Viewer{Command: command}
}

// Show starts the viewer for every path and does not wait for it to exit.
// The viewer processes outlive ctx, it only stops opening further paths.
func (v *Viewer) Show(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd := exec.Command(v.Command, path)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("open %s with %s: %w", path, v.Command, err)
		}
		if err := cmd.Process.Release(); err != nil {
			return fmt.Errorf("release %s: %w", v.Command, err)
		}
	}
	return nil
}
