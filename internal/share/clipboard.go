package share

import (
	"io"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"
)

// OSC52 writes to the terminal clipboard with an OSC 52 escape sequence,
// which also works over SSH.
type OSC52 struct {
	W    io.Writer
	Tmux bool // wrap for tmux passthrough
}

// NewOSC52 returns a clipboard writing to stderr, which bubbletea leaves
// untouched while the alt screen owns stdout.
func NewOSC52() *OSC52 {
	return &OSC52{W: os.Stderr, Tmux: os.Getenv("TMUX") != ""}
}

// WriteText implements Clipboard.
func (c *OSC52) WriteText(text string) error {
	seq := osc52.New(text)
	if c.Tmux {
		seq = seq.Tmux()
	}
	_, err := seq.WriteTo(c.W)
	return err
}
