package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// palette paints command output with ANSI escape codes, or leaves it as is when disabled
type palette struct {
	enabled bool
}

func newPalette(mode string) (palette, error) {
	switch mode {
	case colorAlways:
		return palette{enabled: true}, nil
	case colorNever:
		return palette{}, nil
	case colorAuto:
		return palette{enabled: stdoutSupportsColor()}, nil
	}
	return palette{}, fmt.Errorf("unknown color mode %q, expected %s, %s or %s", mode, colorAuto, colorAlways, colorNever)
}

func stdoutSupportsColor() bool {
	// https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func (p palette) paint(code, s string) string {
	if !p.enabled {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (p palette) good(s string) string  { return p.paint("32", s) }
func (p palette) bad(s string) string   { return p.paint("31", s) }
func (p palette) faint(s string) string { return p.paint("2", s) }
