package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the simreport banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text string
		hex  string
	}{
		{`     _                                 _   `, "#818cf8"},
		{` ___(_)_ __ ___  _ __ ___ _ __   ___  _ __| |_ `, "#a78bfa"},
		{`/ __| | '_ ` + "`" + ` _ \| '__/ _ \ '_ \ / _ \| '__| __|`, "#c084fc"},
		{`\__ \ | | | | | | | |  __/ |_) | (_) | |  | |_ `, "#e879f9"},
		{`|___/_|_| |_| |_|_|  \___| .__/ \___/|_|   \__|`, "#f472b6"},
		{`                         |_|                  `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.hex)))
	}
	fmt.Fprintf(w, "  %s\n\n", termenv.String("v"+version).Faint())
}
