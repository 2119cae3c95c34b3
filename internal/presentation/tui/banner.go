package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the airdesk banner followed by a short hint line.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"        _          _           _    ", "#38bdf8"},
		{"   __ _(_)_ __ __| | ___  ___| | __", "#60a5fa"},
		{"  / _` | | '__/ _` |/ _ \\/ __| |/ /", "#818cf8"},
		{" | (_| | | | | (_| |  __/\\__ \\   < ", "#a78bfa"},
		{"  \\__,_|_|_|  \\__,_|\\___||___/_|\\_\\", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, out.String("Type a message, or \"exit\" to leave.").Faint())
	fmt.Fprintln(w)
}
