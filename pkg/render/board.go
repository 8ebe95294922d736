// Package render draws game states for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"github.com/muesli/termenv"
)

const (
	colorX      = "#E06C75"
	colorO      = "#61AFEF"
	colorActive = "#E5C07B"
	separator   = "------+-------+------"
)

type Options struct {
	// Color profile, termenv.Ascii disables styling
	Profile termenv.Profile
	// Highlighted when valid
	LastMove uttt.Move
	// Print the state's notation below the board
	Notation bool
}

func DefaultOptions() Options {
	return Options{
		Profile:  termenv.ANSI256,
		LastMove: uttt.NullMove,
	}
}

// Board writes the 9x9 board followed by a status line. Empty cells of the
// active sub-boards are drawn as '+'.
func Board(w io.Writer, s uttt.GameState, opts Options) error {
	out := termenv.NewOutput(w, termenv.WithProfile(opts.Profile))
	sb := strings.Builder{}

	for y := 0; y < 9; y++ {
		if y > 0 && y%3 == 0 {
			sb.WriteString(separator + "\n")
		}
		for x := 0; x < 9; x++ {
			if x > 0 && x%3 == 0 {
				sb.WriteString(" |")
			}
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(cell(out, s, uttt.Move{X: x, Y: y}, opts.LastMove))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(Status(s) + "\n")
	if opts.Notation {
		sb.WriteString(s.Notation() + "\n")
	}

	_, err := fmt.Fprint(out, sb.String())
	return err
}

func cell(out *termenv.Output, s uttt.GameState, m, last uttt.Move) string {
	p := s.At(m.X, m.Y)
	var style termenv.Style

	switch {
	case p == uttt.X:
		style = out.String("x").Foreground(out.Color(colorX))
	case p == uttt.O:
		style = out.String("o").Foreground(out.Color(colorO))
	case s.Macro[m.MacroIndex()] == uttt.Active:
		style = out.String("+").Foreground(out.Color(colorActive))
	default:
		style = out.String(".").Faint()
	}

	if m == last {
		style = style.Bold().Underline()
	}
	return style.String()
}

// Status describes whose turn it is or how the game ended
func Status(s uttt.GameState) string {
	switch {
	case s.Winner == uttt.X || s.Winner == uttt.O:
		return fmt.Sprintf("%v won after %d plies", s.Winner, s.Plies)
	case s.Over():
		return fmt.Sprintf("draw after %d plies", s.Plies)
	}
	return fmt.Sprintf("round %d, %v to move", s.Round, s.Turn)
}
