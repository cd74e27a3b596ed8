// Package termui draws games in a terminal and runs a line based game loop.
package termui

import (
    "fmt"
    "io"
    "strings"

    "github.com/muesli/termenv"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
    "github.com/jaminalder/tictactoe-variants/internal/engine"
)

// Renderer styles boards for one output.
type Renderer struct {
    out *termenv.Output
}

// NewRenderer detects the color profile of w unless opts override it.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
    return &Renderer{out: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) mark(m domain.Mark) string {
    s := r.out.String(fmt.Sprintf("%3s", m.String())).Bold()
    switch m {
    case domain.X:
        s = s.Foreground(r.out.Color("1"))
    case domain.O:
        s = s.Foreground(r.out.Color("4"))
    }
    return s.String()
}

func (r *Renderer) empty(e *engine.Engine, row, col int) string {
    txt := "."
    if e.Kind() == domain.Scored {
        txt = fmt.Sprint(e.CellWeight(row, col))
    }
    s := r.out.String(fmt.Sprintf("%3s", txt))
    if e.IsActive() && e.IsMoveAllowed(row, col) {
        return s.Underline().String()
    }
    return s.Faint().String()
}

// Board draws the grid with row and column numbers, followed by the status
// and, for scored games, the running totals.
func (r *Renderer) Board(e *engine.Engine) string {
    n := e.BoardSize()
    ultimate := e.Kind() == domain.Ultimate
    var b strings.Builder

    b.WriteString("   ")
    for c := 0; c < n; c++ {
        if ultimate && c > 0 && c%3 == 0 {
            b.WriteString(" |")
        }
        fmt.Fprintf(&b, "%3d", c)
    }
    b.WriteByte('\n')
    for row := 0; row < n; row++ {
        if ultimate && row > 0 && row%3 == 0 {
            b.WriteString("   " + strings.Repeat("-", n*3+2*(n/3-1)) + "\n")
        }
        fmt.Fprintf(&b, "%3d", row)
        for c := 0; c < n; c++ {
            if ultimate && c > 0 && c%3 == 0 {
                b.WriteString(" |")
            }
            if m := e.CellOwner(row, c); m != domain.Empty {
                b.WriteString(r.mark(m))
            } else {
                b.WriteString(r.empty(e, row, c))
            }
        }
        b.WriteByte('\n')
    }
    b.WriteString(r.Status(e))
    b.WriteByte('\n')
    return b.String()
}

// Status is a one or two line summary of the game.
func (r *Renderer) Status(e *engine.Engine) string {
    var lines []string
    if e.Kind() == domain.Scored {
        sc := e.CurrentScore()
        lines = append(lines, fmt.Sprintf("X %d (line %d, spent %d)  O %d (line %d, spent %d)  %d moves left",
            sc.XTotal, sc.XLine, sc.XSpent, sc.OTotal, sc.OLine, sc.OSpent, e.MovesLeft()))
    }
    if e.IsActive() {
        lines = append(lines, e.CurrentPlayer().String()+" to move")
    }
    return strings.Join(lines, "\n")
}
