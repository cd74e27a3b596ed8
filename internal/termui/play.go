package termui

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
    "github.com/jaminalder/tictactoe-variants/internal/engine"
)

// ErrQuit is returned when the player types "q".
var ErrQuit = errors.New("quit")

// Game drives an engine from line input: "row col" places a mark, "q" quits.
type Game struct {
    Engine   *engine.Engine
    In       io.Reader
    Out      io.Writer
    Renderer *Renderer
}

// Run plays until the game ends, the input ends or ctx is done. It returns
// the outcome of the last move.
func (g *Game) Run(ctx context.Context) (domain.Outcome, error) {
    e := g.Engine
    sc := bufio.NewScanner(g.In)
    var last domain.Outcome
    for e.IsActive() {
        if err := ctx.Err(); err != nil {
            return last, err
        }
        fmt.Fprint(g.Out, g.Renderer.Board(e))

        if e.IsCurrentPlayerComputer() {
            p := e.CurrentPlayer()
            out, res := e.DoComputerMoveResult()
            if !out.Accepted {
                return last, errors.New("computer found no move")
            }
            last = out
            fmt.Fprintf(g.Out, "%s plays %d %d\n", p, res.Move.Row, res.Move.Col)
            continue
        }

        fmt.Fprint(g.Out, "> ")
        if !sc.Scan() {
            if err := sc.Err(); err != nil {
                return last, err
            }
            return last, io.ErrUnexpectedEOF
        }
        line := strings.TrimSpace(sc.Text())
        if line == "q" || line == "quit" {
            return last, ErrQuit
        }
        r, c, err := parseMove(line)
        if err != nil {
            fmt.Fprintln(g.Out, err)
            continue
        }
        out := e.ApplyMove(r, c)
        if !out.Accepted {
            fmt.Fprintln(g.Out, "move not allowed")
            continue
        }
        last = out
    }
    fmt.Fprint(g.Out, g.Renderer.Board(e))
    fmt.Fprintln(g.Out, result(last))
    return last, nil
}

func parseMove(line string) (int, int, error) {
    f := strings.Fields(strings.ReplaceAll(line, ",", " "))
    if len(f) != 2 {
        return 0, 0, fmt.Errorf("enter a move as: row col")
    }
    r, err1 := strconv.Atoi(f[0])
    c, err2 := strconv.Atoi(f[1])
    if err1 != nil || err2 != nil {
        return 0, 0, fmt.Errorf("bad move %q", line)
    }
    return r, c, nil
}

func result(out domain.Outcome) string {
    if out.Winner == domain.Empty {
        return "Draw."
    }
    return out.Winner.String() + " wins."
}
