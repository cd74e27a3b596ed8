// Package engine is the single entry point a front end drives: it owns the
// current game, knows which sides the computer plays and runs its moves.
package engine

import (
    "errors"
    "fmt"
    "strings"

    "github.com/jaminalder/tictactoe-variants/internal/ai"
    "github.com/jaminalder/tictactoe-variants/internal/domain"
)

// Control says who plays a side.
type Control uint8

const (
    Human Control = iota
    Computer
)

func (c Control) String() string {
    if c == Computer {
        return "computer"
    }
    return "human"
}

// ParseControl accepts "human" and "computer" (or "ai").
func ParseControl(s string) (Control, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "human":
        return Human, nil
    case "computer", "ai", "cpu":
        return Computer, nil
    }
    return Human, fmt.Errorf("unknown player control %q", s)
}

// Limits on configurable boards.
const (
    MinClassicSize = 3
    MaxClassicSize = 7
    // MaxSearchCells bounds classic boards the computer may play on; the
    // classic search is exhaustive.
    MaxSearchCells = 9
    MinScoredSize  = 4
    MaxScoredSize  = 16
)

// ErrBadOptions is returned for options no variant accepts.
var ErrBadOptions = errors.New("invalid game options")

// Options select the variant and its parameters for a new game.
type Options struct {
    Kind domain.Kind

    // classic and scored
    Size   int
    WinLen int
    // classic only
    Rule domain.WinRule

    // scored only
    MaxMoves int
    Fill     domain.FillMode
    Seed     uint64

    X Control
    O Control
}

// DefaultOptions is a human-vs-human classic 3×3 game.
func DefaultOptions() Options { return Options{Kind: domain.Classic} }

// Validate checks the options against the variant limits.
func (o Options) Validate() error {
    switch o.Kind {
    case domain.Classic:
        if o.Size != 0 && (o.Size < MinClassicSize || o.Size > MaxClassicSize) {
            return fmt.Errorf("%w: classic size %d outside %d..%d", ErrBadOptions, o.Size, MinClassicSize, MaxClassicSize)
        }
        if o.Rule == domain.Run && o.WinLen != 0 && (o.WinLen < 3 || o.WinLen > max(o.Size, 3)) {
            return fmt.Errorf("%w: win length %d", ErrBadOptions, o.WinLen)
        }
        if o.Rule > domain.Run {
            return fmt.Errorf("%w: win rule %d", ErrBadOptions, o.Rule)
        }
        n := max(o.Size, MinClassicSize)
        if (o.X == Computer || o.O == Computer) && n*n > MaxSearchCells {
            return fmt.Errorf("%w: computer play needs a classic board of at most %d cells", ErrBadOptions, MaxSearchCells)
        }
    case domain.Scored:
        if o.Size != 0 && (o.Size < MinScoredSize || o.Size > MaxScoredSize) {
            return fmt.Errorf("%w: scored size %d outside %d..%d", ErrBadOptions, o.Size, MinScoredSize, MaxScoredSize)
        }
        if o.WinLen < 0 || o.MaxMoves < 0 {
            return fmt.Errorf("%w: negative scored parameter", ErrBadOptions)
        }
        if int(o.Fill) >= len(domain.FillModes()) {
            return fmt.Errorf("%w: fill mode %d", ErrBadOptions, o.Fill)
        }
    case domain.Ultimate:
    default:
        return fmt.Errorf("%w: variant %v", ErrBadOptions, o.Kind)
    }
    if o.X > Computer || o.O > Computer {
        return fmt.Errorf("%w: player control", ErrBadOptions)
    }
    return nil
}

func newState(o Options) domain.State {
    switch o.Kind {
    case domain.Scored:
        return domain.NewScoredWith(domain.ScoredOptions{
            Size: o.Size, WinLen: o.WinLen, MaxMoves: o.MaxMoves, Fill: o.Fill, Seed: o.Seed,
        })
    case domain.Ultimate:
        return domain.NewUltimate()
    default:
        return domain.NewClassicWith(domain.ClassicOptions{Size: o.Size, WinLen: o.WinLen, Rule: o.Rule})
    }
}

// Engine holds one game at a time. It is not safe for concurrent use.
type Engine struct {
    opts  Options
    state domain.State
}

// New returns an engine with a default game already started.
func New() *Engine {
    e := &Engine{}
    _ = e.NewGame(DefaultOptions())
    return e
}

// NewGame discards the current game and starts one with opts.
func (e *Engine) NewGame(opts Options) error {
    if err := opts.Validate(); err != nil {
        return err
    }
    e.opts = opts
    e.state = newState(opts)
    return nil
}

// Restart starts a fresh game with the current options.
func (e *Engine) Restart() {
    e.state.SetFillMode(e.opts.Fill)
    e.state.StartNewGame()
}

// SetFillMode changes the scored placement policy. The running game keeps its
// policy; the change applies from the next Restart.
func (e *Engine) SetFillMode(f domain.FillMode) error {
    if int(f) >= len(domain.FillModes()) {
        return fmt.Errorf("%w: fill mode %d", ErrBadOptions, f)
    }
    e.opts.Fill = f
    return nil
}

// Options returns the options of the current game.
func (e *Engine) Options() Options { return e.opts }

// Kind is the variant being played.
func (e *Engine) Kind() domain.Kind { return e.state.Kind() }

// Config is the fixed configuration of the current game.
func (e *Engine) Config() domain.Config { return e.state.Config() }

// SetControls changes who plays each side without restarting.
func (e *Engine) SetControls(x, o Control) error {
    next := e.opts
    next.X, next.O = x, o
    if err := next.Validate(); err != nil {
        return err
    }
    e.opts = next
    return nil
}

// Control returns who plays side p.
func (e *Engine) Control(p domain.Mark) Control {
    if p == domain.O {
        return e.opts.O
    }
    return e.opts.X
}

func (e *Engine) ApplyMove(r, c int) domain.Outcome { return e.state.ApplyMove(r, c) }

func (e *Engine) BoardSize() int { return e.state.BoardSize() }
func (e *Engine) CurrentPlayer() domain.Mark { return e.state.CurrentPlayer() }
func (e *Engine) CellOwner(r, c int) domain.Mark { return e.state.CellOwner(r, c) }
func (e *Engine) CellWeight(r, c int) int { return e.state.CellWeight(r, c) }
func (e *Engine) IsMoveAllowed(r, c int) bool { return e.state.IsMoveAllowed(r, c) }
func (e *Engine) ActiveRow() int { return e.state.ActiveRow() }
func (e *Engine) ActiveCol() int { return e.state.ActiveCol() }
func (e *Engine) CurrentScore() domain.Score { return e.state.CurrentScore() }
func (e *Engine) IsActive() bool { return e.state.IsActive() }
func (e *Engine) MovesMade() int { return e.state.MovesMade() }
func (e *Engine) MovesLeft() int { return e.state.MovesLeft() }
func (e *Engine) FillMode() domain.FillMode { return e.state.FillMode() }

// State returns a copy of the running game for read-only inspection.
func (e *Engine) State() domain.State { return e.state.Clone() }

// Clone returns an engine with an independent copy of the game.
func (e *Engine) Clone() *Engine { return &Engine{opts: e.opts, state: e.state.Clone()} }

// IsCurrentPlayerComputer reports whether the game is running and the side to
// move is computer controlled.
func (e *Engine) IsCurrentPlayerComputer() bool {
    return e.state.IsActive() && e.Control(e.state.CurrentPlayer()) == Computer
}

// PickComputerMove searches the current position without changing it.
func (e *Engine) PickComputerMove() ai.Result { return ai.Search(e.state) }

// DoComputerMove plays the computer's choice. The outcome is rejected when the
// game is over, a human is to move, or no legal move exists.
func (e *Engine) DoComputerMove() domain.Outcome {
    out, _ := e.doComputerMove()
    return out
}

// DoComputerMoveResult is DoComputerMove that also reports the search result.
func (e *Engine) DoComputerMoveResult() (domain.Outcome, ai.Result) { return e.doComputerMove() }

func (e *Engine) doComputerMove() (domain.Outcome, ai.Result) {
    if !e.IsCurrentPlayerComputer() {
        return domain.Outcome{}, ai.Result{}
    }
    res := ai.Search(e.state)
    if !res.Found {
        return domain.Outcome{}, res
    }
    return e.state.ApplyMove(res.Move.Row, res.Move.Col), res
}
