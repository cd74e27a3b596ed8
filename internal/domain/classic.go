package domain

import (
    "fmt"
    "strings"
)

// WinRule selects how the classic variant detects a win.
type WinRule uint8

const (
    // FullLine requires a complete row, column or main diagonal.
    FullLine WinRule = iota
    // Run accepts any WinLen cells in a row, in any of the four directions,
    // through the cell just played.
    Run
)

func (r WinRule) String() string {
    if r == Run {
        return "run"
    }
    return "full-line"
}

// ParseWinRule accepts "full-line" and "run".
func ParseWinRule(s string) (WinRule, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "full-line", "line":
        return FullLine, nil
    case "run":
        return Run, nil
    }
    return FullLine, fmt.Errorf("unknown win rule %q", s)
}

// ClassicOptions configures a classic game. Zero values mean 3×3, full line.
type ClassicOptions struct {
    Size   int
    WinLen int
    Rule   WinRule
}

// ClassicGame is N-in-a-row on an N×N board.
type ClassicGame struct {
    cfg    Config
    rule   WinRule
    board  Grid
    turn   Mark
    active bool
    moves  int
}

// NewClassic returns a 3×3 game with X to move.
func NewClassic() *ClassicGame { return NewClassicWith(ClassicOptions{}) }

// NewClassicWith builds a classic game. Under FullLine the win length is the
// board size; under Run it defaults to the board size and is capped by it.
func NewClassicWith(opts ClassicOptions) *ClassicGame {
    n := opts.Size
    if n <= 0 {
        n = 3
    }
    l := opts.WinLen
    if opts.Rule == FullLine || l <= 0 || l > n {
        l = n
    }
    g := &ClassicGame{
        cfg:   Config{Size: n, WinLen: l, MaxMoves: n * n, Stripe: 1},
        rule:  opts.Rule,
        board: NewGrid(n),
    }
    g.StartNewGame()
    return g
}

func (g *ClassicGame) Kind() Kind { return Classic }
func (g *ClassicGame) Config() Config { return g.cfg }
func (g *ClassicGame) BoardSize() int { return g.cfg.Size }
func (g *ClassicGame) CurrentPlayer() Mark { return g.turn }
func (g *ClassicGame) IsActive() bool { return g.active }
func (g *ClassicGame) MovesMade() int { return g.moves }
func (g *ClassicGame) MovesLeft() int { return g.cfg.MaxMoves - g.moves }
func (g *ClassicGame) ActiveRow() int { return Unset }
func (g *ClassicGame) ActiveCol() int { return Unset }
func (g *ClassicGame) CurrentScore() Score { return Score{} }
func (g *ClassicGame) CellWeight(int, int) int { return 0 }
func (g *ClassicGame) SetFillMode(FillMode) {}
func (g *ClassicGame) FillMode() FillMode { return Free }

// StartNewGame clears the board and gives X the move.
func (g *ClassicGame) StartNewGame() {
    g.board.clear()
    g.turn = X
    g.active = true
    g.moves = 0
}

func (g *ClassicGame) CellOwner(r, c int) Mark { return g.board.At(r, c) }

func (g *ClassicGame) IsMoveAllowed(r, c int) bool {
    if !g.active || !g.board.InBounds(r, c) {
        return false
    }
    return g.board.At(r, c) == Empty
}

func (g *ClassicGame) ApplyMove(r, c int) Outcome {
    var out Outcome
    if !g.IsMoveAllowed(r, c) {
        return out
    }
    g.board.set(r, c, g.turn)
    g.moves++
    out.Accepted = true

    if w := g.winner(r, c); w != Empty {
        g.active = false
        out.Finished = true
        out.Winner = w
        return out
    }
    if g.moves >= g.cfg.MaxMoves {
        g.active = false
        out.Finished = true
        return out
    }
    g.turn = g.turn.Opponent()
    return out
}

func (g *ClassicGame) Clone() State {
    cp := *g
    cp.board = g.board.clone()
    return &cp
}

func (g *ClassicGame) winner(r, c int) Mark {
    if g.rule == Run {
        if runThrough(&g.board, r, c, g.cfg.WinLen) {
            return g.board.At(r, c)
        }
        return Empty
    }
    return fullLineWinner(&g.board)
}

// fullLineWinner checks every row, column and both main diagonals.
func fullLineWinner(b *Grid) Mark {
    n := b.Size()
    for i := 0; i < n; i++ {
        if w := winnerBySum(lineSum(b, i, 0, 0, 1, n), n); w != Empty {
            return w
        }
        if w := winnerBySum(lineSum(b, 0, i, 1, 0, n), n); w != Empty {
            return w
        }
    }
    if w := winnerBySum(lineSum(b, 0, 0, 1, 1, n), n); w != Empty {
        return w
    }
    return winnerBySum(lineSum(b, 0, n-1, 1, -1, n), n)
}

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// runThrough reports whether the mark at (r, c) is part of l or more
// contiguous equal marks along some direction.
func runThrough(b *Grid, r, c, l int) bool {
    m := b.At(r, c)
    if m == Empty {
        return false
    }
    for _, d := range directions {
        count := 1
        for k := 1; b.At(r+k*d[0], c+k*d[1]) == m; k++ {
            count++
        }
        for k := 1; b.At(r-k*d[0], c-k*d[1]) == m; k++ {
            count++
        }
        if count >= l {
            return true
        }
    }
    return false
}
