package domain

// Mark is the owner of a cell: +1 for X, -1 for O, 0 for nobody.
// Win checks add marks along a line and compare the sum against ±length,
// so the numeric values matter.
type Mark int8

const (
    O     Mark = -1
    Empty Mark = 0
    X     Mark = 1
)

// Opponent returns the other side. Empty has no opponent.
func (m Mark) Opponent() Mark { return -m }

func (m Mark) String() string {
    switch m {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// Unset marks an inactive row/column cursor or "no forced sub-board".
const Unset = -1

// Move is a cell coordinate.
type Move struct {
    Row int
    Col int
}

// flatIndex maps (r, c) on an n×n board to a row-major offset.
// Every variant indexes its flat arrays through here.
func flatIndex(n, r, c int) int { return r*n + c }

func inBounds(n, r, c int) bool { return r >= 0 && c >= 0 && r < n && c < n }

// lineSum adds the marks of n cells starting at (r, c) stepping (dr, dc).
func lineSum(g *Grid, r, c, dr, dc, n int) int {
    s := 0
    for k := 0; k < n; k++ {
        s += int(g.At(r+k*dr, c+k*dc))
    }
    return s
}

// winnerBySum reports the side whose mark fills a line of length n with sum s.
func winnerBySum(s, n int) Mark {
    switch s {
    case n:
        return X
    case -n:
        return O
    }
    return Empty
}
