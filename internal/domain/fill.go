package domain

import (
    "fmt"
    "math/rand/v2"
    "strings"
)

// FillMode restricts where the scored variant accepts a move.
type FillMode uint8

const (
    Free FillMode = iota
    TopDownRows
    LeftRightCols
    RandomRow
    RandomCol
    RandomRowOrCol
    // Gravity only accepts the lowest empty cell of a column.
    Gravity
)

var fillNames = [...]string{
    Free:           "free",
    TopDownRows:    "top-down-rows",
    LeftRightCols:  "left-right-cols",
    RandomRow:      "random-row",
    RandomCol:      "random-col",
    RandomRowOrCol: "random-row-or-col",
    Gravity:        "gravity",
}

func (f FillMode) String() string {
    if int(f) < len(fillNames) {
        return fillNames[f]
    }
    return fmt.Sprintf("fill(%d)", uint8(f))
}

// FillModes lists every policy in declaration order.
func FillModes() []FillMode {
    out := make([]FillMode, len(fillNames))
    for i := range fillNames {
        out[i] = FillMode(i)
    }
    return out
}

// ParseFillMode accepts the names returned by FillMode.String.
func ParseFillMode(s string) (FillMode, error) {
    s = strings.ToLower(strings.TrimSpace(s))
    if s == "" {
        return Free, nil
    }
    for i, name := range fillNames {
        if name == s {
            return FillMode(i), nil
        }
    }
    return Free, fmt.Errorf("unknown fill mode %q", s)
}

// stripe is the active row/column cursor together with the generator the
// random policies draw from. It is a plain value so cloning a game copies it.
type stripe struct {
    row int
    col int
    rng rand.PCG
}

func (s *stripe) reset() {
    s.row = Unset
    s.col = Unset
}

// allows reports whether (r, c) passes the policy. Occupancy and bounds are
// checked by the caller.
func (s *stripe) allows(fill FillMode, b *Grid, r, c int) bool {
    switch fill {
    case TopDownRows, RandomRow:
        return r == s.row
    case LeftRightCols, RandomCol:
        return c == s.col
    case RandomRowOrCol:
        return r == s.row || c == s.col
    case Gravity:
        return r == b.Size()-1 || b.At(r+1, c) != Empty
    }
    return true
}

// update recomputes the cursor after a move.
func (s *stripe) update(fill FillMode, b *Grid) {
    n := b.Size()
    switch fill {
    case TopDownRows:
        s.row, s.col = firstWith(n, b.rowHasEmpty), Unset
    case LeftRightCols:
        s.row, s.col = Unset, firstWith(n, b.colHasEmpty)
    case RandomRow:
        if s.row == Unset || !b.rowHasEmpty(s.row) {
            s.row = s.pick(n, b.rowHasEmpty)
        }
        s.col = Unset
    case RandomCol:
        if s.col == Unset || !b.colHasEmpty(s.col) {
            s.col = s.pick(n, b.colHasEmpty)
        }
        s.row = Unset
    case RandomRowOrCol:
        if s.row == Unset || !b.rowHasEmpty(s.row) {
            s.row = s.pick(n, b.rowHasEmpty)
        }
        if s.col == Unset || !b.colHasEmpty(s.col) {
            s.col = s.pick(n, b.colHasEmpty)
        }
    default:
        s.reset()
    }
}

func firstWith(n int, ok func(int) bool) int {
    for i := 0; i < n; i++ {
        if ok(i) {
            return i
        }
    }
    return Unset
}

// pick draws uniformly among indices satisfying ok.
func (s *stripe) pick(n int, ok func(int) bool) int {
    var candidates []int
    for i := 0; i < n; i++ {
        if ok(i) {
            candidates = append(candidates, i)
        }
    }
    if len(candidates) == 0 {
        return Unset
    }
    return candidates[rand.New(&s.rng).IntN(len(candidates))]
}
