package domain

// Grid is an n×n board stored row-major.
type Grid struct {
    n     int
    cells []Mark
}

// NewGrid returns an empty n×n grid.
func NewGrid(n int) Grid {
    return Grid{n: n, cells: make([]Mark, n*n)}
}

// Size returns n.
func (g *Grid) Size() int { return g.n }

// InBounds reports whether (r, c) lies on the grid.
func (g *Grid) InBounds(r, c int) bool { return inBounds(g.n, r, c) }

// At returns the mark at (r, c), or Empty when out of bounds.
func (g *Grid) At(r, c int) Mark {
    if !g.InBounds(r, c) {
        return Empty
    }
    return g.cells[flatIndex(g.n, r, c)]
}

func (g *Grid) set(r, c int, m Mark) { g.cells[flatIndex(g.n, r, c)] = m }

func (g *Grid) clear() {
    for i := range g.cells {
        g.cells[i] = Empty
    }
}

// Full reports whether no empty cell remains.
func (g *Grid) Full() bool {
    for _, m := range g.cells {
        if m == Empty {
            return false
        }
    }
    return true
}

func (g *Grid) rowHasEmpty(r int) bool {
    for c := 0; c < g.n; c++ {
        if g.At(r, c) == Empty {
            return true
        }
    }
    return false
}

func (g *Grid) colHasEmpty(c int) bool {
    for r := 0; r < g.n; r++ {
        if g.At(r, c) == Empty {
            return true
        }
    }
    return false
}

func (g Grid) clone() Grid {
    cp := Grid{n: g.n, cells: make([]Mark, len(g.cells))}
    copy(cp.cells, g.cells)
    return cp
}
