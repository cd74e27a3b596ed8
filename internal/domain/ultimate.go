package domain

// LocalStatus is the state of one 3×3 sub-board. The won values equal the
// winner's Mark so meta lines can be summed like a classic board.
type LocalStatus int8

const (
    LocalWonO  LocalStatus = -1
    LocalOpen  LocalStatus = 0
    LocalWonX  LocalStatus = 1
    LocalDrawn LocalStatus = 2
)

// Mark returns the owner of a won sub-board, Empty otherwise.
func (s LocalStatus) Mark() Mark {
    if s == LocalWonX || s == LocalWonO {
        return Mark(s)
    }
    return Empty
}

// Closed reports whether the sub-board no longer accepts moves because it
// was decided.
func (s LocalStatus) Closed() bool { return s != LocalOpen }

const (
    ultimateSize = 9
    localSize    = 3
    localCount   = 9
)

// UltimateGame is nine classic boards inside a classic board. The cell just
// played selects the sub-board the opponent must answer in.
type UltimateGame struct {
    board  Grid
    local  [localCount]LocalStatus
    forced int
    turn   Mark
    active bool
    moves  int
}

// NewUltimate returns an empty game with X to move anywhere.
func NewUltimate() *UltimateGame {
    g := &UltimateGame{board: NewGrid(ultimateSize)}
    g.StartNewGame()
    return g
}

func (g *UltimateGame) Kind() Kind { return Ultimate }

func (g *UltimateGame) Config() Config {
    return Config{Size: ultimateSize, WinLen: localSize, MaxMoves: ultimateSize * ultimateSize, Stripe: localSize}
}

func (g *UltimateGame) BoardSize() int { return ultimateSize }
func (g *UltimateGame) CurrentPlayer() Mark { return g.turn }
func (g *UltimateGame) IsActive() bool { return g.active }
func (g *UltimateGame) MovesMade() int { return g.moves }
func (g *UltimateGame) CellWeight(int, int) int { return 0 }
func (g *UltimateGame) CurrentScore() Score { return Score{} }
func (g *UltimateGame) SetFillMode(FillMode) {}
func (g *UltimateGame) FillMode() FillMode { return Free }
func (g *UltimateGame) CellOwner(r, c int) Mark { return g.board.At(r, c) }

func (g *UltimateGame) StartNewGame() {
    g.board.clear()
    g.local = [localCount]LocalStatus{}
    g.forced = Unset
    g.turn = X
    g.active = true
    g.moves = 0
}

// LocalIndex returns the sub-board holding cell (r, c).
func LocalIndex(r, c int) int { return (r/localSize)*localSize + c/localSize }

// LocalStatus returns the cached status of sub-board i; out of range reads as drawn.
func (g *UltimateGame) LocalStatus(i int) LocalStatus {
    if i < 0 || i >= localCount {
        return LocalDrawn
    }
    return g.local[i]
}

// Playable reports whether sub-board i is undecided and has an empty cell.
func (g *UltimateGame) Playable(i int) bool {
    if i < 0 || i >= localCount || g.local[i] != LocalOpen {
        return false
    }
    return !g.localFull(i)
}

// ForcedLocal is the sub-board the next move must target, or Unset.
func (g *UltimateGame) ForcedLocal() int {
    if g.forced == Unset || !g.Playable(g.forced) {
        return Unset
    }
    return g.forced
}

// ActiveRow is the meta row of the forced sub-board.
func (g *UltimateGame) ActiveRow() int {
    if f := g.ForcedLocal(); f != Unset {
        return f / localSize
    }
    return Unset
}

// ActiveCol is the meta column of the forced sub-board.
func (g *UltimateGame) ActiveCol() int {
    if f := g.ForcedLocal(); f != Unset {
        return f % localSize
    }
    return Unset
}

// MovesLeft counts empty cells inside still playable sub-boards.
func (g *UltimateGame) MovesLeft() int {
    if !g.active {
        return 0
    }
    left := 0
    for r := 0; r < ultimateSize; r++ {
        for c := 0; c < ultimateSize; c++ {
            if g.board.At(r, c) == Empty && g.Playable(LocalIndex(r, c)) {
                left++
            }
        }
    }
    return left
}

func (g *UltimateGame) IsMoveAllowed(r, c int) bool {
    if !g.active || !g.board.InBounds(r, c) || g.board.At(r, c) != Empty {
        return false
    }
    i := LocalIndex(r, c)
    if !g.Playable(i) {
        return false
    }
    f := g.ForcedLocal()
    return f == Unset || f == i
}

func (g *UltimateGame) ApplyMove(r, c int) Outcome {
    var out Outcome
    if !g.IsMoveAllowed(r, c) {
        return out
    }
    g.board.set(r, c, g.turn)
    g.moves++
    out.Accepted = true

    i := LocalIndex(r, c)
    if w := g.localWinner(i); w != Empty {
        g.local[i] = LocalStatus(w)
    } else if g.localFull(i) {
        g.local[i] = LocalDrawn
    }

    if w := MetaWinner(g.local); w != Empty {
        g.active = false
        out.Finished = true
        out.Winner = w
        return out
    }
    if !g.anyPlayable() {
        g.active = false
        out.Finished = true
        return out
    }

    next := (r%localSize)*localSize + c%localSize
    if g.Playable(next) {
        g.forced = next
    } else {
        g.forced = Unset
    }
    g.turn = g.turn.Opponent()
    return out
}

func (g *UltimateGame) Clone() State {
    cp := *g
    cp.board = g.board.clone()
    return &cp
}

func (g *UltimateGame) anyPlayable() bool {
    for i := 0; i < localCount; i++ {
        if g.Playable(i) {
            return true
        }
    }
    return false
}

func localOrigin(i int) (int, int) {
    return (i / localSize) * localSize, (i % localSize) * localSize
}

func (g *UltimateGame) localFull(i int) bool {
    br, bc := localOrigin(i)
    for r := 0; r < localSize; r++ {
        for c := 0; c < localSize; c++ {
            if g.board.At(br+r, bc+c) == Empty {
                return false
            }
        }
    }
    return true
}

func (g *UltimateGame) localWinner(i int) Mark { return localWinnerOf(g.board.At, i) }

func localWinnerOf(at func(r, c int) Mark, i int) Mark {
    br, bc := localOrigin(i)
    for _, ln := range Lines3 {
        s := 0
        for _, p := range ln {
            s += int(at(br+p/localSize, bc+p%localSize))
        }
        if w := winnerBySum(s, localSize); w != Empty {
            return w
        }
    }
    return Empty
}

// DeriveLocalStatuses returns the nine sub-board statuses of a 9×9 state.
// An UltimateGame answers from its cache; anything else is read cell by cell.
func DeriveLocalStatuses(s State) [localCount]LocalStatus {
    if u, ok := s.(*UltimateGame); ok {
        return u.local
    }
    var out [localCount]LocalStatus
    for i := 0; i < localCount; i++ {
        if w := localWinnerOf(s.CellOwner, i); w != Empty {
            out[i] = LocalStatus(w)
            continue
        }
        full := true
        br, bc := localOrigin(i)
        for p := 0; p < localSize*localSize && full; p++ {
            full = s.CellOwner(br+p/localSize, bc+p%localSize) != Empty
        }
        if full {
            out[i] = LocalDrawn
        }
    }
    return out
}

// Lines3 are the eight lines of a 3×3 board as row-major offsets.
var Lines3 = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// MetaWinner applies the 3-in-a-row check to sub-board statuses. Drawn
// sub-boards belong to nobody.
func MetaWinner(local [localCount]LocalStatus) Mark {
    for _, ln := range Lines3 {
        s := 0
        for _, i := range ln {
            s += int(local[i].Mark())
        }
        if w := winnerBySum(s, localSize); w != Empty {
            return w
        }
    }
    return Empty
}
