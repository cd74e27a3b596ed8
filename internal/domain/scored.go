package domain

import "math/rand/v2"

// weightTile is repeated across the scored board with r%4, c%4 indexing.
var weightTile = [4][4]int{
    {2, -2, 1, -1},
    {-1, 1, -2, 2},
    {-2, 2, -1, 1},
    {1, -1, 2, -2},
}

// ScoredOptions configures a scored game. Zero values give the 10×10 board,
// line length 4, a 60 move budget and free placement.
type ScoredOptions struct {
    Size     int
    WinLen   int
    MaxMoves int
    Fill     FillMode
    // Seed drives the random placement policies. Zero picks a random seed.
    Seed uint64
}

// ScoredGame plays a fixed number of moves on a weighted board. Players pay
// for every piece and earn the weights of the lines they complete.
type ScoredGame struct {
    cfg     Config
    fill    FillMode
    board   Grid
    weights []int // read-only after construction, shared by clones
    turn    Mark
    active  bool
    moves   int
    xMoves  int
    oMoves  int
    score   Score
    cursor  stripe
}

// NewScored returns a game with default options.
func NewScored() *ScoredGame { return NewScoredWith(ScoredOptions{}) }

// NewScoredWith builds a scored game.
func NewScoredWith(opts ScoredOptions) *ScoredGame {
    n := opts.Size
    if n <= 0 {
        n = 10
    }
    l := opts.WinLen
    if l <= 0 {
        l = 4
    }
    if l > n {
        l = n
    }
    maxMoves := opts.MaxMoves
    if maxMoves <= 0 {
        maxMoves = 60
    }
    if maxMoves > n*n {
        maxMoves = n * n
    }
    seed := opts.Seed
    if seed == 0 {
        seed = rand.Uint64()
    }
    g := &ScoredGame{
        cfg:     Config{Size: n, WinLen: l, MaxMoves: maxMoves, Stripe: 1},
        fill:    opts.Fill,
        board:   NewGrid(n),
        weights: tiledWeights(n),
    }
    g.cursor.rng = *rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
    g.StartNewGame()
    return g
}

func tiledWeights(n int) []int {
    w := make([]int, n*n)
    for r := 0; r < n; r++ {
        for c := 0; c < n; c++ {
            w[flatIndex(n, r, c)] = weightTile[r%4][c%4]
        }
    }
    return w
}

// PieceCost is the price of p's nth piece: 2n for X, 2n+1 for O.
func PieceCost(p Mark, n int) int {
    if n < 1 {
        n = 1
    }
    if p == X {
        return 2 * n
    }
    return 2*n + 1
}

func (g *ScoredGame) Kind() Kind { return Scored }
func (g *ScoredGame) Config() Config { return g.cfg }
func (g *ScoredGame) BoardSize() int { return g.cfg.Size }
func (g *ScoredGame) CurrentPlayer() Mark { return g.turn }
func (g *ScoredGame) IsActive() bool { return g.active }
func (g *ScoredGame) MovesMade() int { return g.moves }
func (g *ScoredGame) ActiveRow() int { return g.cursor.row }
func (g *ScoredGame) ActiveCol() int { return g.cursor.col }
func (g *ScoredGame) CurrentScore() Score { return g.score }
func (g *ScoredGame) FillMode() FillMode { return g.fill }

// SetFillMode changes the policy. It is meant to be called between games;
// StartNewGame recomputes the cursor.
func (g *ScoredGame) SetFillMode(f FillMode) { g.fill = f }

func (g *ScoredGame) MovesLeft() int {
    if left := g.cfg.MaxMoves - g.moves; left > 0 {
        return left
    }
    return 0
}

func (g *ScoredGame) CellOwner(r, c int) Mark { return g.board.At(r, c) }

func (g *ScoredGame) CellWeight(r, c int) int {
    if !g.board.InBounds(r, c) {
        return 0
    }
    return g.weights[flatIndex(g.cfg.Size, r, c)]
}

// StartNewGame clears the board, the score and the cursor.
func (g *ScoredGame) StartNewGame() {
    g.board.clear()
    g.turn = X
    g.active = true
    g.moves = 0
    g.xMoves = 0
    g.oMoves = 0
    g.score = Score{}
    g.cursor.reset()
    g.cursor.update(g.fill, &g.board)
}

func (g *ScoredGame) IsMoveAllowed(r, c int) bool {
    if !g.active || !g.board.InBounds(r, c) {
        return false
    }
    if g.board.At(r, c) != Empty {
        return false
    }
    return g.cursor.allows(g.fill, &g.board, r, c)
}

// ApplyMove places the mark, charges the piece cost plus the cell's own
// weight, and credits every completed line window through the cell.
func (g *ScoredGame) ApplyMove(r, c int) Outcome {
    var out Outcome
    if !g.IsMoveAllowed(r, c) {
        return out
    }
    g.board.set(r, c, g.turn)
    g.moves++
    out.Accepted = true

    gain := g.lineDelta(r, c, g.turn)
    if g.turn == X {
        g.xMoves++
        g.score.XSpent += g.CellWeight(r, c) + PieceCost(X, g.xMoves)
        g.score.XLine += gain
    } else {
        g.oMoves++
        g.score.OSpent += g.CellWeight(r, c) + PieceCost(O, g.oMoves)
        g.score.OLine += gain
    }
    g.score.XTotal = g.score.XLine - g.score.XSpent
    g.score.OTotal = g.score.OLine - g.score.OSpent
    out.Score = g.score

    if g.MovesLeft() <= 0 || g.board.Full() {
        g.active = false
        out.Finished = true
        out.Winner = g.score.Winner()
        return out
    }
    g.turn = g.turn.Opponent()
    g.cursor.update(g.fill, &g.board)
    return out
}

// lineDelta sums the weights of every WinLen window through (r, c) that is
// entirely owned by p. Overlapping windows each count.
func (g *ScoredGame) lineDelta(r, c int, p Mark) int {
    n, l := g.cfg.Size, g.cfg.WinLen
    delta := 0
    for _, d := range directions {
        for off := -(l - 1); off <= 0; off++ {
            sr, sc := r+off*d[0], c+off*d[1]
            if !inBounds(n, sr, sc) || !inBounds(n, sr+(l-1)*d[0], sc+(l-1)*d[1]) {
                continue
            }
            sum, owned := 0, true
            for k := 0; k < l; k++ {
                rr, cc := sr+k*d[0], sc+k*d[1]
                if g.board.At(rr, cc) != p {
                    owned = false
                    break
                }
                sum += g.weights[flatIndex(n, rr, cc)]
            }
            if owned {
                delta += sum
            }
        }
    }
    return delta
}

func (g *ScoredGame) Clone() State {
    cp := *g
    cp.board = g.board.clone()
    return &cp
}
