package domain

import (
    "fmt"
    "strings"
)

// Kind identifies a rule variant.
type Kind uint8

const (
    Classic Kind = iota
    Scored
    Ultimate
)

func (k Kind) String() string {
    switch k {
    case Classic:
        return "classic"
    case Scored:
        return "scored"
    case Ultimate:
        return "ultimate"
    default:
        return fmt.Sprintf("kind(%d)", uint8(k))
    }
}

// ParseKind accepts the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "classic":
        return Classic, nil
    case "scored", "score":
        return Scored, nil
    case "ultimate":
        return Ultimate, nil
    }
    return Classic, fmt.Errorf("unknown variant %q", s)
}

// Config is fixed for the lifetime of a game.
type Config struct {
    Size     int
    WinLen   int
    MaxMoves int
    // Stripe is the thickness of a placement stripe; 3 for ultimate local boards.
    Stripe int
}

// Score is the scored variant's running tally. Totals may go negative.
type Score struct {
    XLine  int
    OLine  int
    XSpent int
    OSpent int
    XTotal int
    OTotal int
}

// Diff returns p's total minus the opponent's total.
func (s Score) Diff(p Mark) int {
    if p == O {
        return s.OTotal - s.XTotal
    }
    return s.XTotal - s.OTotal
}

// Winner compares totals; Empty on a tie.
func (s Score) Winner() Mark {
    switch {
    case s.XTotal > s.OTotal:
        return X
    case s.OTotal > s.XTotal:
        return O
    }
    return Empty
}

// Outcome is returned by every ApplyMove. A rejected move leaves Accepted false
// and the state untouched.
type Outcome struct {
    Accepted bool
    Finished bool
    // Winner is only meaningful for classic and ultimate games.
    Winner Mark
    // Score is only meaningful for scored games.
    Score Score
}

// State is the operation set shared by every variant.
type State interface {
    Kind() Kind
    Config() Config

    BoardSize() int
    CurrentPlayer() Mark
    CellOwner(r, c int) Mark
    CellWeight(r, c int) int

    IsMoveAllowed(r, c int) bool
    ApplyMove(r, c int) Outcome

    IsActive() bool
    MovesMade() int
    MovesLeft() int

    ActiveRow() int
    ActiveCol() int
    CurrentScore() Score

    // Clone returns a deep copy sharing no mutable state with the receiver.
    Clone() State
    StartNewGame()

    SetFillMode(FillMode)
    FillMode() FillMode
}

// LegalMoves lists the allowed cells in row-major order.
func LegalMoves(s State) []Move {
    n := s.BoardSize()
    var out []Move
    for r := 0; r < n; r++ {
        for c := 0; c < n; c++ {
            if s.IsMoveAllowed(r, c) {
                out = append(out, Move{Row: r, Col: c})
            }
        }
    }
    return out
}
