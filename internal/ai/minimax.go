package ai

import (
    "math"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
)

// classicWin is the base of classic terminal scores. Depth is subtracted so
// faster wins and slower losses score better.
const classicWin = 10

func classicTerminal(winner, me domain.Mark, depth int) int {
    switch winner {
    case domain.Empty:
        return 0
    case me:
        return classicWin - depth
    default:
        return -(classicWin - depth)
    }
}

// searchClassic runs a full-width minimax to the end of the game.
func searchClassic(s domain.State, me domain.Mark) Result {
    res := Result{Value: math.MinInt}
    for _, m := range domain.LegalMoves(s) {
        child := s.Clone()
        out := child.ApplyMove(m.Row, m.Col)
        res.Nodes++

        var val int
        if out.Finished {
            val = classicTerminal(out.Winner, me, 1)
        } else {
            val = minimax(child, me, 2, &res.Nodes)
        }
        if !res.Found || val > res.Value {
            res.Found = true
            res.Value = val
            res.Move = m
        }
    }
    if !res.Found {
        res.Value = 0
    }
    return res
}

// minimax maximizes when me is to move and minimizes otherwise. A position
// without legal moves is worth 0.
func minimax(s domain.State, me domain.Mark, depth int, nodes *int) int {
    maximizing := s.CurrentPlayer() == me
    best := math.MaxInt
    if maximizing {
        best = math.MinInt
    }
    moved := false
    for _, m := range domain.LegalMoves(s) {
        moved = true
        child := s.Clone()
        out := child.ApplyMove(m.Row, m.Col)
        *nodes++

        var val int
        if out.Finished {
            val = classicTerminal(out.Winner, me, depth)
        } else {
            val = minimax(child, me, depth+1, nodes)
        }
        if maximizing && val > best || !maximizing && val < best {
            best = val
        }
    }
    if !moved {
        return 0
    }
    return best
}
