// Package ai picks moves for the computer side. Every search works on clones
// of the state it is given and never mutates the original.
package ai

import (
    "math"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
)

// Result is the outcome of a search.
type Result struct {
    Move  domain.Move
    Value int
    // Nodes counts the positions simulated.
    Nodes int
    Found bool
}

// Pick returns the best move for the side to move. Ties go to the first move
// in row-major order.
func Pick(s domain.State) (domain.Move, bool) {
    res := Search(s)
    return res.Move, res.Found
}

// Search dispatches on the variant: exhaustive minimax for classic boards,
// a two-ply lookahead for scored and ultimate boards.
func Search(s domain.State) Result {
    if s == nil || !s.IsActive() {
        return Result{}
    }
    me := s.CurrentPlayer()
    switch s.Kind() {
    case domain.Classic:
        return searchClassic(s, me)
    case domain.Scored:
        return searchTwoPly(s, me, scoredEval{})
    case domain.Ultimate:
        return searchTwoPly(s, me, ultimateEval{})
    }
    return Result{}
}

// evaluator scores positions reached by the two-ply search.
type evaluator interface {
    // terminal scores a finished game reached after depth plies.
    terminal(out domain.Outcome, me domain.Mark, depth int) int
    // leaf scores an unfinished position.
    leaf(s domain.State, out domain.Outcome, me domain.Mark) int
}

// searchTwoPly tries every move, assumes the opponent answers with the reply
// worst for us, and keeps the move whose worst reply is best.
func searchTwoPly(s domain.State, me domain.Mark, ev evaluator) Result {
    res := Result{Value: math.MinInt}
    for _, m := range domain.LegalMoves(s) {
        afterMe := s.Clone()
        out1 := afterMe.ApplyMove(m.Row, m.Col)
        res.Nodes++

        var val int
        if out1.Finished {
            val = ev.terminal(out1, me, 1)
        } else {
            worst, replied := math.MaxInt, false
            for _, reply := range domain.LegalMoves(afterMe) {
                afterOpp := afterMe.Clone()
                out2 := afterOpp.ApplyMove(reply.Row, reply.Col)
                res.Nodes++
                replied = true

                d := 0
                if out2.Finished {
                    d = ev.terminal(out2, me, 2)
                } else {
                    d = ev.leaf(afterOpp, out2, me)
                }
                if d < worst {
                    worst = d
                }
            }
            if replied {
                val = worst
            } else {
                val = ev.leaf(afterMe, out1, me)
            }
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

// scoredEval measures both terminal and quiet positions by the difference
// of totals.
type scoredEval struct{}

func (scoredEval) terminal(out domain.Outcome, me domain.Mark, _ int) int {
    return out.Score.Diff(me)
}

func (scoredEval) leaf(_ domain.State, out domain.Outcome, me domain.Mark) int {
    return out.Score.Diff(me)
}

const ultimateWin = 100000

type ultimateEval struct{}

func (ultimateEval) terminal(out domain.Outcome, me domain.Mark, depth int) int {
    switch out.Winner {
    case domain.Empty:
        return 0
    case me:
        return ultimateWin - depth
    default:
        return -(ultimateWin - depth)
    }
}

func (ultimateEval) leaf(s domain.State, _ domain.Outcome, me domain.Mark) int {
    return Evaluate(s, me)
}
