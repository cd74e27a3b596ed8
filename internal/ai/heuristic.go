package ai

import "github.com/jaminalder/tictactoe-variants/internal/domain"

// Weights of the ultimate static evaluation. The computer's playing strength
// depends on these exact values.
const (
    metaDecided = 90000

    ownLocal = 220
    oppLocal = -240

    metaOwnTwo = 700
    metaOppTwo = -900
    metaOwnOne = 90
    metaOppOne = -130

    // same patterns on a meta line blocked by a drawn sub-board
    blockedOwnTwo = 180
    blockedOppTwo = -230
    blockedOwnOne = 25
    blockedOppOne = -35

    cellOwnTwo = 28
    cellOppTwo = -34
    cellOwnOne = 4
    cellOppOne = -6

    ownCenter = 60
    oppCenter = -70
)

// lineCount tallies one three-slot line from me's point of view.
type lineCount struct {
    mine, theirs, empty, drawn int
}

func (lc *lineCount) add(owner domain.Mark, drawn bool, me domain.Mark) {
    switch {
    case drawn:
        lc.drawn++
    case owner == me:
        lc.mine++
    case owner == domain.Empty:
        lc.empty++
    default:
        lc.theirs++
    }
}

// Evaluate scores an unfinished ultimate position for me.
func Evaluate(s domain.State, me domain.Mark) int {
    local := domain.DeriveLocalStatuses(s)
    if w := domain.MetaWinner(local); w != domain.Empty {
        if w == me {
            return metaDecided
        }
        return -metaDecided
    }

    score := 0
    for _, st := range local {
        switch st.Mark() {
        case me:
            score += ownLocal
        case me.Opponent():
            score += oppLocal
        }
    }

    for _, ln := range domain.Lines3 {
        var lc lineCount
        for _, i := range ln {
            lc.add(local[i].Mark(), local[i] == domain.LocalDrawn, me)
        }
        score += metaLineScore(lc)
    }

    for i, st := range local {
        if st.Closed() {
            continue
        }
        score += localCellsScore(s, i, me)
    }

    switch local[4].Mark() {
    case me:
        score += ownCenter
    case me.Opponent():
        score += oppCenter
    }
    return score
}

func metaLineScore(lc lineCount) int {
    switch lc.drawn {
    case 0:
        switch {
        case lc.mine == 2 && lc.empty == 1:
            return metaOwnTwo
        case lc.theirs == 2 && lc.empty == 1:
            return metaOppTwo
        case lc.mine == 1 && lc.empty == 2:
            return metaOwnOne
        case lc.theirs == 1 && lc.empty == 2:
            return metaOppOne
        }
    case 1:
        switch {
        case lc.mine == 2:
            return blockedOwnTwo
        case lc.theirs == 2:
            return blockedOppTwo
        case lc.mine == 1 && lc.empty == 1:
            return blockedOwnOne
        case lc.theirs == 1 && lc.empty == 1:
            return blockedOppOne
        }
    }
    return 0
}

// localCellsScore rates the raw cells of the open sub-board i.
func localCellsScore(s domain.State, i int, me domain.Mark) int {
    br, bc := (i/3)*3, (i%3)*3
    score := 0
    for _, ln := range domain.Lines3 {
        var lc lineCount
        for _, p := range ln {
            lc.add(s.CellOwner(br+p/3, bc+p%3), false, me)
        }
        switch {
        case lc.mine == 2 && lc.empty == 1:
            score += cellOwnTwo
        case lc.theirs == 2 && lc.empty == 1:
            score += cellOppTwo
        case lc.mine == 1 && lc.empty == 2:
            score += cellOwnOne
        case lc.theirs == 1 && lc.empty == 2:
            score += cellOppOne
        }
    }
    return score
}
