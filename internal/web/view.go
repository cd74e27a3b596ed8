package web

import (
    "fmt"

    "github.com/jaminalder/tictactoe-variants/internal/app"
    "github.com/jaminalder/tictactoe-variants/internal/domain"
)

type cellView struct {
    R, C     int
    Mark     string
    Weight   int
    Playable bool
    // Block is the ultimate sub-board index, or -1.
    Block int
}

type boardView struct {
    ID        string
    Variant   string
    Size      int
    Rows      [][]cellView
    Status    string
    Active    bool
    Scored    bool
    Score     domain.Score
    MovesLeft int
    Fill      string
    Computer  bool
    Rules     []string
    Error     string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
    e := gs.Engine
    n := e.BoardSize()
    v := boardView{
        ID:        gs.ID,
        Variant:   e.Kind().String(),
        Size:      n,
        Rows:      make([][]cellView, n),
        Status:    statusLine(gs),
        Active:    e.IsActive(),
        Scored:    e.Kind() == domain.Scored,
        Score:     e.CurrentScore(),
        MovesLeft: e.MovesLeft(),
        Fill:      e.FillMode().String(),
        Computer:  e.IsCurrentPlayerComputer(),
        Rules:     rulesText(e.Kind(), e.Config(), e.FillMode()),
        Error:     errMsg,
    }
    for r := 0; r < n; r++ {
        v.Rows[r] = make([]cellView, n)
        for c := 0; c < n; c++ {
            cv := cellView{
                R:        r,
                C:        c,
                Mark:     e.CellOwner(r, c).String(),
                Weight:   e.CellWeight(r, c),
                Playable: e.IsMoveAllowed(r, c),
                Block:    -1,
            }
            if e.Kind() == domain.Ultimate {
                cv.Block = (r/3)*3 + c/3
            }
            v.Rows[r][c] = cv
        }
    }
    return v
}

func statusLine(gs app.GameState) string {
    e := gs.Engine
    if e.IsActive() {
        who := e.CurrentPlayer().String()
        if e.IsCurrentPlayerComputer() {
            return who + " (computer) to move"
        }
        return who + " to move"
    }
    winner := gs.Last.Winner
    if winner == domain.Empty {
        return "Draw"
    }
    if e.Kind() == domain.Scored {
        sc := e.CurrentScore()
        return fmt.Sprintf("%s wins %d to %d", winner, max(sc.XTotal, sc.OTotal), min(sc.XTotal, sc.OTotal))
    }
    return winner.String() + " wins"
}
