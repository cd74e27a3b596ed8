package engine

import (
    "errors"
    "testing"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
)

func TestNewEngineDefaults(t *testing.T) {
    e := New()
    if e.Kind() != domain.Classic || e.BoardSize() != 3 {
        t.Fatalf("expected classic 3x3, got %v/%d", e.Kind(), e.BoardSize())
    }
    if e.IsCurrentPlayerComputer() {
        t.Fatalf("default game is human vs human")
    }
    if out := e.DoComputerMove(); out.Accepted {
        t.Fatalf("computer must not move for a human side")
    }
}

func TestNewGameRejectsBadOptions(t *testing.T) {
    cases := []Options{
        {Kind: domain.Kind(9)},
        {Kind: domain.Classic, Size: 2},
        {Kind: domain.Classic, Size: 12},
        {Kind: domain.Classic, Size: 4, X: Computer},
        {Kind: domain.Classic, Size: 5, WinLen: 9, Rule: domain.Run},
        {Kind: domain.Scored, Size: 3},
        {Kind: domain.Scored, Fill: domain.FillMode(42)},
        {Kind: domain.Ultimate, O: Control(5)},
    }
    for _, o := range cases {
        e := New()
        if err := e.NewGame(o); !errors.Is(err, ErrBadOptions) {
            t.Fatalf("expected ErrBadOptions for %+v, got %v", o, err)
        }
        if e.Kind() != domain.Classic {
            t.Fatalf("failed NewGame must keep the previous game")
        }
    }
}

func TestNewGameSwitchesVariant(t *testing.T) {
    e := New()
    e.ApplyMove(0, 0)
    if err := e.NewGame(Options{Kind: domain.Scored, Fill: domain.TopDownRows, Seed: 1}); err != nil {
        t.Fatalf("NewGame: %v", err)
    }
    if e.BoardSize() != 10 || e.MovesMade() != 0 || e.ActiveRow() != 0 {
        t.Fatalf("expected a fresh scored board with row 0 active")
    }
    if e.FillMode() != domain.TopDownRows || e.CellWeight(0, 0) != 2 {
        t.Fatalf("unexpected scored configuration")
    }
    if err := e.NewGame(Options{Kind: domain.Ultimate}); err != nil {
        t.Fatalf("NewGame: %v", err)
    }
    if e.BoardSize() != 9 || e.MovesLeft() != 81 || e.Config().Stripe != 3 {
        t.Fatalf("expected an ultimate board")
    }
}

func TestComputerRespondsToHuman(t *testing.T) {
    e := New()
    if err := e.NewGame(Options{Kind: domain.Classic, O: Computer}); err != nil {
        t.Fatalf("NewGame: %v", err)
    }
    if e.IsCurrentPlayerComputer() {
        t.Fatalf("X is human")
    }
    e.ApplyMove(0, 0)
    if e.CurrentPlayer() != domain.O || !e.IsCurrentPlayerComputer() {
        t.Fatalf("expected computer to move as O")
    }
    out := e.DoComputerMove()
    if !out.Accepted || e.CellOwner(1, 1) != domain.O {
        t.Fatalf("expected computer to take the center, got %+v", out)
    }
    if e.IsCurrentPlayerComputer() {
        t.Fatalf("turn should be back to the human")
    }
}

func TestComputerVersusComputerClassicDraws(t *testing.T) {
    e := New()
    if err := e.NewGame(Options{Kind: domain.Classic, X: Computer, O: Computer}); err != nil {
        t.Fatalf("NewGame: %v", err)
    }
    var out domain.Outcome
    for e.IsActive() {
        out = e.DoComputerMove()
        if !out.Accepted {
            t.Fatalf("computer move rejected at move %d", e.MovesMade())
        }
    }
    if out.Winner != domain.Empty || e.MovesMade() != 9 {
        t.Fatalf("perfect play must draw, got winner %v after %d moves", out.Winner, e.MovesMade())
    }
}

func TestComputerVersusComputerScoredFinishes(t *testing.T) {
    e := New()
    opts := Options{Kind: domain.Scored, Size: 5, WinLen: 3, MaxMoves: 12, Fill: domain.RandomRowOrCol, Seed: 5, X: Computer, O: Computer}
    if err := e.NewGame(opts); err != nil {
        t.Fatalf("NewGame: %v", err)
    }
    for e.IsActive() {
        if !e.DoComputerMove().Accepted {
            t.Fatalf("computer move rejected")
        }
    }
    s := e.CurrentScore()
    if e.MovesMade() != 12 || s.XTotal != s.XLine-s.XSpent || s.OTotal != s.OLine-s.OSpent {
        t.Fatalf("unexpected final state: moves=%d score=%+v", e.MovesMade(), s)
    }
}

func TestPickComputerMoveDoesNotPlay(t *testing.T) {
    e := New()
    _ = e.NewGame(Options{Kind: domain.Ultimate, X: Computer})
    res := e.PickComputerMove()
    if !res.Found || e.MovesMade() != 0 {
        t.Fatalf("pick must not apply the move")
    }
    if again := e.PickComputerMove(); again.Move != res.Move {
        t.Fatalf("pick is not deterministic")
    }
}

func TestCloneAndStateAreIndependent(t *testing.T) {
    e := New()
    cp := e.Clone()
    cp.ApplyMove(1, 1)
    st := e.State()
    st.ApplyMove(0, 0)
    if e.MovesMade() != 0 || e.CellOwner(1, 1) != domain.Empty || e.CellOwner(0, 0) != domain.Empty {
        t.Fatalf("copies leaked into the engine")
    }
}

func TestSetControls(t *testing.T) {
    e := New()
    if err := e.SetControls(Computer, Human); err != nil {
        t.Fatalf("SetControls: %v", err)
    }
    if !e.IsCurrentPlayerComputer() || e.Control(domain.O) != Human {
        t.Fatalf("controls not applied")
    }
    _ = e.NewGame(Options{Kind: domain.Classic, Size: 5})
    if err := e.SetControls(Human, Computer); !errors.Is(err, ErrBadOptions) {
        t.Fatalf("expected large classic board to refuse computer play, got %v", err)
    }
}

func TestRestartKeepsOptions(t *testing.T) {
    e := New()
    _ = e.NewGame(Options{Kind: domain.Scored, Size: 6, Fill: domain.LeftRightCols, Seed: 2})
    e.ApplyMove(0, 0)
    e.Restart()
    if e.MovesMade() != 0 || e.BoardSize() != 6 || e.ActiveCol() != 0 || e.Options().Size != 6 {
        t.Fatalf("restart lost configuration")
    }
}

func TestFillModeChangeAppliesOnRestart(t *testing.T) {
    e := New()
    _ = e.NewGame(Options{Kind: domain.Scored, Size: 6, Seed: 2})
    if err := e.SetFillMode(domain.TopDownRows); err != nil {
        t.Fatalf("SetFillMode: %v", err)
    }
    if e.FillMode() != domain.Free {
        t.Fatalf("running game should keep its fill mode, got %v", e.FillMode())
    }
    e.Restart()
    if e.FillMode() != domain.TopDownRows || e.ActiveRow() != 0 {
        t.Fatalf("fill mode not applied on restart: %v row=%d", e.FillMode(), e.ActiveRow())
    }
    if err := e.SetFillMode(domain.FillMode(99)); !errors.Is(err, ErrBadOptions) {
        t.Fatalf("expected ErrBadOptions, got %v", err)
    }
}

func TestParseControl(t *testing.T) {
    if c, err := ParseControl("computer"); err != nil || c != Computer {
        t.Fatalf("ParseControl(computer) = %v, %v", c, err)
    }
    if c, err := ParseControl(""); err != nil || c != Human {
        t.Fatalf("ParseControl(\"\") = %v, %v", c, err)
    }
    if _, err := ParseControl("robot"); err == nil {
        t.Fatalf("expected error")
    }
}
