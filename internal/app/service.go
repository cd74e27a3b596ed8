package app

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
    "github.com/jaminalder/tictactoe-variants/internal/engine"
)

// Errors exposed by the service layer.
var (
    ErrNotFound        = errors.New("game not found")
    ErrNotYourTurn     = errors.New("not your turn")
    ErrNotAPlayer      = errors.New("not a player")
    ErrGameOver        = errors.New("game over")
    ErrIllegalMove     = errors.New("illegal move")
    ErrNotComputerTurn = errors.New("not the computer's turn")
)

// GameState is the in-memory state tracked per game. Copies handed out by the
// service carry their own engine.
type GameState struct {
    ID      string
    Engine  *engine.Engine
    X       string
    O       string
    Last    domain.Outcome
    Created time.Time
    Updated time.Time
}

func (gs *GameState) snapshot() GameState {
    cp := *gs
    cp.Engine = gs.Engine.Clone()
    return cp
}

// Stats are counters over finished games since the service started.
type Stats struct {
    Games int `json:"games"`
    XWins int `json:"x_wins"`
    OWins int `json:"o_wins"`
    Draws int `json:"draws"`
}

func (st *Stats) record(winner domain.Mark) {
    st.Games++
    switch winner {
    case domain.X:
        st.XWins++
    case domain.O:
        st.OWins++
    default:
        st.Draws++
    }
}

// subscriber channels are only sent to and closed while holding Service.mu.
type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
    mu      sync.Mutex
    games   map[string]*GameState
    pending map[string]bool
    subs    map[string]map[*subscriber]struct{}
    render  func(GameState) []byte
    log     zerolog.Logger
    delay   time.Duration
    stats   Stats
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithComputerDelay spaces computer moves out by d. Zero plays them inline.
func WithComputerDelay(d time.Duration) Option { return func(s *Service) { s.delay = d } }

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(opts ...Option) *Service {
    return NewServiceWithRenderer(func(gs GameState) []byte { return nil }, opts...)
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte, opts ...Option) *Service {
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    s := &Service{
        games:   make(map[string]*GameState),
        pending: make(map[string]bool),
        subs:    make(map[string]map[*subscriber]struct{}),
        render:  renderer,
        log:     zerolog.Nop(),
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// CreateGame creates and registers a new game. If the computer opens, its
// first move is played (or scheduled) before returning.
func (s *Service) CreateGame(opts engine.Options) (*GameState, error) {
    e := engine.New()
    if err := e.NewGame(opts); err != nil {
        return nil, err
    }
    s.mu.Lock()
    id := uuid.NewString()
    now := time.Now()
    gs := &GameState{ID: id, Engine: e, Created: now, Updated: now}
    s.games[id] = gs
    s.log.Info().Str("game", id).Stringer("variant", opts.Kind).
        Stringer("x", opts.X).Stringer("o", opts.O).Msg("game created")
    s.runComputerLocked(gs)
    cp := gs.snapshot()
    s.mu.Unlock()

    s.scheduleComputer(id)
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := gs.snapshot()
    return &cp, true
}

// Join assigns a human seat to the player if available; returns Empty for
// spectators. Computer controlled sides are never handed out.
func (s *Service) Join(id, playerID string) (domain.Mark, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Empty, nil, ErrNotFound
    }
    e := gs.Engine
    side := domain.Empty
    if e.Control(domain.X) == engine.Human && (gs.X == "" || gs.X == playerID) {
        gs.X = playerID
        side = domain.X
    } else if e.Control(domain.O) == engine.Human && (gs.O == "" || gs.O == playerID) {
        gs.O = playerID
        side = domain.O
    }
    gs.Updated = time.Now()
    cp := gs.snapshot()
    return side, &cp, nil
}

// Play validates seat and turn, applies a move, lets the computer answer, and
// broadcasts.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    e := gs.Engine
    // Validate player is seated
    var seat domain.Mark
    if gs.X == playerID && e.Control(domain.X) == engine.Human {
        seat = domain.X
    } else if gs.O == playerID && e.Control(domain.O) == engine.Human {
        seat = domain.O
    } else {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    if !e.IsActive() {
        s.mu.Unlock()
        return nil, ErrGameOver
    }
    // Validate turn
    if seat != e.CurrentPlayer() {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    out := e.ApplyMove(r, c)
    if !out.Accepted {
        s.mu.Unlock()
        return nil, fmt.Errorf("%w: %d,%d", ErrIllegalMove, r, c)
    }
    s.afterMoveLocked(gs, out)
    s.runComputerLocked(gs)
    cp := s.publishLocked(gs)

    s.scheduleComputer(id)
    return &cp, nil
}

// ComputerMove plays one computer move now.
func (s *Service) ComputerMove(id string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if !gs.Engine.IsCurrentPlayerComputer() {
        s.mu.Unlock()
        return nil, ErrNotComputerTurn
    }
    s.computerMoveLocked(gs)
    cp := s.publishLocked(gs)

    s.scheduleComputer(id)
    return &cp, nil
}

// RestartOption changes a game's settings when it is restarted.
type RestartOption func(*engine.Engine) error

// WithControls hands sides to a human or the computer.
func WithControls(x, o engine.Control) RestartOption {
    return func(e *engine.Engine) error { return e.SetControls(x, o) }
}

// WithFillMode changes the scored placement policy.
func WithFillMode(f domain.FillMode) RestartOption {
    return func(e *engine.Engine) error { return e.SetFillMode(f) }
}

// Restart begins a new game with the same id, applying opts first. Seats of
// sides that became computer controlled are released. A failing option leaves
// the game untouched.
func (s *Service) Restart(id string, opts ...RestartOption) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    e := gs.Engine.Clone()
    for _, opt := range opts {
        if err := opt(e); err != nil {
            s.mu.Unlock()
            return nil, err
        }
    }
    e.Restart()
    gs.Engine = e
    if e.Control(domain.X) == engine.Computer {
        gs.X = ""
    }
    if e.Control(domain.O) == engine.Computer {
        gs.O = ""
    }
    gs.Last = domain.Outcome{}
    gs.Updated = time.Now()
    s.log.Info().Str("game", id).Stringer("x", e.Control(domain.X)).
        Stringer("o", e.Control(domain.O)).Msg("game restarted")
    s.runComputerLocked(gs)
    cp := s.publishLocked(gs)

    s.scheduleComputer(id)
    return &cp, nil
}

// Stats returns a copy of the finished-game counters.
func (s *Service) Stats() Stats {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.stats
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            defer s.mu.Unlock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}

func (s *Service) afterMoveLocked(gs *GameState, out domain.Outcome) {
    gs.Last = out
    gs.Updated = time.Now()
    if !out.Finished {
        return
    }
    s.stats.record(out.Winner)
    ev := s.log.Info().Str("game", gs.ID).Stringer("variant", gs.Engine.Kind()).
        Int("moves", gs.Engine.MovesMade()).Stringer("winner", winnerName(out.Winner))
    if gs.Engine.Kind() == domain.Scored {
        ev = ev.Int("x_total", out.Score.XTotal).Int("o_total", out.Score.OTotal)
    }
    ev.Msg("game finished")
}

type winnerName domain.Mark

func (w winnerName) String() string {
    if s := domain.Mark(w).String(); s != "" {
        return s
    }
    return "draw"
}

func (s *Service) computerMoveLocked(gs *GameState) bool {
    start := time.Now()
    out, res := gs.Engine.DoComputerMoveResult()
    if !out.Accepted {
        return false
    }
    s.log.Debug().Str("game", gs.ID).Int("row", res.Move.Row).Int("col", res.Move.Col).
        Int("value", res.Value).Int("nodes", res.Nodes).Dur("took", time.Since(start)).
        Msg("computer move")
    s.afterMoveLocked(gs, out)
    return true
}

// runComputerLocked plays computer turns inline when no delay is configured.
func (s *Service) runComputerLocked(gs *GameState) {
    if s.delay > 0 {
        return
    }
    for gs.Engine.IsCurrentPlayerComputer() {
        if !s.computerMoveLocked(gs) {
            return
        }
    }
}

// publishLocked snapshots gs, fans the payload out and releases the lock.
// Sends and closes both happen under s.mu; slow subscribers are dropped.
func (s *Service) publishLocked(gs *GameState) GameState {
    cp := gs.snapshot()
    payload := s.render(cp)
    set := s.subs[gs.ID]
    for sub := range set {
        select {
        case sub.ch <- payload:
        default:
            // drop slow subscriber
            delete(set, sub)
            sub.close()
        }
    }
    s.mu.Unlock()
    return cp
}

// scheduleComputer arms a timer for the next computer move when a delay is
// configured. At most one timer is pending per game.
func (s *Service) scheduleComputer(id string) {
    if s.delay <= 0 {
        return
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok || s.pending[id] || !gs.Engine.IsCurrentPlayerComputer() {
        return
    }
    s.pending[id] = true
    time.AfterFunc(s.delay, func() {
        s.mu.Lock()
        delete(s.pending, id)
        s.mu.Unlock()
        if _, err := s.ComputerMove(id); err != nil && !errors.Is(err, ErrNotComputerTurn) {
            s.log.Warn().Err(err).Str("game", id).Msg("scheduled computer move failed")
        }
    })
}
