package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-variants/internal/app"
    "github.com/jaminalder/tictactoe-variants/internal/domain"
    "github.com/jaminalder/tictactoe-variants/internal/engine"
)

type handlers struct {
    svc *app.Service
    tpl *templates
    log zerolog.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    opts, err := parseOptions(r)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    gs, err := h.svc.CreateGame(opts)
    if err != nil {
        if errors.Is(err, engine.ErrBadOptions) {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

// parseOptions reads the new game form. Missing fields keep their defaults.
func parseOptions(r *http.Request) (engine.Options, error) {
    opts := engine.DefaultOptions()
    _ = r.ParseForm()
    var err error
    if opts.Kind, err = domain.ParseKind(r.Form.Get("variant")); err != nil {
        return opts, err
    }
    if opts.Rule, err = domain.ParseWinRule(r.Form.Get("rule")); err != nil {
        return opts, err
    }
    if opts.Fill, err = domain.ParseFillMode(r.Form.Get("fill")); err != nil {
        return opts, err
    }
    if opts.X, err = engine.ParseControl(r.Form.Get("x")); err != nil {
        return opts, err
    }
    if opts.O, err = engine.ParseControl(r.Form.Get("o")); err != nil {
        return opts, err
    }
    ints := []struct {
        name string
        dst  *int
    }{{"size", &opts.Size}, {"winlen", &opts.WinLen}, {"maxmoves", &opts.MaxMoves}}
    for _, f := range ints {
        v := r.Form.Get(f.name)
        if v == "" {
            continue
        }
        if *f.dst, err = strconv.Atoi(v); err != nil {
            return opts, fmt.Errorf("bad %s %q", f.name, v)
        }
    }
    if v := r.Form.Get("seed"); v != "" {
        if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
            return opts, fmt.Errorf("bad seed %q", v)
        }
    }
    return opts, nil
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := struct {
        ID    string
        Board boardView
    }{ID: gs.ID, Board: newBoardView(*gs, "")}

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, "")
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    ri, errR := strconv.Atoi(r.Form.Get("r"))
    ci, errC := strconv.Atoi(r.Form.Get("c"))
    var (
        gs  *app.GameState
        err error
    )
    if errR != nil || errC != nil {
        err = app.ErrIllegalMove
    } else {
        gs, err = h.svc.Play(id, pid, ri, ci)
    }
    h.respondBoard(w, r, id, gs, err)
}

func (h *handlers) computer(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.ComputerMove(id)
    h.respondBoard(w, r, id, gs, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    cur, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    opts, err := restartOptions(r, cur.Engine)
    var gs *app.GameState
    if err == nil {
        gs, err = h.svc.Restart(id, opts...)
    }
    h.respondBoard(w, r, id, gs, err)
}

// restartOptions reads the optional x, o and fill fields of the restart form.
// Empty fields keep the current setting.
func restartOptions(r *http.Request, cur *engine.Engine) ([]app.RestartOption, error) {
    _ = r.ParseForm()
    var opts []app.RestartOption
    x, o := cur.Control(domain.X), cur.Control(domain.O)
    xv, ov := r.Form.Get("x"), r.Form.Get("o")
    var err error
    if xv != "" {
        if x, err = engine.ParseControl(xv); err != nil {
            return nil, fmt.Errorf("%w: %v", engine.ErrBadOptions, err)
        }
    }
    if ov != "" {
        if o, err = engine.ParseControl(ov); err != nil {
            return nil, fmt.Errorf("%w: %v", engine.ErrBadOptions, err)
        }
    }
    if xv != "" || ov != "" {
        opts = append(opts, app.WithControls(x, o))
    }
    if v := r.Form.Get("fill"); v != "" {
        f, err := domain.ParseFillMode(v)
        if err != nil {
            return nil, fmt.Errorf("%w: %v", engine.ErrBadOptions, err)
        }
        opts = append(opts, app.WithFillMode(f))
    }
    return opts, nil
}

// respondBoard writes the board fragment, with an error banner when err is set.
func (h *handlers) respondBoard(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        if gs == nil {
            if g, ok := h.svc.Get(id); ok {
                gs = g
            }
        }
        errMsg = errorMessage(err)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, errMsg)
}

func errorMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, app.ErrIllegalMove):
        return "Move not allowed"
    case errors.Is(err, app.ErrGameOver):
        return "Game is over"
    case errors.Is(err, app.ErrNotComputerTurn):
        return "It is not the computer's turn"
    case errors.Is(err, app.ErrNotFound):
        return "Game not found"
    case errors.Is(err, engine.ErrBadOptions):
        return "Invalid settings"
    }
    return "Invalid move"
}

type scoreDTO struct {
    XLine  int `json:"x_line"`
    OLine  int `json:"o_line"`
    XSpent int `json:"x_spent"`
    OSpent int `json:"o_spent"`
    XTotal int `json:"x_total"`
    OTotal int `json:"o_total"`
}

type stateDTO struct {
    ID        string     `json:"id"`
    Variant   string     `json:"variant"`
    Size      int        `json:"size"`
    WinLen    int        `json:"win_len"`
    MaxMoves  int        `json:"max_moves"`
    Stripe    int        `json:"stripe"`
    Fill      string     `json:"fill"`
    Turn      string     `json:"turn"`
    Active    bool       `json:"active"`
    MovesMade int        `json:"moves_made"`
    MovesLeft int        `json:"moves_left"`
    ActiveRow int        `json:"active_row"`
    ActiveCol int        `json:"active_col"`
    Cells     [][]string `json:"cells"`
    Weights   [][]int    `json:"weights,omitempty"`
    Score     *scoreDTO  `json:"score,omitempty"`
    Winner    string     `json:"winner,omitempty"`
    X         string     `json:"x"`
    O         string     `json:"o"`
}

func newStateDTO(gs app.GameState) stateDTO {
    e := gs.Engine
    cfg := e.Config()
    n := e.BoardSize()
    dto := stateDTO{
        ID:        gs.ID,
        Variant:   e.Kind().String(),
        Size:      n,
        WinLen:    cfg.WinLen,
        MaxMoves:  cfg.MaxMoves,
        Stripe:    cfg.Stripe,
        Fill:      e.FillMode().String(),
        Turn:      e.CurrentPlayer().String(),
        Active:    e.IsActive(),
        MovesMade: e.MovesMade(),
        MovesLeft: e.MovesLeft(),
        ActiveRow: e.ActiveRow(),
        ActiveCol: e.ActiveCol(),
        Cells:     make([][]string, n),
        X:         e.Control(domain.X).String(),
        O:         e.Control(domain.O).String(),
    }
    scored := e.Kind() == domain.Scored
    if scored {
        sc := e.CurrentScore()
        dto.Score = &scoreDTO{sc.XLine, sc.OLine, sc.XSpent, sc.OSpent, sc.XTotal, sc.OTotal}
        dto.Weights = make([][]int, n)
    }
    for r := 0; r < n; r++ {
        dto.Cells[r] = make([]string, n)
        if scored {
            dto.Weights[r] = make([]int, n)
        }
        for c := 0; c < n; c++ {
            dto.Cells[r][c] = e.CellOwner(r, c).String()
            if scored {
                dto.Weights[r][c] = e.CellWeight(r, c)
            }
        }
    }
    if !e.IsActive() {
        dto.Winner = winnerName(gs.Last.Winner)
    }
    return dto
}

func winnerName(m domain.Mark) string {
    if m == domain.Empty {
        return "draw"
    }
    return m.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        writeJSON(w, http.StatusNotFound, map[string]string{"error": app.ErrNotFound.Error()})
        return
    }
    writeJSON(w, http.StatusOK, newStateDTO(*gs))
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, h.svc.Stats())
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, _ := h.svc.Subscribe(ctx, id)
    // heartbeat ticker
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            // Emit board event
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", sseData(b))
            flusher.Flush()
        }
    }
}

// sseData folds a multi-line payload onto a single data field.
func sseData(b []byte) []byte {
    out := make([]byte, 0, len(b))
    for _, c := range b {
        if c == '\n' || c == '\r' {
            continue
        }
        out = append(out, c)
    }
    return out
}
