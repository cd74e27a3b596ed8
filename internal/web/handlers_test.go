package web

import (
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"
    "time"

    "github.com/gorilla/websocket"

    "github.com/jaminalder/tictactoe-variants/internal/app"
    "github.com/jaminalder/tictactoe-variants/internal/domain"
    "github.com/jaminalder/tictactoe-variants/internal/engine"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
    t.Helper()
    s := app.NewService()
    h := NewServer(s)
    return s, h
}

func createGame(t *testing.T, svc *app.Service, opts engine.Options) *app.GameState {
    t.Helper()
    gs, err := svc.CreateGame(opts)
    if err != nil {
        t.Fatalf("CreateGame error: %v", err)
    }
    return gs
}

func postForm(h http.Handler, path, player string, form url.Values) *httptest.ResponseRecorder {
    req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    if player != "" {
        req.AddCookie(&http.Cookie{Name: "player_id", Value: player})
    }
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    return rr
}

func TestIndexPage(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
        t.Fatalf("index should contain create form; got body: %q", body)
    }
    if !strings.Contains(body, "random-row-or-col") || !strings.Contains(body, "name=\"variant\"") {
        t.Fatalf("index should offer variants and fill modes; got body: %q", body)
    }
}

func TestCreateRedirectsToGame(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("POST", "/game", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusSeeOther && rr.Code != http.StatusFound {
        t.Fatalf("expected redirect, got %d", rr.Code)
    }
    loc := rr.Result().Header.Get("Location")
    if !strings.HasPrefix(loc, "/game/") {
        t.Fatalf("expected redirect to /game/{id}, got %q", loc)
    }
}

func TestCreateReadsForm(t *testing.T) {
    svc, h := newTestServer(t)
    form := url.Values{"variant": {"scored"}, "size": {"6"}, "winlen": {"3"}, "fill": {"top-down-rows"}, "seed": {"9"}}
    rr := postForm(h, "/game", "", form)
    if rr.Code != http.StatusSeeOther {
        t.Fatalf("expected redirect, got %d: %s", rr.Code, rr.Body.String())
    }
    id := strings.TrimPrefix(rr.Result().Header.Get("Location"), "/game/")
    gs, ok := svc.Get(id)
    if !ok {
        t.Fatalf("created game %q not found", id)
    }
    cfg := gs.Engine.Config()
    if gs.Engine.Kind() != domain.Scored || cfg.Size != 6 || cfg.WinLen != 3 || gs.Engine.FillMode() != domain.TopDownRows {
        t.Fatalf("form options not applied: kind=%v cfg=%+v fill=%v", gs.Engine.Kind(), cfg, gs.Engine.FillMode())
    }
}

func TestCreateRejectsBadForm(t *testing.T) {
    _, h := newTestServer(t)
    cases := []url.Values{
        {"variant": {"chess"}},
        {"size": {"big"}},
        {"size": {"5"}, "o": {"computer"}},
        {"variant": {"scored"}, "fill": {"spiral"}},
    }
    for _, form := range cases {
        if rr := postForm(h, "/game", "", form); rr.Code != http.StatusBadRequest {
            t.Fatalf("form %v: expected 400, got %d", form, rr.Code)
        }
    }
}

func TestGamePageSetsCookieAndAutoClaims(t *testing.T) {
    svc, h := newTestServer(t)
    // Create a game via service to know ID
    gs := createGame(t, svc, engine.DefaultOptions())

    req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    // Cookie set
    cookies := rr.Result().Cookies()
    var playerID string
    for _, c := range cookies {
        if c.Name == "player_id" {
            playerID = c.Value
            break
        }
    }
    if playerID == "" {
        t.Fatalf("expected player_id cookie to be set")
    }
    // Auto-claimed seat
    latest, ok := svc.Get(gs.ID)
    if !ok || (latest.X != playerID && latest.O != playerID) {
        t.Fatalf("expected auto-claim X or O; have X=%q O=%q pid=%q", latest.X, latest.O, playerID)
    }
    // SSE wiring present
    body := rr.Body.String()
    if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
        t.Fatalf("expected SSE wiring in page; got body: %q", body)
    }
    if !strings.Contains(body, "Fill a row, column or diagonal of 3 to win.") {
        t.Fatalf("expected rules text in page; got body: %q", body)
    }
}

func TestGamePageUnknownID(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/game/nope", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rr.Code)
    }
}

func TestScoredPageShowsWeightsAndScore(t *testing.T) {
    svc, h := newTestServer(t)
    gs := createGame(t, svc, engine.Options{Kind: domain.Scored, Size: 4, Fill: domain.Gravity, Seed: 1})
    req := httptest.NewRequest("GET", "/game/"+gs.ID, nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    body := rr.Body.String()
    if !strings.Contains(body, "class=\"weight\"") || !strings.Contains(body, "moves left") {
        t.Fatalf("expected weights and score line; got body: %q", body)
    }
    if !strings.Contains(body, "Pieces drop") {
        t.Fatalf("expected gravity rule; got body: %q", body)
    }
}

func TestJoinEndpointReturnsBoardFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs := createGame(t, svc, engine.DefaultOptions())
    // First GET to auto-claim X for p1
    req1 := httptest.NewRequest("GET", "/game/"+gs.ID, nil)
    rr1 := httptest.NewRecorder()
    h.ServeHTTP(rr1, req1)

    rr := postForm(h, "/game/"+gs.ID+"/join", "p2", url.Values{})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.O != "p2" && latest.X != "p2" { // allow if X was free
        t.Fatalf("expected seat for p2, got X=%q O=%q", latest.X, latest.O)
    }
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs := createGame(t, svc, engine.DefaultOptions())
    // Assign X and O
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")

    rr := postForm(h, "/game/"+gs.ID+"/play", "p1", url.Values{"r": {"0"}, "c": {"0"}})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Engine.MovesMade() != 1 {
        t.Fatalf("expected move applied, moves=%d", latest.Engine.MovesMade())
    }

    rr = postForm(h, "/game/"+gs.ID+"/play", "p1", url.Values{"r": {"1"}, "c": {"1"}})
    if !strings.Contains(rr.Body.String(), "Not your turn") {
        t.Fatalf("expected turn error banner, got %q", rr.Body.String())
    }
    rr = postForm(h, "/game/"+gs.ID+"/play", "p2", url.Values{"r": {"0"}, "c": {"0"}})
    if !strings.Contains(rr.Body.String(), "Move not allowed") {
        t.Fatalf("expected illegal move banner, got %q", rr.Body.String())
    }
    rr = postForm(h, "/game/"+gs.ID+"/play", "p3", url.Values{"r": {"2"}, "c": {"2"}})
    if !strings.Contains(rr.Body.String(), "You are a spectator") {
        t.Fatalf("expected spectator banner, got %q", rr.Body.String())
    }
}

func TestComputerEndpointAndRestart(t *testing.T) {
    svc := app.NewService(app.WithComputerDelay(time.Hour))
    h := NewServer(svc)
    gs := createGame(t, svc, engine.Options{Kind: domain.Ultimate, X: engine.Computer})

    rr := postForm(h, "/game/"+gs.ID+"/computer", "", url.Values{})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Engine.MovesMade() != 1 {
        t.Fatalf("expected computer move, moves=%d", latest.Engine.MovesMade())
    }
    rr = postForm(h, "/game/"+gs.ID+"/computer", "", url.Values{})
    if !strings.Contains(rr.Body.String(), "not the computer") {
        t.Fatalf("expected computer-turn banner, got %q", rr.Body.String())
    }

    rr = postForm(h, "/game/"+gs.ID+"/restart", "", url.Values{})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    latest, _ = svc.Get(gs.ID)
    if latest.Engine.MovesMade() != 0 {
        t.Fatalf("expected restart, moves=%d", latest.Engine.MovesMade())
    }
    if rr := postForm(h, "/game/nope/restart", "", url.Values{}); rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rr.Code)
    }
}

func TestRestartChangesSettings(t *testing.T) {
    svc, h := newTestServer(t)
    gs := createGame(t, svc, engine.Options{Kind: domain.Scored, Size: 6, Seed: 5})

    rr := postForm(h, "/game/"+gs.ID+"/restart", "", url.Values{"o": {"computer"}, "fill": {"gravity"}})
    if rr.Code != http.StatusOK || strings.Contains(rr.Body.String(), "class=\"alert\"") {
        t.Fatalf("restart failed: %d %q", rr.Code, rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Engine.Control(domain.O) != engine.Computer || latest.Engine.Control(domain.X) != engine.Human {
        t.Fatalf("controls not applied: X=%v O=%v", latest.Engine.Control(domain.X), latest.Engine.Control(domain.O))
    }
    if latest.Engine.FillMode() != domain.Gravity {
        t.Fatalf("fill not applied: %v", latest.Engine.FillMode())
    }

    rr = postForm(h, "/game/"+gs.ID+"/restart", "", url.Values{"x": {"robot"}})
    if !strings.Contains(rr.Body.String(), "Invalid settings") {
        t.Fatalf("expected settings banner, got %q", rr.Body.String())
    }

    big := createGame(t, svc, engine.Options{Kind: domain.Classic, Size: 4})
    rr = postForm(h, "/game/"+big.ID+"/restart", "", url.Values{"o": {"computer"}})
    if !strings.Contains(rr.Body.String(), "Invalid settings") {
        t.Fatalf("expected settings banner, got %q", rr.Body.String())
    }
    if latest, _ := svc.Get(big.ID); latest.Engine.Control(domain.O) != engine.Human {
        t.Fatalf("rejected restart changed controls")
    }
}

func TestStateEndpointJSON(t *testing.T) {
    svc, h := newTestServer(t)
    gs := createGame(t, svc, engine.Options{Kind: domain.Scored, Size: 4, WinLen: 3, Seed: 3})
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")
    if _, err := svc.Play(gs.ID, "p1", 0, 0); err != nil {
        t.Fatalf("play: %v", err)
    }

    req := httptest.NewRequest("GET", "/game/"+gs.ID+"/state", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    var got stateDTO
    if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if got.Variant != "scored" || got.Size != 4 || got.Turn != "O" || got.MovesMade != 1 {
        t.Fatalf("unexpected state %+v", got)
    }
    if got.Cells[0][0] != "X" || got.Weights[0][0] != 2 {
        t.Fatalf("unexpected cells/weights: %v %v", got.Cells[0], got.Weights[0])
    }
    // first X piece costs 2 plus the cell weight 2
    if got.Score == nil || got.Score.XSpent != 4 {
        t.Fatalf("unexpected score %+v", got.Score)
    }

    req = httptest.NewRequest("GET", "/game/nope/state", nil)
    rr = httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rr.Code)
    }
}

func TestStatsEndpoint(t *testing.T) {
    svc, h := newTestServer(t)
    createGame(t, svc, engine.Options{Kind: domain.Classic, X: engine.Computer, O: engine.Computer})

    req := httptest.NewRequest("GET", "/stats", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    var got app.Stats
    if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if got != (app.Stats{Games: 1, Draws: 1}) {
        t.Fatalf("unexpected stats %+v", got)
    }
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
    _, h := newTestServer(t)
    // create a game via POST
    reqCreate := httptest.NewRequest("POST", "/game", nil)
    rrCreate := httptest.NewRecorder()
    h.ServeHTTP(rrCreate, reqCreate)
    loc := rrCreate.Result().Header.Get("Location")
    if loc == "" {
        t.Fatalf("missing redirect location")
    }
    // Request SSE
    req := httptest.NewRequest("GET", loc+"/events", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    ct := rr.Result().Header.Get("Content-Type")
    if !strings.HasPrefix(ct, "text/event-stream") {
        io.Copy(io.Discard, rr.Result().Body)
        t.Fatalf("expected text/event-stream, got %q", ct)
    }
}

func TestSSEDataIsSingleLine(t *testing.T) {
    got := string(sseData([]byte("<div>\n  <p>x</p>\r\n</div>")))
    if got != "<div>  <p>x</p></div>" {
        t.Fatalf("unexpected sse data %q", got)
    }
}

func readState(t *testing.T, conn *websocket.Conn) stateDTO {
    t.Helper()
    for {
        _ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
        var msg wsMessage
        if err := conn.ReadJSON(&msg); err != nil {
            t.Fatalf("read: %v", err)
        }
        if msg.Type != "state" {
            continue
        }
        var st stateDTO
        if err := json.Unmarshal(msg.Payload, &st); err != nil {
            t.Fatalf("decode state: %v", err)
        }
        return st
    }
}

func TestWebsocketStreamsStateAndPlays(t *testing.T) {
    svc, h := newTestServer(t)
    gs := createGame(t, svc, engine.DefaultOptions())
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")

    srv := httptest.NewServer(h)
    defer srv.Close()
    u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gs.ID + "/ws"
    conn, _, err := websocket.DefaultDialer.Dial(u, http.Header{"Cookie": {"player_id=p1"}})
    if err != nil {
        t.Fatalf("dial: %v", err)
    }
    defer conn.Close()

    if st := readState(t, conn); st.MovesMade != 0 || st.Turn != "X" {
        t.Fatalf("unexpected initial state %+v", st)
    }
    play := wsMessage{Type: "play", Payload: json.RawMessage(`{"r":1,"c":1}`)}
    if err := conn.WriteJSON(play); err != nil {
        t.Fatalf("write: %v", err)
    }
    st := readState(t, conn)
    if st.MovesMade != 1 || st.Cells[1][1] != "X" {
        t.Fatalf("unexpected state after play %+v", st)
    }

    // X again is rejected with an error frame
    if err := conn.WriteJSON(play); err != nil {
        t.Fatalf("write: %v", err)
    }
    _ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
    var msg wsMessage
    if err := conn.ReadJSON(&msg); err != nil {
        t.Fatalf("read: %v", err)
    }
    if msg.Type != "error" || !strings.Contains(string(msg.Payload), "Not your turn") {
        t.Fatalf("expected error frame, got %s %s", msg.Type, msg.Payload)
    }
}

func TestWebsocketUnknownGame(t *testing.T) {
    _, h := newTestServer(t)
    srv := httptest.NewServer(h)
    defer srv.Close()
    u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/nope/ws"
    _, resp, err := websocket.DefaultDialer.Dial(u, nil)
    if err == nil {
        t.Fatalf("expected dial to fail")
    }
    if resp == nil || resp.StatusCode != http.StatusNotFound {
        t.Fatalf("expected 404 response, got %v", resp)
    }
}
