package web

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
)

var wsIdlePingInterval = 30 * time.Second

// wsMessage is the envelope for every frame in both directions.
type wsMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

type wsMove struct {
    R int `json:"r"`
    C int `json:"c"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func mustMarshal(v any) json.RawMessage {
    b, err := json.Marshal(v)
    if err != nil {
        return nil
    }
    return b
}

func sendJSON(send chan<- []byte, msg wsMessage) {
    data, err := json.Marshal(msg)
    if err != nil {
        return
    }
    select {
    case send <- data:
    default:
    }
}

// ws streams the game state as JSON. Clients may send "request_state" and
// "play" messages; moves are played with the player_id cookie of the upgrade
// request.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    pid := playerCookie(r)
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Debug().Err(err).Str("game", id).Msg("websocket upgrade failed")
        return
    }
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    send := make(chan []byte, 16)
    updates, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    h.sendState(send, id)

    go func() {
        defer conn.Close()
        if err := writeWSWithHeartbeat(ctx, conn, send); err != nil {
            h.log.Debug().Err(err).Str("game", id).Msg("websocket write failed")
        }
    }()
    go func() {
        // the payload is the SSE fragment; only the notification matters here
        for range updates {
            h.sendState(send, id)
        }
        cancel()
    }()

    for {
        _, message, err := conn.ReadMessage()
        if err != nil {
            return
        }
        var msg wsMessage
        if err := json.Unmarshal(message, &msg); err != nil {
            continue
        }
        switch msg.Type {
        case "request_state":
            h.sendState(send, id)
        case "play":
            var mv wsMove
            if err := json.Unmarshal(msg.Payload, &mv); err != nil {
                continue
            }
            if _, err := h.svc.Play(id, pid, mv.R, mv.C); err != nil {
                sendJSON(send, wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": errorMessage(err)})})
            }
        }
    }
}

func (h *handlers) sendState(send chan<- []byte, id string) {
    gs, ok := h.svc.Get(id)
    if !ok {
        return
    }
    sendJSON(send, wsMessage{Type: "state", Payload: mustMarshal(newStateDTO(*gs))})
}

func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, send <-chan []byte) error {
    ticker := time.NewTicker(wsIdlePingInterval)
    defer ticker.Stop()
    lastWrite := time.Now()
    pingPayload := mustMarshal(wsMessage{Type: "ping"})

    for {
        select {
        case <-ctx.Done():
            return nil
        case msg := <-send:
            if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
                return err
            }
            lastWrite = time.Now()
        case <-ticker.C:
            if time.Since(lastWrite) < wsIdlePingInterval {
                continue
            }
            if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
                return err
            }
            lastWrite = time.Now()
        }
    }
}
