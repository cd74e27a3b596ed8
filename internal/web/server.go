package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-variants/internal/app"
)

// Option configures the HTTP server.
type Option func(*handlers)

// WithLogger sets the request and connection logger.
func WithLogger(l zerolog.Logger) Option { return func(h *handlers) { h.log = l } }

// NewServer wires routes and returns an http.Handler. It installs the board
// fragment renderer on s so SSE subscribers receive HTML.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{svc: s, tpl: loadTemplates(), log: zerolog.Nop()}
    for _, opt := range opts {
        opt(h)
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(h.logRequests)
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Get("/stats", h.stats)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Get("/state", h.state)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/computer", h.computer)
        r.Post("/restart", h.restart)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
        start := time.Now()
        next.ServeHTTP(ww, r)
        h.log.Info().
            Str("method", r.Method).
            Str("path", r.URL.Path).
            Int("status", ww.Status()).
            Int("bytes", ww.BytesWritten()).
            Dur("took", time.Since(start)).
            Str("request_id", middleware.GetReqID(r.Context())).
            Msg("request")
    })
}
