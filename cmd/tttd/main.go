// Command tttd serves tic-tac-toe games over HTTP.
package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rs/zerolog"
    "golang.org/x/sync/errgroup"

    "github.com/jaminalder/tictactoe-variants/internal/app"
    "github.com/jaminalder/tictactoe-variants/internal/config"
    "github.com/jaminalder/tictactoe-variants/internal/web"
)

func newLogger(cfg config.Config) zerolog.Logger {
    var l zerolog.Logger
    if cfg.LogPretty {
        l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
    } else {
        l = zerolog.New(os.Stderr)
    }
    return l.Level(cfg.Level()).With().Timestamp().Logger()
}

func main() {
    cfg, err := config.Load(os.Args[1:], nil)
    if err != nil {
        os.Stderr.WriteString(err.Error() + "\n")
        os.Exit(2)
    }
    log := newLogger(cfg)
    if err := run(cfg, log); err != nil {
        log.Error().Err(err).Msg("exiting")
        os.Exit(1)
    }
}

func run(cfg config.Config, log zerolog.Logger) error {
    svc := app.NewService(
        app.WithLogger(log.With().Str("component", "service").Logger()),
        app.WithComputerDelay(cfg.ComputerDelay),
    )
    server := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.NewServer(svc, web.WithLogger(log.With().Str("component", "http").Logger())),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    g, ctx := errgroup.WithContext(ctx)

    g.Go(func() error {
        log.Info().Str("addr", cfg.Addr).Msg("listening")
        if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return err
        }
        return nil
    })
    g.Go(func() error {
        <-ctx.Done()
        log.Info().Msg("shutting down")
        shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
        defer cancel()
        if err := server.Shutdown(shutdownCtx); err != nil {
            log.Warn().Err(err).Msg("graceful shutdown failed")
            return server.Close()
        }
        return nil
    })
    return g.Wait()
}
