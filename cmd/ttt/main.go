// Command ttt plays a game against the computer in the terminal.
package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "os"
    "os/signal"

    "github.com/jaminalder/tictactoe-variants/internal/domain"
    "github.com/jaminalder/tictactoe-variants/internal/engine"
    "github.com/jaminalder/tictactoe-variants/internal/termui"
)

func main() {
    variant := flag.String("variant", "classic", "classic, scored or ultimate")
    size := flag.Int("size", 0, "board size (classic and scored)")
    winLen := flag.Int("winlen", 0, "line length (classic run rule and scored)")
    rule := flag.String("rule", "full-line", "classic win rule: full-line or run")
    fill := flag.String("fill", "free", "scored fill mode")
    seed := flag.Uint64("seed", 0, "seed for random fill modes; 0 picks one")
    side := flag.String("play", "x", "side you play: x, o or none")
    flag.Parse()

    opts, err := options(*variant, *rule, *fill, *side)
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(2)
    }
    opts.Size, opts.WinLen, opts.Seed = *size, *winLen, *seed

    e := engine.New()
    if err := e.NewGame(opts); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(2)
    }
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
    defer stop()

    g := &termui.Game{Engine: e, In: os.Stdin, Out: os.Stdout, Renderer: termui.NewRenderer(os.Stdout)}
    if _, err := g.Run(ctx); err != nil && !errors.Is(err, termui.ErrQuit) {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}

func options(variant, rule, fill, side string) (engine.Options, error) {
    var (
        opts engine.Options
        err  error
    )
    if opts.Kind, err = domain.ParseKind(variant); err != nil {
        return opts, err
    }
    if opts.Rule, err = domain.ParseWinRule(rule); err != nil {
        return opts, err
    }
    if opts.Fill, err = domain.ParseFillMode(fill); err != nil {
        return opts, err
    }
    switch side {
    case "x", "X":
        opts.O = engine.Computer
    case "o", "O":
        opts.X = engine.Computer
    case "none":
        opts.X, opts.O = engine.Computer, engine.Computer
    default:
        return opts, fmt.Errorf("unknown side %q", side)
    }
    return opts, nil
}
