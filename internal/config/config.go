// Package config holds the server settings. Values come from defaults, then
// command line flags, then TTT_* environment variables.
package config

import (
    "errors"
    "flag"
    "fmt"
    "os"
    "strconv"
    "time"

    "github.com/rs/zerolog"
)

// Config is the server configuration.
type Config struct {
    Addr            string
    LogLevel        string
    LogPretty       bool
    ComputerDelay   time.Duration
    ShutdownTimeout time.Duration
}

// Default returns the settings used when nothing is overridden.
func Default() Config {
    return Config{
        Addr:            ":8080",
        LogLevel:        "info",
        ComputerDelay:   400 * time.Millisecond,
        ShutdownTimeout: 10 * time.Second,
    }
}

// Load parses args (without the program name) and applies environment
// overrides from getenv. A nil getenv reads the process environment.
func Load(args []string, getenv func(string) string) (Config, error) {
    if getenv == nil {
        getenv = os.Getenv
    }
    cfg := Default()
    fs := flag.NewFlagSet("tttd", flag.ContinueOnError)
    fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
    fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
    fs.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human readable console logs")
    fs.DurationVar(&cfg.ComputerDelay, "computer-delay", cfg.ComputerDelay, "pause before computer moves; 0 plays them at once")
    fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown limit")
    if err := fs.Parse(args); err != nil {
        return cfg, err
    }
    if err := cfg.applyEnv(getenv); err != nil {
        return cfg, err
    }
    return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
    if v := getenv("TTT_ADDR"); v != "" {
        c.Addr = v
    }
    if v := getenv("TTT_LOG_LEVEL"); v != "" {
        c.LogLevel = v
    }
    if v := getenv("TTT_LOG_PRETTY"); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return fmt.Errorf("TTT_LOG_PRETTY: %w", err)
        }
        c.LogPretty = b
    }
    if v := getenv("TTT_COMPUTER_DELAY"); v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return fmt.Errorf("TTT_COMPUTER_DELAY: %w", err)
        }
        c.ComputerDelay = d
    }
    if v := getenv("TTT_SHUTDOWN_TIMEOUT"); v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return fmt.Errorf("TTT_SHUTDOWN_TIMEOUT: %w", err)
        }
        c.ShutdownTimeout = d
    }
    return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
    if c.Addr == "" {
        return errors.New("config: empty listen address")
    }
    if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    if c.ComputerDelay < 0 {
        return fmt.Errorf("config: negative computer delay %s", c.ComputerDelay)
    }
    if c.ShutdownTimeout <= 0 {
        return fmt.Errorf("config: shutdown timeout must be positive, got %s", c.ShutdownTimeout)
    }
    return nil
}

// Level returns the parsed log level. Call Validate first.
func (c Config) Level() zerolog.Level {
    lvl, err := zerolog.ParseLevel(c.LogLevel)
    if err != nil {
        return zerolog.InfoLevel
    }
    return lvl
}
