// Package logger configures the process-wide zerolog logger.
package logger

import (
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
    lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options defines logger initialization parameters.
type Options struct {
    Service    string
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool

    // Console receives stdout output; nil means os.Stdout, io.Discard silences it.
    Console io.Writer

    SendToAxiom  bool
    AxiomAPIKey  string
    AxiomOrgID   string
    AxiomDataset string
    AxiomFlush   time.Duration
}

var (
    global zerolog.Logger
    fwd    *axiomForwarder
)

// Init replaces log.Logger. Output goes to the console, to a rotated file when
// File is set, and to Axiom when enabled.
func Init(opts Options) error {
    if opts.Service == "" { opts.Service = "bookletcalc" }

    var sinks []io.Writer
    if opts.File != "" {
        if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
            return fmt.Errorf("create logs dir: %w", err)
        }
        sinks = append(sinks, &lumberjack.Logger{
            Filename:   opts.File,
            MaxSize:    opts.MaxSizeMB,
            MaxBackups: opts.MaxBackups,
            MaxAge:     opts.MaxAgeDays,
            Compress:   opts.Compress,
        })
    }

    console := opts.Console
    if console == nil { console = os.Stdout }
    if opts.Pretty {
        console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
    }
    sinks = append(sinks, console)

    if opts.SendToAxiom && opts.AxiomAPIKey != "" {
        f, err := newAxiomForwarder(opts.AxiomAPIKey, opts.AxiomOrgID, opts.AxiomDataset, opts.Service, opts.AxiomFlush)
        if err != nil {
            fmt.Fprintf(os.Stderr, "Axiom disabled: %v\n", err)
        } else {
            fwd = f
            sinks = append(sinks, f)
        }
    }

    lvl, err := zerolog.ParseLevel(opts.Level)
    if err != nil || opts.Level == "" {
        lvl = zerolog.InfoLevel
    }
    zerolog.TimeFieldFormat = time.RFC3339
    global = zerolog.New(io.MultiWriter(sinks...)).
        Level(lvl).
        With().Timestamp().Str("service", opts.Service).
        Logger()
    log.Logger = global
    return nil
}

// Close drains the Axiom queue. Safe to call when Axiom is off.
func Close() {
    if fwd != nil {
        fwd.Close()
        fwd = nil
    }
}

// Get returns the logger built by the last Init.
func Get() *zerolog.Logger { return &global }
