package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"

    "github.com/rs/zerolog/log"

    cfgpkg "github.com/local/bookletcalc/internal/config"
    "github.com/local/bookletcalc/internal/i18n"
    logpkg "github.com/local/bookletcalc/internal/logger"
    "github.com/local/bookletcalc/internal/metrics"
    "github.com/local/bookletcalc/internal/pagecount"
    "github.com/local/bookletcalc/internal/statuscheck"
    "github.com/local/bookletcalc/internal/store"
    web "github.com/local/bookletcalc/internal/web"
)

func main() {
    cfg := cfgpkg.Load()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Service: "bookletcalc",
        Level: cfg.Logging.Level,
        Pretty: cfg.Logging.Pretty,
        File: cfg.Logging.File,
        MaxSizeMB: cfg.Logging.MaxSizeMB,
        MaxBackups: cfg.Logging.MaxBackups,
        MaxAgeDays: cfg.Logging.MaxAgeDays,
        Compress: cfg.Logging.Compress,
        SendToAxiom: cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey: cfg.Axiom.APIKey,
        AxiomOrgID: cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush: cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    metrics.Init()

    // History (optional)
    opts := web.Options{MaxUploadBytes: cfg.Server.MaxUploadBytes}
    statusOpts := statuscheck.Options{
        S3Bucket:        cfg.Storage.Bucket,
        Region:          cfg.Storage.Region,
        AccessKeyID:     cfg.Storage.AccessKeyID,
        SecretAccessKey: cfg.Storage.SecretAccessKey,
    }
    if cfg.History.RedisURL != "" {
        hist, err := store.NewRedisHistory(cfg.History.RedisURL, cfg.History.TTL, cfg.History.Size)
        if err != nil {
            log.Warn().Err(err).Msg("history disabled: redis unavailable")
        } else {
            defer hist.Close()
            opts.History = hist
            statusOpts.Redis = hist
        }
    }

    if l, ok := i18n.Parse(cfg.Server.DefaultLang); ok {
        opts.DefaultLang = l
    }
    opts.Counter = pagecount.New(pagecount.Options{
        Region:          cfg.Storage.Region,
        AccessKeyID:     cfg.Storage.AccessKeyID,
        SecretAccessKey: cfg.Storage.SecretAccessKey,
        MaxBytes:        cfg.Server.MaxUploadBytes,
        Timeout:         cfg.Storage.FetchTimeout,
    })
    opts.Status = statuscheck.New(statusOpts)

    mux := http.NewServeMux()
    web.New(opts).RegisterRoutes(mux)

    srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

    go func(){
        log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
    defer cancel()
    _ = srv.Shutdown(ctx)
    fmt.Println("shutdown complete")
}
