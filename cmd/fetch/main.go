package main

import (
    "context"
    "encoding/json"
    "flag"
    "os"
    "time"

    "go.uber.org/zap"

    "quoteservice/internal/config"
    "quoteservice/internal/httpx"
    "quoteservice/internal/iex"
    "quoteservice/internal/quote"
)

// fetch requests quotes for a CSV symbol list once and prints them as JSON.
func main() {
    var symbolsCSV string
    var timeout int
    var configPath string

    flag.StringVar(&symbolsCSV, "symbols", getenv("SYMBOLS", "AAPL"), "comma-separated ticker symbols")
    flag.IntVar(&timeout, "timeout", 15, "request timeout seconds")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.Parse()

    logger, _ := zap.NewDevelopment()
    defer logger.Sync()
    undo := zap.ReplaceGlobals(logger)
    defer undo()

    cfg, err := config.Load(configPath)
    if err != nil { zap.L().Fatal("load config failed", zap.Error(err)) }
    if timeout > 0 { cfg.Server.RequestTimeoutSec = timeout }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    client, err := iex.NewClient(cfg.Upstream.Token,
        iex.WithBaseURL(cfg.Upstream.BaseURL),
        iex.WithHTTPClient(httpClient),
    )
    if err != nil { zap.L().Fatal("upstream client failed", zap.Error(err)) }

    svc := quote.NewService(client, quote.BreakerSettings{
        ConsecutiveFailures: uint32(cfg.Breaker.ConsecutiveFailures),
        OpenTimeout:         time.Duration(cfg.Breaker.OpenTimeoutSec) * time.Second,
        HalfOpenRequests:    uint32(cfg.Breaker.HalfOpenRequests),
    })

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
    defer cancel()

    quotes := svc.GetQuotes(ctx, symbolsCSV)

    enc := json.NewEncoder(os.Stdout)
    enc.SetIndent("", "  ")
    enc.SetEscapeHTML(false)
    if err := enc.Encode(quotes); err != nil {
        zap.L().Fatal("encode output failed", zap.Error(err))
    }
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
