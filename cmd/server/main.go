package main

import (
    "context"
    "encoding/json"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"
    "compress/gzip"
    "io"
    "sync"

    "go.uber.org/zap"

    "quoteservice/internal/config"
    "quoteservice/internal/httpx"
    "quoteservice/internal/iex"
    "quoteservice/internal/quote"
    "quoteservice/internal/symbols"
)

// quoteService is the part of the quote service the handlers need.
type quoteService interface {
    GetQuote(ctx context.Context, symbol string) quote.Quote
    GetQuotes(ctx context.Context, csvSymbols string) []quote.Quote
}

// companySearcher is the part of the symbol cache the handlers need.
type companySearcher interface {
    Search(name string) []quote.CompanyInfo
}

type quotesResponse struct {
    Quotes []quote.Quote `json:"quotes"`
}

func main() {
    logger, _ := zap.NewProduction()
    defer logger.Sync()
    undo := zap.ReplaceGlobals(logger)
    defer undo()

    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { zap.L().Fatal("load config failed", zap.Error(err)) }

    if cfg.Upstream.Token == "" {
        zap.L().Warn("upstream token not set; upstream may reject requests")
    }

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

    // Blocking one-time load; the process is not useful without the universe.
    loadCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
    cache, err := symbols.Load(loadCtx, client)
    cancel()
    if err != nil { zap.L().Fatal("initialize symbol cache failed", zap.Error(err)) }

    mux := http.NewServeMux()
    mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
        writeJSON(w, map[string]any{"status": "ok", "symbols": cache.Len()})
    })
    mux.HandleFunc("GET /quote/{symbol}", func(w http.ResponseWriter, r *http.Request) {
        handleGetQuote(w, r, svc)
    })
    mux.HandleFunc("GET /quotes", func(w http.ResponseWriter, r *http.Request) {
        handleGetQuotes(w, r, svc, cfg.Upstream.MaxBatchSymbols)
    })
    mux.HandleFunc("GET /company/{name}", func(w http.ResponseWriter, r *http.Request) {
        handleSearchCompanies(w, r, cache)
    })

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           withJSONHeaders(withGzip(recoverPanic(mux))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        zap.L().Info("server listening", zap.String("port", cfg.Server.Port))
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            zap.L().Fatal("server failed", zap.Error(err))
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancelShutdown()
    _ = srv.Shutdown(shutdownCtx)
}

func handleGetQuote(w http.ResponseWriter, r *http.Request, svc quoteService) {
    symbol := strings.TrimSpace(r.PathValue("symbol"))
    if symbol == "" {
        http.Error(w, "missing symbol", http.StatusBadRequest)
        return
    }
    writeJSON(w, svc.GetQuote(r.Context(), symbol))
}

func handleGetQuotes(w http.ResponseWriter, r *http.Request, svc quoteService, maxSymbols int) {
    csv := r.URL.Query().Get("symbols")
    if strings.TrimSpace(csv) == "" {
        http.Error(w, "missing symbols query param", http.StatusBadRequest)
        return
    }
    if maxSymbols > 0 && strings.Count(csv, ",")+1 > maxSymbols {
        http.Error(w, "too many symbols", http.StatusBadRequest)
        return
    }
    writeJSON(w, quotesResponse{Quotes: svc.GetQuotes(r.Context(), csv)})
}

func handleSearchCompanies(w http.ResponseWriter, r *http.Request, cache companySearcher) {
    name := strings.TrimSpace(r.PathValue("name"))
    if name == "" {
        http.Error(w, "missing name", http.StatusBadRequest)
        return
    }
    writeJSON(w, cache.Search(name))
}

func writeJSON(w http.ResponseWriter, v any) {
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        // Basic CORS for browser usage; adjust as needed.
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        // Prefer best speed to reduce CPU usage since payloads are JSON
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
        next.ServeHTTP(gw, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                zap.L().Error("handler panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
