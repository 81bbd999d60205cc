package main

import (
    "context"
    "encoding/csv"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "time"

    "quoteservice/internal/config"
    "quoteservice/internal/httpx"
    "quoteservice/internal/iex"
)

// symbols_dump downloads the full upstream symbol universe and writes it to
// a file, for offline inspection of what the symbol cache would load.
func main() {
    var (
        outPath    string
        format     string
        cfgPath    string
        timeoutSec int
    )
    flag.StringVar(&outPath, "out", "symbols.json", "output file path")
    flag.StringVar(&format, "format", "json", "output format: json or csv")
    flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
    flag.IntVar(&timeoutSec, "timeout", 60, "HTTP timeout seconds")
    flag.Parse()

    cfg, err := config.Load(cfgPath)
    if err != nil {
        log.Fatalf("config: %v", err)
    }

    httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)
    client, err := iex.NewClient(cfg.Upstream.Token,
        iex.WithBaseURL(cfg.Upstream.BaseURL),
        iex.WithHTTPClient(httpClient),
    )
    if err != nil {
        log.Fatalf("client: %v", err)
    }

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
    defer cancel()

    symbols, err := client.GetSymbols(ctx)
    if err != nil {
        log.Fatalf("fetch symbols: %v", err)
    }
    log.Printf("symbols: %d", len(symbols))

    f, err := os.Create(outPath)
    if err != nil {
        log.Fatalf("create %s: %v", outPath, err)
    }
    defer f.Close()

    switch format {
    case "json":
        enc := json.NewEncoder(f)
        enc.SetIndent("", "  ")
        err = enc.Encode(symbols)
    case "csv":
        err = writeCSV(f, symbols)
    default:
        log.Fatalf("unknown format %q (want json or csv)", format)
    }
    if err != nil {
        log.Fatalf("write %s: %v", outPath, err)
    }
    log.Printf("wrote %s", outPath)
}

func writeCSV(f *os.File, symbols []iex.Symbol) error {
    w := csv.NewWriter(f)
    if err := w.Write([]string{"symbol", "name", "exchange"}); err != nil {
        return err
    }
    for _, s := range symbols {
        if err := w.Write([]string{s.Symbol, s.Name, s.Exchange}); err != nil {
            return err
        }
    }
    w.Flush()
    if err := w.Error(); err != nil {
        return fmt.Errorf("flush csv: %w", err)
    }
    return nil
}
