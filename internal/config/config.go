package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Upstream struct {
    BaseURL string `json:"base_url"`
    Token   string `json:"token"`
    // MaxBatchSymbols caps how many symbols a single batch request may carry.
    MaxBatchSymbols int `json:"max_batch_symbols"`
}

type Breaker struct {
    ConsecutiveFailures int `json:"consecutive_failures"`
    OpenTimeoutSec      int `json:"open_timeout_sec"`
    HalfOpenRequests    int `json:"half_open_requests"`
}

type Config struct {
    Server   Server   `json:"server"`
    Upstream Upstream `json:"upstream"`
    Breaker  Breaker  `json:"breaker"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 10},
        Upstream: Upstream{
            BaseURL:         "https://cloud.iexapis.com/v1",
            MaxBatchSymbols: 100,
        },
        Breaker: Breaker{
            ConsecutiveFailures: 5,
            OpenTimeoutSec:      30,
            HalfOpenRequests:    1,
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" { cfg.Upstream.BaseURL = v }
    if v := os.Getenv("UPSTREAM_TOKEN"); v != "" { cfg.Upstream.Token = v }
    if v := os.Getenv("UPSTREAM_MAX_BATCH_SYMBOLS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Upstream.MaxBatchSymbols = x }
    }
    if v := os.Getenv("BREAKER_CONSECUTIVE_FAILURES"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Breaker.ConsecutiveFailures = x }
    }
    if v := os.Getenv("BREAKER_OPEN_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Breaker.OpenTimeoutSec = x }
    }
    if v := os.Getenv("BREAKER_HALF_OPEN_REQUESTS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Breaker.HalfOpenRequests = x }
    }
}
