// Alfred API server entry point.
package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/agent"
	"github.com/alfred-ai/alfred/internal/config"
	"github.com/alfred-ai/alfred/internal/decision"
	"github.com/alfred-ai/alfred/internal/dispatch"
	"github.com/alfred-ai/alfred/internal/intent"
	"github.com/alfred-ai/alfred/internal/model"
	"github.com/alfred-ai/alfred/internal/server"
	"github.com/alfred-ai/alfred/internal/session"
	"github.com/alfred-ai/alfred/internal/store"
	"github.com/alfred-ai/alfred/internal/timeref"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Paths.DataDir, 0755); err != nil {
		log.Fatal("creating data dir", zap.Error(err))
	}

	st, err := store.Open(cfg.Paths.Database)
	if err != nil {
		log.Fatal("opening database", zap.Error(err))
	}
	defer st.Close()

	m := buildModel(cfg, log)
	resolver := timeref.NewResolver()
	pending := session.NewMemoryStore()

	a := agent.New(agent.Config{
		Model:      m,
		Intents:    intent.NewClassifier(m, log),
		Parser:     decision.NewParser(m, resolver, log),
		Dispatcher: dispatch.New(st, st, pending, log),
		Pending:    pending,
		Log:        log,
	})

	addr := cfg.Server.Addr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(a, log).Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	log.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func configPath() string {
	if p := os.Getenv("ALFRED_CONFIG"); p != "" {
		return p
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".alfred", "alfred.toml")
}

// buildModel selects the generation backend. ALFRED_USE_MOCK_LLM=1 or
// provider "mock" runs with a scripted model for offline development.
func buildModel(cfg *config.Config, log *zap.Logger) model.Model {
	if os.Getenv("ALFRED_USE_MOCK_LLM") == "1" || cfg.Model.Provider == "mock" {
		log.Info("using mock model")
		return model.NewMock()
	}

	apiKey := cfg.Model.APIKey
	if k := os.Getenv("ALFRED_API_KEY"); k != "" {
		apiKey = k
	}
	if apiKey == "" {
		log.Warn("no API key configured, model calls will fail")
	}

	cc := model.DefaultClientConfig(apiKey)
	if cfg.Model.BaseURL != "" {
		cc.BaseURL = cfg.Model.BaseURL
	}
	if cfg.Model.Model != "" {
		cc.Model = cfg.Model.Model
	}
	if cfg.Model.TimeoutSeconds > 0 {
		cc.Timeout = time.Duration(cfg.Model.TimeoutSeconds) * time.Second
	}
	if cfg.Model.MaxRetries > 0 {
		cc.MaxRetries = cfg.Model.MaxRetries
	}
	return model.NewClient(cc)
}
