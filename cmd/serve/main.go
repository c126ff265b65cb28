// Command serve runs the post generation HTTP API.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spetersoncode/postflow/client"
	"github.com/spetersoncode/postflow/image"
	"github.com/spetersoncode/postflow/pipeline"
	"github.com/spetersoncode/postflow/publish"
	"github.com/spetersoncode/postflow/store"
	"github.com/spetersoncode/postflow/workflow"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	c := client.New(client.Config{
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		Defaults: client.Defaults{
			Chat:  cfg.ChatModel,
			Image: cfg.ImageModel,
		},
		RequestTimeout: cfg.RequestTimeout,
	})

	sessions, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open session store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	engine := workflow.New(workflow.Config{
		Store:        sessions,
		Single:       pipeline.NewSingleShot(c),
		Multi:        pipeline.NewMultiAgent(c),
		Images:       image.New(c, image.NewFSStore(cfg.ImageDir)),
		Publisher:    newPublisher(cfg),
		MaxRevisions: cfg.MaxRevisions,
	})

	mux := http.NewServeMux()
	handler := NewHandler(engine)
	handler.Register(mux)

	addr := ":" + cfg.Port
	slog.Info("starting server",
		"addr", addr,
		"chat_model", cfg.ChatModel.String(),
		"image_model", cfg.ImageModel.String(),
		"db", cfg.DBPath,
	)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *Config) (store.SessionStore, error) {
	if cfg.DBPath == "" || cfg.DBPath == "memory" {
		return store.NewMemory(), nil
	}
	return store.NewSQLite(store.SQLiteConfig{Path: cfg.DBPath})
}

func newPublisher(cfg *Config) publish.Publisher {
	li := publish.LinkedInConfig{
		AccessToken: cfg.LinkedInToken,
		PersonID:    cfg.LinkedInPersonID,
	}
	if li.Configured() {
		return publish.NewLinkedIn(li)
	}
	slog.Info("LinkedIn credentials not configured, publishing is simulated")
	return publish.NewSimulator()
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
