package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventadapter "github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/adapters/events"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/agents"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/api"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/automation"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/config"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/ports"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/service"
	natsevents "github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/events/nats"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/llm"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/router"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store"
	redisstore "github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional infra: each collaborator degrades gracefully when unset.
	var truthStore store.TruthStore
	if cfg.Redis.Addr != "" {
		rs, err := redisstore.New(redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Fatal("redis:", err)
		}
		truthStore = rs
		defer rs.Close()
	}

	var eventBus ports.EventBus
	if cfg.NATS.URL != "" {
		natsBus, err := natsevents.New(natsevents.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: time.Second,
		})
		if err != nil {
			log.Fatal("nats:", err)
		}
		if err := natsBus.SetupNexusStreams(); err != nil {
			log.Fatal("streams:", err)
		}
		eventBus = eventadapter.NewEventBus(natsBus)
		defer eventBus.Close()
	}

	var generator ports.Generator
	if cfg.LLM.APIKey != "" {
		generator = llm.New(&llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutMs) * time.Millisecond,
		})
	}

	var auto *automation.Client
	if cfg.Automation.BaseURL != "" {
		auto = automation.New(automation.Config{
			BaseURL: cfg.Automation.BaseURL,
			APIKey:  cfg.Automation.APIKey,
			Timeout: time.Duration(cfg.Automation.TimeoutMs) * time.Millisecond,
		})
	}

	roster := agents.NewRegistry(agents.DefaultRoster())
	orchestrator := service.NewOrchestrator(roster, eventBus, generator, nil, cfg.App.PhaseTimeout())
	commands := router.New(roster, generator)

	server := api.NewServer(orchestrator, roster, commands, eventBus, truthStore, auto)

	httpServer := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: server,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	log.Println("API listening on :" + cfg.App.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
