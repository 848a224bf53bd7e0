package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventadapter "github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/adapters/events"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/agents"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/config"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/ports"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/service"
	natsevents "github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/events/nats"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/llm"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store"
	redisstore "github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store/redis"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.NATS.URL == "" {
		log.Fatal("worker requires NEXUS_NATS_URL")
	}

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
	eventBus := eventadapter.NewEventBus(natsBus)
	defer eventBus.Close()

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

	var generator ports.Generator
	if cfg.LLM.APIKey != "" {
		generator = llm.New(&llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutMs) * time.Millisecond,
		})
	}

	roster := agents.NewRegistry(agents.DefaultRoster())
	orchestrator := service.NewOrchestrator(roster, eventBus, generator, nil, cfg.App.PhaseTimeout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	err = eventBus.SubscribeTriggers(ctx, func(ctx context.Context, trigger types.WorkflowTrigger) error {
		result, err := orchestrator.SubmitTrigger(ctx, trigger)
		if errors.Is(err, service.ErrPipelineBusy) {
			// Withhold the ack; the trigger is redelivered once the
			// active run finishes.
			return err
		}
		if err != nil {
			return err
		}

		log.Printf("trigger %s: phase=%s success=%t confidence=%.2f elapsed=%s",
			trigger.ID, result.Phase, result.Success, result.Confidence, result.Elapsed)

		if truthStore != nil {
			counter := "completed_workflows"
			if !result.Success {
				counter = "failed_workflows"
			}
			if err := truthStore.IncrCounter(ctx, counter); err != nil {
				log.Printf("incr %s: %v", counter, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("subscribe:", err)
	}

	log.Println("Worker started:", cfg.App.WorkerID)
	<-ctx.Done()
}
