package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

func TestRedisStore(t *testing.T) {
	rs, err := New(Config{
		Addr:       types.Getenv("NEXUS_REDIS_ADDR", "localhost:6379"),
		DefaultTTL: time.Hour,
	})
	if err != nil {
		t.Skip("Redis not available:", err)
	}
	defer rs.Close()

	ctx := context.Background()

	t.Run("Save and Get TruthFile", func(t *testing.T) {
		tf := &types.TruthFile{
			AgentID:    "agent_test_1",
			Identity:   "test identity",
			CoreTruths: []string{"be useful"},
			Principles: []string{"do no harm"},
		}

		if err := rs.SaveTruthFile(ctx, tf); err != nil {
			t.Fatal(err)
		}

		retrieved, err := rs.GetTruthFile(ctx, "agent_test_1")
		if err != nil {
			t.Fatal(err)
		}

		if retrieved.Identity != "test identity" {
			t.Errorf("expected test identity, got %s", retrieved.Identity)
		}
		if len(retrieved.CoreTruths) != 1 {
			t.Errorf("expected 1 core truth, got %d", len(retrieved.CoreTruths))
		}
		if retrieved.UpdatedAt.IsZero() {
			t.Error("expected UpdatedAt to be set")
		}

		ids, err := rs.ListTruthAgents(ctx)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, id := range ids {
			if id == "agent_test_1" {
				found = true
			}
		}
		if !found {
			t.Error("expected agent_test_1 in the index")
		}

		rs.client.Del(ctx, rs.truthKey("agent_test_1"))
		rs.client.SRem(ctx, rs.truthIndexKey(), "agent_test_1")
	})

	t.Run("Get missing TruthFile", func(t *testing.T) {
		_, err := rs.GetTruthFile(ctx, "no_such_agent")
		if err != store.ErrTruthFileNotFound {
			t.Errorf("expected ErrTruthFileNotFound, got %v", err)
		}
	})

	t.Run("Recent trigger ring is bounded", func(t *testing.T) {
		rs.client.Del(ctx, rs.recentTriggersKey())

		for i := 0; i < 15; i++ {
			trigger := types.WorkflowTrigger{
				ID:       types.TriggerID(fmt.Sprintf("trig_%d", i)),
				Type:     "user_input",
				Priority: types.PriorityNormal,
			}
			if err := rs.PushRecentTrigger(ctx, trigger); err != nil {
				t.Fatal(err)
			}
		}

		triggers, err := rs.RecentTriggers(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if len(triggers) != 10 {
			t.Errorf("expected 10 triggers, got %d", len(triggers))
		}
		if triggers[0].ID != "trig_14" {
			t.Errorf("expected newest first, got %s", triggers[0].ID)
		}

		rs.client.Del(ctx, rs.recentTriggersKey())
	})

	t.Run("Counters", func(t *testing.T) {
		rs.client.Del(ctx, rs.countersKey())

		for i := 0; i < 3; i++ {
			if err := rs.IncrCounter(ctx, "completed_workflows"); err != nil {
				t.Fatal(err)
			}
		}

		counters, err := rs.Counters(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if counters["completed_workflows"] != 3 {
			t.Errorf("expected 3, got %d", counters["completed_workflows"])
		}

		rs.client.Del(ctx, rs.countersKey())
	})
}
