package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ store.TruthStore = (*RedisStore)(nil)

type Config struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	DefaultTTL time.Duration
}

func New(cfg Config) (*RedisStore, error) {
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{client: client, ttl: cfg.DefaultTTL}, nil
}

// Keys:
// truth:{agent_id} -> json TruthFile
// truth:index -> set of agent ids
// triggers:recent -> list of json triggers, newest first, trimmed to 10
// stats:counters -> hash {completed_workflows, failed_workflows, ...}

func (r *RedisStore) truthKey(agentID types.AgentID) string {
	return fmt.Sprintf("truth:%s", agentID)
}

func (r *RedisStore) truthIndexKey() string {
	return "truth:index"
}

func (r *RedisStore) recentTriggersKey() string {
	return "triggers:recent"
}

func (r *RedisStore) countersKey() string {
	return "stats:counters"
}

func (r *RedisStore) SaveTruthFile(ctx context.Context, tf *types.TruthFile) error {
	tf.UpdatedAt = time.Now()

	data, err := json.Marshal(tf)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.truthKey(tf.AgentID), data, 0)
	pipe.SAdd(ctx, r.truthIndexKey(), string(tf.AgentID))

	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) GetTruthFile(ctx context.Context, agentID types.AgentID) (*types.TruthFile, error) {
	data, err := r.client.Get(ctx, r.truthKey(agentID)).Bytes()
	if err == redis.Nil {
		return nil, store.ErrTruthFileNotFound
	}
	if err != nil {
		return nil, err
	}

	var tf types.TruthFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("decode truth file: %w", err)
	}
	return &tf, nil
}

func (r *RedisStore) ListTruthAgents(ctx context.Context) ([]types.AgentID, error) {
	members, err := r.client.SMembers(ctx, r.truthIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	out := make([]types.AgentID, len(members))
	for i, m := range members {
		out[i] = types.AgentID(m)
	}
	return out, nil
}

func (r *RedisStore) PushRecentTrigger(ctx context.Context, trigger types.WorkflowTrigger) error {
	data, err := json.Marshal(trigger)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, r.recentTriggersKey(), data)
	pipe.LTrim(ctx, r.recentTriggersKey(), 0, 9)
	pipe.Expire(ctx, r.recentTriggersKey(), r.ttl)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) RecentTriggers(ctx context.Context) ([]types.WorkflowTrigger, error) {
	items, err := r.client.LRange(ctx, r.recentTriggersKey(), 0, 9).Result()
	if err != nil {
		return nil, err
	}

	out := make([]types.WorkflowTrigger, 0, len(items))
	for _, item := range items {
		var t types.WorkflowTrigger
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *RedisStore) IncrCounter(ctx context.Context, name string) error {
	return r.client.HIncrBy(ctx, r.countersKey(), name, 1).Err()
}

func (r *RedisStore) Counters(ctx context.Context) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, r.countersKey()).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
