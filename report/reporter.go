package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carevolve/triage-rl/types"
	"github.com/carevolve/triage-rl/util"
)

// Reporter receives the metrics snapshot after every update.
type Reporter interface {
	Publish(m types.Metrics) error
}

// RedisReporter publishes metrics snapshots to a Redis key and keeps a
// history list next to it, for external dashboards to poll.
type RedisReporter struct {
	client *redis.Client
	key    string
}

func NewRedisReporter(addr, key string) *RedisReporter {
	return &RedisReporter{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		key:    key,
	}
}

func (r *RedisReporter) Publish(m types.Metrics) error {
	bs, err := json.Marshal(m)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Set(ctx, r.key, bs, 0).Err(); err != nil {
		return err
	}
	return r.client.RPush(ctx, r.key+":history", bs).Err()
}

func (r *RedisReporter) Close() error {
	return r.client.Close()
}

// FileReporter appends one metrics line per update to a log file.
type FileReporter struct {
	path string
}

func NewFileReporter(path string) *FileReporter {
	return &FileReporter{path: path}
}

func (r *FileReporter) Publish(m types.Metrics) error {
	line := fmt.Sprintf("update=%d episodes=%d policy_loss=%.6f value_loss=%.6f cumulative_reward=%.2f",
		m.Updates, m.Episodes, m.LastPolicyLoss, m.LastValueLoss, m.CumulativeReward)
	return util.AppendToFile(r.path, line)
}

// MultiReporter fans a snapshot out to several reporters, stopping at the
// first failure.
type MultiReporter []Reporter

func (mr MultiReporter) Publish(m types.Metrics) error {
	for _, r := range mr {
		if err := r.Publish(m); err != nil {
			return err
		}
	}
	return nil
}
