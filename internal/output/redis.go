/*
PURPOSE:
  Publishes each completed set report to a Redis stream for dashboards and
  downstream consumers.

REQUIREMENTS:
  User-specified:
  - Opt-in via redis.addr (config) or --redis-addr.

  Implementation-discovered:
  - One XADD per set, with the summary as plain fields and the records as JSON,
    so consumers can filter on worst verdict without decoding.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (as a Sink)
  - Dependencies: github.com/redis/go-redis/v9

ERROR HANDLING:
  - Connection verified with PING on open; XADD errors returned to the runner.
*/

package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/outlawever/astc-encoder/internal/model"
)

// StreamMessage is the payload appended to the results stream per set.
type StreamMessage struct {
	RunID     string         `json:"run_id"`
	Timestamp time.Time      `json:"timestamp"`
	TestSet   string         `json:"test_set"`
	Encoder   string         `json:"encoder"`
	Worst     model.Verdict  `json:"worst"`
	Counts    map[string]int `json:"counts"`
	Records   []JSONLine     `json:"records"`
}

// NewStreamMessage builds the stream payload for a report.
func NewStreamMessage(rep *model.SetReport) StreamMessage {
	counts := make(map[string]int)
	for _, v := range []model.Verdict{model.NotRun, model.Pass, model.Warn, model.Fail} {
		counts[v.String()] = rep.Summary.Count(v)
	}
	return StreamMessage{
		RunID:     rep.RunID,
		Timestamp: rep.Timestamp,
		TestSet:   rep.TestSet,
		Encoder:   rep.Encoder,
		Worst:     rep.Summary.Worst,
		Counts:    counts,
		Records:   JSONLines(rep),
	}
}

// RedisSink publishes set reports onto a Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink connects to addr and verifies the connection.
func NewRedisSink(ctx context.Context, addr, stream string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return &RedisSink{client: client, stream: stream}, nil
}

// Publish appends one report to the stream.
func (s *RedisSink) Publish(ctx context.Context, rep *model.SetReport) error {
	b, err := json.Marshal(NewStreamMessage(rep))
	if err != nil {
		return err
	}
	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"test_set": rep.TestSet,
			"encoder":  rep.Encoder,
			"worst":    rep.Summary.Worst.String(),
			"data":     b,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	Logger.Debug("Published set report", "stream", s.stream, "id", id, "set", rep.TestSet)
	return nil
}

func (s *RedisSink) Close() error { return s.client.Close() }
