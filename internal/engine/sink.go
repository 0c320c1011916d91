/*
PURPOSE:
  Optional destinations for completed set reports (JSON Lines, Redis stream).

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/run.go (open/close), internal/engine/runner.go (publish)
  - Implemented by: internal/output.JSONSink, internal/output.RedisSink

ERROR HANDLING:
  - Open failures are fatal. Publish failures are logged by the runner.
*/

package engine

import (
	"context"
	"errors"

	"github.com/outlawever/astc-encoder/internal/config"
	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/output"
)

// Sink receives every completed set report in addition to the result CSV.
type Sink interface {
	Publish(ctx context.Context, rep *model.SetReport) error
	Close() error
}

// OpenSinks builds the sinks enabled in cfg.
func OpenSinks(ctx context.Context, cfg *config.Config) ([]Sink, error) {
	var sinks []Sink
	if cfg.JSONResults {
		sinks = append(sinks, output.NewJSONSink())
	}
	if cfg.Redis.Addr != "" {
		rs, err := output.NewRedisSink(ctx, cfg.Redis.Addr, cfg.Redis.Stream)
		if err != nil {
			return nil, CloseSinks(sinks, err)
		}
		sinks = append(sinks, rs)
	}
	return sinks, nil
}

// CloseSinks closes all sinks and joins their errors with err.
func CloseSinks(sinks []Sink, err error) error {
	errs := []error{err}
	for _, s := range sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
