package tools

import (
	"context"
	"fmt"
	"time"

	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/internal/namespace"
)

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

// Builtins returns the ping and stream_ping tools.
func Builtins(now Clock) []*gateway.Descriptor {
	if now == nil {
		now = time.Now
	}
	ping := gateway.NewHandwritten("ping",
		"Simple ping tool that returns a pong response with timestamp",
		[]namespace.Param{
			namespace.Optional("host", "pong").Describe("string", "Optional host identifier to include in response"),
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			host := stringArg(args, "host")
			if host == "" {
				host = "pong"
			}
			return fmt.Sprintf("Pong from %s at %s", host, timestamp(now())), nil
		})
	ping.Kind = gateway.KindBuiltin

	stream := gateway.NewStreaming("stream_ping",
		"Streaming ping tool that sends multiple pings over time",
		[]namespace.Param{
			namespace.Optional("count", 5).Describe("integer", "Number of pings to send"),
			namespace.Optional("delay", 1.0).Describe("number", "Delay in seconds between pings"),
		},
		func(ctx context.Context, args map[string]any, emit gateway.Emitter) error {
			count, err := intArg(args, "count", 5)
			if err != nil {
				return err
			}
			delay, err := floatArg(args, "delay", 1.0)
			if err != nil {
				return err
			}
			return streamPing(ctx, now, count, time.Duration(delay*float64(time.Second)), emit)
		})

	return []*gateway.Descriptor{ping, stream}
}

// streamPing emits count pings, waiting delay between them but not after
// the last one. It stops as soon as ctx is done.
func streamPing(ctx context.Context, now Clock, count int, delay time.Duration, emit gateway.Emitter) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(fmt.Sprintf("Ping %d/%d at %s\n", i+1, count, timestamp(now()))); err != nil {
			return err
		}
		if i == count-1 || delay <= 0 {
			continue
		}

		if timer == nil {
			timer = time.NewTimer(delay)
		} else {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

func timestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000000")
}
