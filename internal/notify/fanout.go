// Package notify relays staff messages to every configured destination.
package notify

import (
	"context"
	"fmt"
	"strings"

	"venue-bot/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DeliveryError is the failure of one destination.
type DeliveryError struct {
	Destination string
	Err         error
}

func (e DeliveryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Destination, e.Err)
}

func (e DeliveryError) Unwrap() error {
	return e.Err
}

// Result reports one broadcast. Errors follow destination order.
type Result struct {
	Attempted int
	Delivered int
	Errors    []DeliveryError
}

// OK reports whether at least one destination received the message.
func (r Result) OK() bool {
	return r.Delivered > 0
}

// Summary joins the delivery errors and cuts them to limit runes.
func (r Result) Summary(limit int) string {
	if len(r.Errors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Error())
	}
	return utils.Excerpt(strings.Join(parts, "; "), limit)
}

type Broadcaster interface {
	// Broadcast attempts every destination of the configured set plus
	// extra exactly once and never retries.
	Broadcast(ctx context.Context, text string, extra ...string) Result
	Destinations() []string
}

type broadcaster struct {
	destinations []string
	sender       Sender
	parallelism  int
	log          *zap.Logger
}

func NewBroadcaster(destinations []string, sender Sender, parallelism int, log *zap.Logger) Broadcaster {
	if parallelism < 1 {
		parallelism = 1
	}
	b := &broadcaster{
		destinations: dedup(destinations),
		sender:       sender,
		parallelism:  parallelism,
		log:          log.With(zap.String("service", "notify")),
	}

	for _, d := range b.destinations {
		if _, err := ParseDestination(d); err != nil {
			b.log.Warn("Destination will never deliver", zap.String("destination", d), zap.Error(err))
		}
	}
	if len(b.destinations) == 0 {
		b.log.Warn("No notification destinations configured")
	}

	return b
}

func (b *broadcaster) Destinations() []string {
	out := make([]string, len(b.destinations))
	copy(out, b.destinations)
	return out
}

func (b *broadcaster) Broadcast(ctx context.Context, text string, extra ...string) Result {
	targets := dedup(append(b.Destinations(), extra...))
	errs := make([]error, len(targets))

	var g errgroup.Group
	g.SetLimit(b.parallelism)
	for i, dest := range targets {
		g.Go(func() error {
			errs[i] = b.send(ctx, dest, text)
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Attempted: len(targets)}
	for i, err := range errs {
		if err != nil {
			result.Errors = append(result.Errors, DeliveryError{Destination: targets[i], Err: err})
			continue
		}
		result.Delivered++
	}

	if len(result.Errors) > 0 {
		b.log.Warn("Broadcast partially failed",
			zap.Int("attempted", result.Attempted),
			zap.Int("delivered", result.Delivered),
			zap.String("errors", result.Summary(0)),
		)
	} else {
		b.log.Debug("Broadcast delivered", zap.Int("delivered", result.Delivered))
	}

	return result
}

func (b *broadcaster) send(ctx context.Context, dest, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Sender panicked", zap.String("destination", dest), zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return b.sender.Send(ctx, dest, text)
}

func dedup(destinations []string) []string {
	seen := make(map[string]struct{}, len(destinations))
	out := make([]string, 0, len(destinations))
	for _, raw := range destinations {
		d := Canonical(raw)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
