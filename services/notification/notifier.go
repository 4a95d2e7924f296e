package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehiclecare/models"

	"go.uber.org/zap"
)

// Notifier publishes booking events. Emit must not block on delivery; a returned
// error means the event could not even be handed off.
type Notifier interface {
	Emit(ctx context.Context, n models.Notification) error
}

// Sink delivers a notification over one transport.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n models.Notification) error
}

// Dispatcher fans a notification out to every sink.
type Dispatcher struct {
	sinks  []Sink
	logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, logger: logger}
}

func (d *Dispatcher) Name() string { return "dispatcher" }

// Deliver tries every sink and joins the failures.
func (d *Dispatcher) Deliver(ctx context.Context, n models.Notification) error {
	var errs []error
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			d.logger.Warn("notification sink failed",
				zap.String("sink", sink.Name()),
				zap.String("event", n.Name),
				zap.String("recipient", n.Recipient.ID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// InlineNotifier delivers on a background goroutine. Used when the task queue is off.
type InlineNotifier struct {
	Sink    Sink
	Logger  *zap.Logger
	Timeout time.Duration
}

func NewInlineNotifier(sink Sink, logger *zap.Logger) *InlineNotifier {
	return &InlineNotifier{Sink: sink, Logger: logger, Timeout: 10 * time.Second}
}

func (n *InlineNotifier) Emit(ctx context.Context, note models.Notification) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.Timeout)
		defer cancel()
		if err := n.Sink.Deliver(ctx, note); err != nil {
			n.Logger.Error("notification delivery failed",
				zap.String("event", note.Name),
				zap.String("recipient", note.Recipient.ID),
				zap.Error(err))
		}
	}()
	return nil
}
