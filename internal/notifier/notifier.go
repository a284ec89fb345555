// Package notifier delivers rendered alert messages over named channels.
// The engine hands a channel name, recipient and message to the dispatcher
// and does not know transport details. Delivery failure is non-fatal: the
// alert rule stays fired and the failure is logged.
package notifier

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
)

// Notifier delivers a message to a recipient over one transport.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, message string) error
}

// Dispatcher routes messages to registered channels by name.
type Dispatcher struct {
	channels map[string]Notifier
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		channels: make(map[string]Notifier),
	}
}

// Register adds a channel under the given name, replacing any previous one.
func (d *Dispatcher) Register(name string, n Notifier) {
	d.channels[name] = n
}

// Channels returns the registered channel names, sorted.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for name := range d.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Send delivers a message over the named channel.
func (d *Dispatcher) Send(ctx context.Context, channel, recipient, subject, message string) error {
	n, ok := d.channels[channel]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownChannel, channel)
	}

	if err := n.Send(ctx, recipient, subject, message); err != nil {
		return fmt.Errorf("%w: channel %s: %s", apperrors.ErrDeliveryFailed, channel, err)
	}

	return nil
}

// LogNotifier writes messages to the application log. It is the fallback
// channel when no transport is configured, so alert checks still leave a
// visible trace in development setups.
type LogNotifier struct{}

// Send logs the message.
func (LogNotifier) Send(_ context.Context, recipient, subject, message string) error {
	log.Printf("notification for %s: %s - %s", recipient, subject, message)
	return nil
}
