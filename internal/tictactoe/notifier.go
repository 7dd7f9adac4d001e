package tictactoe

import "context"

// Audience selects who receives a notification: every connection, or one.
type Audience struct {
	ConnectionID string
}

func Everyone() Audience {
	return Audience{}
}

func Only(connectionID string) Audience {
	return Audience{ConnectionID: connectionID}
}

func (that Audience) IsEveryone() bool {
	return that.ConnectionID == ""
}

// Notifier delivers named events. Delivery is fire-and-forget: implementations
// must not block on the receiving side.
type Notifier interface {
	Notify(ctx context.Context, event string, payload any, audience Audience)
}

// Notifiers fans a notification out to several notifiers in order.
type Notifiers []Notifier

func (that Notifiers) Notify(ctx context.Context, event string, payload any, audience Audience) {
	for _, notifier := range that {
		notifier.Notify(ctx, event, payload, audience)
	}
}
