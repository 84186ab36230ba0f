package services

import (
	"context"

	"github.com/rs/zerolog"

	"telehealth-app-server/internal/realtime"
)

// publish emits a change event. Delivery failures are logged and never fail
// the request that caused the change.
func publish(ctx context.Context, pub realtime.Publisher, event realtime.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("table", event.Table).
			Str("type", string(event.Type)).
			Msg("failed to publish change event")
	}
}
