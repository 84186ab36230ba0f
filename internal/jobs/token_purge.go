// Package jobs holds the background work scheduled next to the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"telehealth-app-server/internal/repositories"
)

// TokenPurger deletes refresh tokens that can no longer be exchanged.
type TokenPurger struct {
	tokens repositories.RefreshTokenRepository
	log    zerolog.Logger
	now    func() time.Time
}

// NewTokenPurger creates a TokenPurger.
func NewTokenPurger(tokens repositories.RefreshTokenRepository, log zerolog.Logger) *TokenPurger {
	return &TokenPurger{tokens: tokens, log: log, now: time.Now}
}

// RunOnce removes expired and revoked tokens and returns how many went.
func (p *TokenPurger) RunOnce(ctx context.Context) (int64, error) {
	n, err := p.tokens.Purge(ctx, p.now())
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return n, nil
}

// Start schedules RunOnce every interval, beginning immediately. Stop the
// returned scheduler on shutdown.
func (p *TokenPurger) Start(interval time.Duration) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := p.RunOnce(ctx)
		if err != nil {
			p.log.Error().Err(err).Msg("refresh token purge failed")
			return
		}
		p.log.Info().Int64("removed", n).Msg("purged refresh tokens")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule token purge: %w", err)
	}

	scheduler.StartAsync()
	p.log.Info().Dur("interval", interval).Msg("refresh token purge scheduled")
	return scheduler, nil
}
