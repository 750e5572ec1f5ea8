package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ringside/fightcard/models"
)

// PlacementQueue accepts fighter registrations for bracket placement after
// the registration itself has been persisted. Placement is a best-effort
// side effect: a queue failure never fails the registration.
type PlacementQueue interface {
	Enqueue(reg *models.Registration)
}

const (
	placementBuffer   = 256
	placementAttempts = 3
	placementBackoff  = 2 * time.Second
)

// PlacementDispatcher decouples registration saves from bracket placement:
// registrations are enqueued post-commit and a single worker drains the
// queue, retrying transient failures and logging the ones it gives up on.
type PlacementDispatcher struct {
	matcher BracketMatcher
	logger  *slog.Logger
	tasks   chan *models.Registration
}

func NewPlacementDispatcher(matcher BracketMatcher, logger *slog.Logger) *PlacementDispatcher {
	return &PlacementDispatcher{
		matcher: matcher,
		logger:  logger,
		tasks:   make(chan *models.Registration, placementBuffer),
	}
}

func (d *PlacementDispatcher) Enqueue(reg *models.Registration) {
	select {
	case d.tasks <- reg:
	default:
		// Dropping is recoverable: an administrator can place the fighter
		// through the bracket endpoints.
		d.logger.Error("placement queue full, dropping registration",
			slog.Int("registration_id", reg.ID),
			slog.Int("event_id", reg.EventID),
		)
	}
}

// Run drains the queue until the context is cancelled. Call in a goroutine.
func (d *PlacementDispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reg := <-d.tasks:
			d.place(ctx, reg)
		}
	}
}

func (d *PlacementDispatcher) place(ctx context.Context, reg *models.Registration) {
	var lastErr error
	for attempt := 1; attempt <= placementAttempts; attempt++ {
		bracket, seed, err := d.matcher.PlaceFighter(ctx, reg)
		if err == nil {
			d.logger.Info("fighter placed into bracket",
				slog.Int("registration_id", reg.ID),
				slog.Int("bracket_id", bracket.ID),
				slog.Int("seed", seed),
			)
			return
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return
		case <-time.After(placementBackoff * time.Duration(attempt)):
		}
	}

	d.logger.Error("giving up on bracket placement",
		slog.Int("registration_id", reg.ID),
		slog.Int("event_id", reg.EventID),
		slog.Int("attempts", placementAttempts),
		slog.Any("error", lastErr),
	)
}
