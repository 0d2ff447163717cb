// internal/services/side_effects.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/cache"
	"github.com/javajoker/catalog-backend/internal/events"
	"github.com/javajoker/catalog-backend/internal/observability"
)

const sideEffectTimeout = 5 * time.Second

// sideEffects runs the work that lives outside the database once a
// transaction has committed. Failures are logged and counted only; the
// committed change stands regardless.
type sideEffects struct {
	publisher events.Publisher
	listings  cache.ListingCache
}

func newSideEffects(publisher events.Publisher, listings cache.ListingCache) sideEffects {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if listings == nil {
		listings = cache.NopListingCache{}
	}
	return sideEffects{publisher: publisher, listings: listings}
}

// afterCommit detaches from the request context so a client that hangs up
// right after commit still produces its events.
func (se sideEffects) afterCommit(ctx context.Context, evs ...events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := se.listings.Invalidate(ctx); err != nil {
		observability.SideEffectFailuresTotal.WithLabelValues("cache_invalidate").Inc()
		logrus.WithError(err).Warn("Failed to invalidate listing cache")
	}

	if len(evs) == 0 {
		return
	}

	if err := se.publisher.Publish(ctx, evs...); err != nil {
		observability.SideEffectFailuresTotal.WithLabelValues("event_publish").Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"event_type": evs[0].EventType,
			"entity_id":  evs[0].EntityID,
			"count":      len(evs),
		}).Error("Failed to publish catalog events")
	}
}
