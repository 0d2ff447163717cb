package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/catalog-backend/internal/models"
)

type EventType string

const (
	EventTypeCategoryCreated     EventType = "category.created"
	EventTypeCategoryUpdated     EventType = "category.updated"
	EventTypeCategoryDeactivated EventType = "category.deactivated"
	EventTypeProductCreated      EventType = "product.created"
	EventTypeProductReactivated  EventType = "product.reactivated"
	EventTypeProductUpdated      EventType = "product.updated"
	EventTypeProductDeactivated  EventType = "product.deactivated"
	EventTypeReviewAdded         EventType = "review.added"
	EventTypeReviewRemoved       EventType = "review.removed"
	EventTypeRatingChanged       EventType = "product.rating_changed"
)

// Event is a committed catalog change. Events are emitted only after the
// owning transaction commits.
type Event struct {
	EventID     string            `json:"event_id"`
	EventType   EventType         `json:"event_type"`
	Entity      models.EntityKind `json:"entity"`
	EntityID    uint64            `json:"entity_id"`
	Slug        string            `json:"slug,omitempty"`
	ProductID   uint64            `json:"product_id,omitempty"`
	Rating      *float64          `json:"rating,omitempty"`
	ReviewCount *int64            `json:"review_count,omitempty"`
	ActorID     uint64            `json:"actor_id,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func NewEvent(eventType EventType, entity models.EntityKind, entityID uint64) Event {
	return Event{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Entity:     entity,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// RatingChanged describes a product's new aggregate after a review mutation.
func RatingChanged(productID uint64, rating float64, count int64) Event {
	e := NewEvent(EventTypeRatingChanged, models.EntityProduct, productID)
	e.ProductID = productID
	e.Rating = &rating
	e.ReviewCount = &count
	return e
}

// Publisher delivers committed catalog events downstream.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                            { return nil }
