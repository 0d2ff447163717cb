// internal/services/slug.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/observability"
)

type SlugOutcome int

const (
	// SlugFresh: no record holds the slug.
	SlugFresh SlugOutcome = iota
	// SlugReactivatable: only a soft-deleted record holds it; the caller may
	// overwrite that record and flip it back to active.
	SlugReactivatable
	// SlugConflict: an active record holds it.
	SlugConflict
)

func (o SlugOutcome) String() string {
	switch o {
	case SlugFresh:
		return "fresh"
	case SlugReactivatable:
		return "reactivatable"
	case SlugConflict:
		return "conflict"
	}
	return fmt.Sprintf("SlugOutcome(%d)", int(o))
}

type Reservation struct {
	Outcome    SlugOutcome
	ExistingID uint64
}

// SlugRegistry answers whether a slug can be taken for an entity kind.
type SlugRegistry struct{}

type slugHolder struct {
	ID     uint64
	Status models.Status
}

// Reserve looks up the record currently holding slug. excludeID (0 for none)
// is skipped so a record being renamed does not collide with itself. Run it
// inside the transaction that performs the write.
func (SlugRegistry) Reserve(ctx context.Context, tx *gorm.DB, kind models.EntityKind, slug string, excludeID uint64) (Reservation, error) {
	model, err := slugModel(kind)
	if err != nil {
		return Reservation{}, err
	}

	// The holder row stays locked until the caller's transaction ends, so a
	// concurrent writer re-reads it after this one commits.
	query := tx.WithContext(ctx).Model(model).Clauses(lockForUpdate).Select("id", "status").Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var holders []slugHolder
	if err := query.Limit(1).Find(&holders).Error; err != nil {
		return Reservation{}, fmt.Errorf("failed to look up %s slug: %w", kind, err)
	}

	if len(holders) == 0 {
		return Reservation{Outcome: SlugFresh}, nil
	}

	holder := holders[0]
	if holder.Status.IsActive() {
		return Reservation{Outcome: SlugConflict, ExistingID: holder.ID}, nil
	}
	return Reservation{Outcome: SlugReactivatable, ExistingID: holder.ID}, nil
}

// reclaim flips the soft-deleted holder id back to active with columns. It
// fails with a conflict when the row is no longer inactive.
func reclaim(ctx context.Context, tx *gorm.DB, kind models.EntityKind, id uint64, slug string, columns map[string]interface{}) error {
	model, err := slugModel(kind)
	if err != nil {
		return err
	}

	columns["status"] = models.StatusActive
	result := tx.WithContext(ctx).
		Model(model).
		Where("id = ? AND status = ?", id, models.StatusInactive).
		Updates(columns)
	if result.Error != nil {
		return fmt.Errorf("failed to reactivate %s: %w", kind, result.Error)
	}
	if result.RowsAffected == 0 {
		observability.SlugConflictsTotal.WithLabelValues(string(kind)).Inc()
		return conflictf("%s with slug %q already exists", kind, slug)
	}
	return nil
}

func slugModel(kind models.EntityKind) (interface{}, error) {
	switch kind {
	case models.EntityCategory:
		return &models.Category{}, nil
	case models.EntityProduct:
		return &models.Product{}, nil
	}
	return nil, fmt.Errorf("entity %q has no slug", kind)
}
