// internal/services/hierarchy.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/models"
)

// HierarchyResolver expands a category into the set of category ids whose
// products belong to its scope.
type HierarchyResolver struct{}

// Expand returns categoryID together with every category below it. The walk
// is breadth-first, one query per level, and keeps a visited set so malformed
// parent links cannot loop. The root must be an active category.
func (r HierarchyResolver) Expand(ctx context.Context, tx *gorm.DB, categoryID uint64) (map[uint64]struct{}, error) {
	var root models.Category
	err := tx.WithContext(ctx).
		Where("id = ? AND status = ?", categoryID, models.StatusActive).
		Take(&root).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return r.descendants(ctx, tx, root.ID)
}

// ExpandBySlug resolves an active category by slug and expands it.
func (r HierarchyResolver) ExpandBySlug(ctx context.Context, tx *gorm.DB, slug string) (map[uint64]struct{}, error) {
	var root models.Category
	err := tx.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.StatusActive).
		Take(&root).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return r.descendants(ctx, tx, root.ID)
}

func (HierarchyResolver) descendants(ctx context.Context, tx *gorm.DB, rootID uint64) (map[uint64]struct{}, error) {
	visited := map[uint64]struct{}{rootID: {}}
	frontier := []uint64{rootID}

	for len(frontier) > 0 {
		var children []uint64
		if err := tx.WithContext(ctx).
			Model(&models.Category{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, fmt.Errorf("failed to load child categories: %w", err)
		}

		frontier = frontier[:0]
		for _, id := range children {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	return visited, nil
}

// IsDescendant reports whether candidate sits at or below ancestorID, walking
// parent links upward from candidate.
func (HierarchyResolver) IsDescendant(ctx context.Context, tx *gorm.DB, candidate, ancestorID uint64) (bool, error) {
	seen := map[uint64]struct{}{}
	current := candidate

	for {
		if current == ancestorID {
			return true, nil
		}
		if _, loop := seen[current]; loop {
			return false, nil
		}
		seen[current] = struct{}{}

		var rows []models.Category
		if err := tx.WithContext(ctx).
			Select("id", "parent_id").
			Where("id = ?", current).
			Limit(1).
			Find(&rows).Error; err != nil {
			return false, fmt.Errorf("failed to load parent category: %w", err)
		}
		if len(rows) == 0 || rows[0].ParentID == nil {
			return false, nil
		}
		current = *rows[0].ParentID
	}
}

func scopeIDs(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
