package tours

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, tour *Tour) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tour, error)
	GetBySlug(ctx context.Context, slug string) (*Tour, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Tour, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query TourListQuery) ([]Tour, int64, error)
	CountBookings(ctx context.Context, id uuid.UUID) (int64, error)

	// Pricing options
	GetOption(ctx context.Context, tourID, optionID uuid.UUID) (*PricingOption, error)
	ListOptions(ctx context.Context, tourID uuid.UUID) ([]PricingOption, error)
	CreateOption(ctx context.Context, option *PricingOption) error
	UpdateOption(ctx context.Context, tourID, optionID uuid.UUID, updates map[string]interface{}) (*PricingOption, error)
	DeleteOption(ctx context.Context, tourID, optionID uuid.UUID) error
	ReorderOptions(ctx context.Context, tourID uuid.UUID, orderedIDs []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *repository) Create(ctx context.Context, tour *Tour) error {
	// Options ride along as an association insert in the same transaction
	err := r.db.WithContext(ctx).Omit("Category").Create(tour).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrTourExists, err)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Tour, error) {
	var tour Tour
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("PricingOptions", orderedOptions).
		Where("id = ?", id).
		First(&tour).Error
	if err != nil {
		return nil, tourNotFound(err)
	}
	return &tour, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Tour, error) {
	var tour Tour
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("PricingOptions", orderedOptions).
		Where("slug = ?", slug).
		First(&tour).Error
	if err != nil {
		return nil, tourNotFound(err)
	}
	return &tour, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Tour, error) {
	result := r.db.WithContext(ctx).Model(&Tour{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %w", ErrTourExists, result.Error)
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTourNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tour_id = ?", id).Delete(&PricingOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete pricing options: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&Tour{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete tour: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTourNotFound
		}
		return nil
	})
}

func (r *repository) List(ctx context.Context, query TourListQuery) ([]Tour, int64, error) {
	var list []Tour
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Tour{})

	if !query.IncludeInactive {
		db = db.Where("tours.is_active = ?", true)
	}

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(tours.title) LIKE ? OR LOWER(tours.description) LIKE ? OR LOWER(tours.location) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Category != "" {
		db = db.Joins("JOIN categories ON categories.id = tours.category_id").
			Where("categories.slug = ?", query.Category)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Select("tours.*").
		Preload("Category").
		Preload("PricingOptions", orderedOptions).
		Order("tours.title ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&list).Error

	return list, totalCount, err
}

func (r *repository) CountBookings(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("bookings").Where("tour_id = ?", id).Count(&count).Error
	return count, err
}

func (r *repository) GetOption(ctx context.Context, tourID, optionID uuid.UUID) (*PricingOption, error) {
	var option PricingOption
	err := r.db.WithContext(ctx).Where("id = ? AND tour_id = ?", optionID, tourID).First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return &option, nil
}

func (r *repository) ListOptions(ctx context.Context, tourID uuid.UUID) ([]PricingOption, error) {
	var options []PricingOption
	err := r.db.WithContext(ctx).Where("tour_id = ?", tourID).Order("position ASC").Find(&options).Error
	return options, err
}

// CreateOption appends the option after the tour's current last position.
func (r *repository) CreateOption(ctx context.Context, option *PricingOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTour(tx, option.TourID); err != nil {
			return err
		}

		var next int
		err := tx.Model(&PricingOption{}).
			Where("tour_id = ?", option.TourID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error
		if err != nil {
			return err
		}

		option.Position = next
		return tx.Create(option).Error
	})
}

func (r *repository) UpdateOption(ctx context.Context, tourID, optionID uuid.UUID, updates map[string]interface{}) (*PricingOption, error) {
	result := r.db.WithContext(ctx).Model(&PricingOption{}).
		Where("id = ? AND tour_id = ?", optionID, tourID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrOptionNotFound
	}
	return r.GetOption(ctx, tourID, optionID)
}

// DeleteOption removes the option and closes the gap in positions.
func (r *repository) DeleteOption(ctx context.Context, tourID, optionID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTour(tx, tourID); err != nil {
			return err
		}

		result := tx.Where("id = ? AND tour_id = ?", optionID, tourID).Delete(&PricingOption{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOptionNotFound
		}

		var remaining []uuid.UUID
		if err := tx.Model(&PricingOption{}).
			Where("tour_id = ?", tourID).
			Order("position ASC").
			Pluck("id", &remaining).Error; err != nil {
			return err
		}
		return rewritePositions(tx, tourID, remaining)
	})
}

// ReorderOptions assigns positions 0..n-1 in the given order. orderedIDs
// must be exactly the tour's current option ids.
func (r *repository) ReorderOptions(ctx context.Context, tourID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTour(tx, tourID); err != nil {
			return err
		}

		var existing []uuid.UUID
		if err := tx.Model(&PricingOption{}).Where("tour_id = ?", tourID).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if !sameIDSet(existing, orderedIDs) {
			return fmt.Errorf("%w: order must list each of the tour's %d options exactly once", ErrInvalidReorder, len(existing))
		}

		return rewritePositions(tx, tourID, orderedIDs)
	})
}

// rewritePositions first shifts every row above the current maximum so the
// final 0..n-1 assignments never collide on the (tour_id, position) index.
func rewritePositions(tx *gorm.DB, tourID uuid.UUID, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	var maxPos int
	if err := tx.Model(&PricingOption{}).
		Where("tour_id = ?", tourID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error; err != nil {
		return err
	}

	offset := maxPos + len(orderedIDs) + 1
	if err := tx.Model(&PricingOption{}).
		Where("tour_id = ?", tourID).
		Update("position", gorm.Expr("position + ?", offset)).Error; err != nil {
		return fmt.Errorf("failed to shift positions: %w", err)
	}

	for i, id := range orderedIDs {
		if err := tx.Model(&PricingOption{}).
			Where("id = ? AND tour_id = ?", id, tourID).
			Update("position", i).Error; err != nil {
			return fmt.Errorf("failed to set position %d: %w", i, err)
		}
	}
	return nil
}

// lockTour serializes option writes for one tour.
func lockTour(tx *gorm.DB, tourID uuid.UUID) error {
	var tour Tour
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", tourID).
		First(&tour).Error
	return tourNotFound(err)
}

func tourNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTourNotFound
	}
	return err
}
