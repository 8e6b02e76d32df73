package categories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"tourdesk/internal/shared/constants"
	"tourdesk/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	// Admin CRUD operations
	CreateCategory(ctx context.Context, adminID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetAllCategories(ctx context.Context, query CategoryListQuery) (*PaginatedCategories, error)

	// Public reads
	GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error)
	GetActiveCategories(ctx context.Context) ([]CategoryResponse, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) invalidateCategoryCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	// Tour listings embed category data, so they go too
	for _, pattern := range []string{constants.PATTERN_INVALIDATE_CATEGORIES_ALL, constants.PATTERN_INVALIDATE_TOURS_ALL} {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			log.Printf("⚠️ Failed to invalidate cache pattern %s: %v", pattern, err)
		}
	}
}

// Admin CRUD operations

func (s *service) CreateCategory(ctx context.Context, adminID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidCategory)
	}

	slug := GenerateSlug(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name must contain at least one alphanumeric character", ErrInvalidCategory)
	}

	// Check if category with same slug already exists
	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}

	color, err := normalizeColor(req.Color)
	if err != nil {
		return nil, err
	}

	category := &Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		Color:       color,
		IsActive:    true,
		CreatedBy:   &adminID,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.invalidateCategoryCache(ctx)

	response := category.ToResponse()
	return &response, nil
}

func (s *service) GetCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := category.ToResponse()
	return &response, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	var response CategoryResponse
	key := constants.BuildCategoryBySlugKey(slug)

	if s.cacheService != nil {
		err := s.cacheService.GetOrSet(ctx, key, constants.TTL_CATEGORY_DETAIL, func() (interface{}, error) {
			category, err := s.repo.GetBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
			return category.ToResponse(), nil
		}, &response)
		if err != nil {
			return nil, err
		}
		return &response, nil
	}

	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response = category.ToResponse()
	return &response, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidCategory)
		}

		slug := GenerateSlug(name)
		if slug == "" {
			return nil, fmt.Errorf("%w: name must contain at least one alphanumeric character", ErrInvalidCategory)
		}

		if slug != current.Slug {
			existing, err := s.repo.GetBySlug(ctx, slug)
			if err != nil && !errors.Is(err, ErrCategoryNotFound) {
				return nil, fmt.Errorf("failed to check existing category: %w", err)
			}
			if existing != nil && existing.ID != current.ID {
				return nil, ErrCategoryExists
			}
		}

		updates["name"] = name
		updates["slug"] = slug
	}

	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if req.Color != nil {
		color, err := normalizeColor(*req.Color)
		if err != nil {
			return nil, err
		}
		updates["color"] = color
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	updates["updated_at"] = time.Now()
	updates["updated_by"] = adminID

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateCategoryCache(ctx)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountTours(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: used by %d tour(s), deactivate it instead", ErrCategoryInUse, count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCategoryCache(ctx)
	return nil
}

func (s *service) GetAllCategories(ctx context.Context, query CategoryListQuery) (*PaginatedCategories, error) {
	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	list, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	responses := make([]CategoryResponse, len(list))
	for i := range list {
		responses[i] = list[i].ToResponse()
	}

	return &PaginatedCategories{
		Categories: responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

func (s *service) GetActiveCategories(ctx context.Context) ([]CategoryResponse, error) {
	fetch := func() (interface{}, error) {
		list, err := s.repo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get active categories: %w", err)
		}
		responses := make([]CategoryResponse, len(list))
		for i := range list {
			responses[i] = list[i].ToResponse()
		}
		return responses, nil
	}

	if s.cacheService == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.([]CategoryResponse), nil
	}

	var responses []CategoryResponse
	err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_CATEGORIES_ACTIVE, constants.TTL_CATEGORIES_ACTIVE, fetch, &responses)
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// normalizeColor falls back to the default gray for an empty color.
func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return DefaultColor, nil
	}
	if !IsValidHexColor(color) {
		return "", fmt.Errorf("%w: invalid color format, use hex like #FF0000", ErrInvalidCategory)
	}
	return strings.ToUpper(color), nil
}
