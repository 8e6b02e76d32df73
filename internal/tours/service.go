package tours

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"tourdesk/internal/bookings"
	"tourdesk/internal/categories"
	"tourdesk/internal/shared/constants"
	"tourdesk/pkg/cache"
	"tourdesk/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	// Admin catalogue management
	CreateTour(ctx context.Context, adminID uuid.UUID, req CreateTourRequest) (*TourResponse, error)
	GetTourByID(ctx context.Context, id uuid.UUID) (*TourResponse, error)
	UpdateTour(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateTourRequest) (*TourResponse, error)
	DeleteTour(ctx context.Context, id uuid.UUID) error

	// Pricing options
	AddPricingOption(ctx context.Context, tourID uuid.UUID, req PricingOptionRequest) (*PricingOptionResponse, error)
	UpdatePricingOption(ctx context.Context, tourID, optionID uuid.UUID, req UpdatePricingOptionRequest) (*PricingOptionResponse, error)
	DeletePricingOption(ctx context.Context, tourID, optionID uuid.UUID) error
	ReorderPricingOptions(ctx context.Context, tourID uuid.UUID, orderedIDs []uuid.UUID) ([]PricingOptionResponse, error)
	MovePricingOption(ctx context.Context, tourID, optionID uuid.UUID, to int) ([]PricingOptionResponse, error)

	// Common methods
	ListTours(ctx context.Context, query TourListQuery) (*PaginatedTours, error)
	GetTourBySlug(ctx context.Context, slug string) (*TourResponse, error)
}

// CategoryLookup checks category references on tours.
type CategoryLookup interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*categories.CategoryResponse, error)
}

type service struct {
	repo         Repository
	categories   CategoryLookup
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository, categoryLookup CategoryLookup) Service {
	return &service{
		repo:       repo,
		categories: categoryLookup,
		log:        logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) invalidateTourCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_TOURS_ALL); err != nil {
		log.Printf("⚠️ Failed to invalidate tour cache: %v", err)
	}
}

func (s *service) CreateTour(ctx context.Context, adminID uuid.UUID, req CreateTourRequest) (*TourResponse, error) {
	title := strings.TrimSpace(req.Title)
	slug := categories.GenerateSlug(title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title must contain at least one alphanumeric character", ErrInvalidTour)
	}

	if err := validatePrices(req.BasePrice, req.OriginalPrice); err != nil {
		return nil, err
	}
	if err := validateStartTime(req.StartTime); err != nil {
		return nil, err
	}
	policy := bookings.DefaultCancellationPolicy()
	if req.CancellationPolicy != nil {
		var err error
		if policy, err = cancellationPolicyOf(*req.CancellationPolicy); err != nil {
			return nil, err
		}
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	options := make([]PricingOption, len(req.PricingOptions))
	for i, opt := range req.PricingOptions {
		if err := validatePrices(opt.Price, opt.OriginalPrice); err != nil {
			return nil, fmt.Errorf("pricing option %q: %w", opt.Name, err)
		}
		options[i] = PricingOption{
			Name:          strings.TrimSpace(opt.Name),
			Price:         opt.Price,
			OriginalPrice: opt.OriginalPrice,
			Description:   strings.TrimSpace(opt.Description),
			Position:      i,
		}
	}

	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return nil, ErrTourExists
	} else if !errors.Is(err, ErrTourNotFound) {
		return nil, fmt.Errorf("failed to check existing tour: %w", err)
	}

	tour := &Tour{
		Title:           title,
		Slug:            slug,
		Description:     strings.TrimSpace(req.Description),
		Location:        strings.TrimSpace(req.Location),
		MeetingPoint:    strings.TrimSpace(req.MeetingPoint),
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		BasePrice:       req.BasePrice,
		OriginalPrice:   req.OriginalPrice,
		CategoryID:      categoryID,
		IsActive:        true,
		PricingOptions:  options,
		CreatedBy:       &adminID,

		DisallowCancellation:    !policy.AllowCancellation,
		CancellationWindowHours: policy.WindowHours,
		CancellationFeeType:     string(policy.FeeType),
		CancellationFeeAmount:   policy.FeeAmount,
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		if errors.Is(err, ErrTourExists) {
			return nil, ErrTourExists
		}
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}
	s.log.LogTourCreated(ctx, tour.ID.String(), tour.Slug)
	s.invalidateTourCache(ctx)

	return s.GetTourByID(ctx, tour.ID)
}

func (s *service) GetTourByID(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := tour.ToResponse()
	return &response, nil
}

// GetTourBySlug serves the storefront detail page; inactive tours are hidden.
func (s *service) GetTourBySlug(ctx context.Context, slug string) (*TourResponse, error) {
	fetch := func() (interface{}, error) {
		tour, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if !tour.IsActive {
			return nil, ErrTourNotFound
		}
		return tour.ToResponse(), nil
	}

	if s.cacheService == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		response := data.(TourResponse)
		return &response, nil
	}

	var response TourResponse
	if err := s.cacheService.GetOrSet(ctx, constants.BuildTourBySlugKey(slug), constants.TTL_TOUR_DETAIL, fetch, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *service) UpdateTour(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateTourRequest) (*TourResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		slug := categories.GenerateSlug(title)
		if slug == "" {
			return nil, fmt.Errorf("%w: title must contain at least one alphanumeric character", ErrInvalidTour)
		}
		if slug != current.Slug {
			existing, err := s.repo.GetBySlug(ctx, slug)
			if err != nil && !errors.Is(err, ErrTourNotFound) {
				return nil, fmt.Errorf("failed to check existing tour: %w", err)
			}
			if existing != nil && existing.ID != current.ID {
				return nil, ErrTourExists
			}
		}
		updates["title"] = title
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.MeetingPoint != nil {
		updates["meeting_point"] = strings.TrimSpace(*req.MeetingPoint)
	}
	if req.StartTime != nil {
		if err := validateStartTime(*req.StartTime); err != nil {
			return nil, err
		}
		updates["start_time"] = *req.StartTime
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}

	// Price pair is validated on the merged result
	price := current.BasePrice
	if req.BasePrice != nil {
		price = *req.BasePrice
		updates["base_price"] = price
	}
	original := current.OriginalPrice
	switch {
	case req.ClearOriginal:
		original = nil
		updates["original_price"] = nil
	case req.OriginalPrice != nil:
		original = req.OriginalPrice
		updates["original_price"] = *req.OriginalPrice
	}
	if err := validatePrices(price, original); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			updates["category_id"] = nil
		} else {
			categoryID, err := s.resolveCategory(ctx, req.CategoryID)
			if err != nil {
				return nil, err
			}
			updates["category_id"] = *categoryID
		}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.CancellationPolicy != nil {
		policy, err := cancellationPolicyOf(*req.CancellationPolicy)
		if err != nil {
			return nil, err
		}
		updates["disallow_cancellation"] = !policy.AllowCancellation
		updates["cancellation_window_hours"] = policy.WindowHours
		updates["cancellation_fee_type"] = string(policy.FeeType)
		updates["cancellation_fee_amount"] = policy.FeeAmount
	}

	updates["updated_at"] = time.Now()
	updates["updated_by"] = adminID

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, ErrTourExists) {
			return nil, ErrTourExists
		}
		return nil, err
	}
	s.invalidateTourCache(ctx)

	response := updated.ToResponse()
	return &response, nil
}

// DeleteTour refuses tours with bookings; deactivate those instead.
func (s *service) DeleteTour(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountBookings(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check tour bookings: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d booking(s) reference it, deactivate it instead", ErrTourHasBookings, count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateTourCache(ctx)
	return nil
}

func (s *service) ListTours(ctx context.Context, query TourListQuery) (*PaginatedTours, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 12
	}
	query.Search = strings.TrimSpace(query.Search)

	fetch := func() (interface{}, error) {
		list, totalCount, err := s.repo.List(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list tours: %w", err)
		}

		responses := make([]TourResponse, len(list))
		for i := range list {
			responses[i] = list[i].ToResponse()
		}

		return PaginatedTours{
			Tours:      responses,
			TotalCount: totalCount,
			Page:       query.Page,
			Limit:      query.Limit,
			TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
		}, nil
	}

	// Admin listings include inactive tours and skip the cache
	if s.cacheService == nil || query.IncludeInactive {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		result := data.(PaginatedTours)
		return &result, nil
	}

	var result PaginatedTours
	key := constants.BuildTourListKey(query.Page, query.Limit, query.Category, strings.ToLower(query.Search))
	if err := s.cacheService.GetOrSet(ctx, key, constants.TTL_TOUR_LIST, fetch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Pricing options

func (s *service) AddPricingOption(ctx context.Context, tourID uuid.UUID, req PricingOptionRequest) (*PricingOptionResponse, error) {
	if err := validatePrices(req.Price, req.OriginalPrice); err != nil {
		return nil, err
	}

	option := &PricingOption{
		TourID:        tourID,
		Name:          strings.TrimSpace(req.Name),
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Description:   strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateOption(ctx, option); err != nil {
		return nil, err
	}
	s.invalidateTourCache(ctx)

	response := option.ToResponse()
	return &response, nil
}

func (s *service) UpdatePricingOption(ctx context.Context, tourID, optionID uuid.UUID, req UpdatePricingOptionRequest) (*PricingOptionResponse, error) {
	current, err := s.repo.GetOption(ctx, tourID, optionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	price := current.Price
	if req.Price != nil {
		price = *req.Price
		updates["price"] = price
	}
	original := current.OriginalPrice
	switch {
	case req.ClearOriginal:
		original = nil
		updates["original_price"] = nil
	case req.OriginalPrice != nil:
		original = req.OriginalPrice
		updates["original_price"] = *req.OriginalPrice
	}
	if err := validatePrices(price, original); err != nil {
		return nil, err
	}

	updates["updated_at"] = time.Now()

	updated, err := s.repo.UpdateOption(ctx, tourID, optionID, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateTourCache(ctx)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) DeletePricingOption(ctx context.Context, tourID, optionID uuid.UUID) error {
	if err := s.repo.DeleteOption(ctx, tourID, optionID); err != nil {
		return err
	}
	s.invalidateTourCache(ctx)
	return nil
}

func (s *service) ReorderPricingOptions(ctx context.Context, tourID uuid.UUID, orderedIDs []uuid.UUID) ([]PricingOptionResponse, error) {
	if len(orderedIDs) == 0 {
		return nil, fmt.Errorf("%w: order is empty", ErrInvalidReorder)
	}

	if err := s.repo.ReorderOptions(ctx, tourID, orderedIDs); err != nil {
		return nil, err
	}
	s.invalidateTourCache(ctx)

	return s.listOptionResponses(ctx, tourID)
}

// MovePricingOption drags one option to index to and renumbers the rest.
func (s *service) MovePricingOption(ctx context.Context, tourID, optionID uuid.UUID, to int) ([]PricingOptionResponse, error) {
	options, err := s.repo.ListOptions(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing options: %w", err)
	}

	ids := make([]uuid.UUID, len(options))
	from := -1
	for i := range options {
		ids[i] = options[i].ID
		if options[i].ID == optionID {
			from = i
		}
	}
	if from < 0 {
		return nil, ErrOptionNotFound
	}

	ordered, err := Move(ids, from, to)
	if err != nil {
		return nil, err
	}
	return s.ReorderPricingOptions(ctx, tourID, ordered)
}

func (s *service) listOptionResponses(ctx context.Context, tourID uuid.UUID) ([]PricingOptionResponse, error) {
	options, err := s.repo.ListOptions(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing options: %w", err)
	}

	responses := make([]PricingOptionResponse, len(options))
	for i := range options {
		responses[i] = options[i].ToResponse()
	}
	return responses, nil
}

func (s *service) resolveCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid category id", ErrInvalidTour)
	}
	if s.categories == nil {
		return &id, nil
	}

	if _, err := s.categories.GetCategoryByID(ctx, id); err != nil {
		if errors.Is(err, categories.ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: category does not exist", ErrInvalidTour)
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	return &id, nil
}
