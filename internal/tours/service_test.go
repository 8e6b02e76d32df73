package tours

import (
	"context"
	"sort"
	"testing"

	"tourdesk/internal/bookings"
	"tourdesk/internal/categories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	tours map[uuid.UUID]*Tour
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{tours: map[uuid.UUID]*Tour{}}
}

func (f *fakeRepository) Create(_ context.Context, tour *Tour) error {
	tour.ID = uuid.New()
	for i := range tour.PricingOptions {
		tour.PricingOptions[i].ID = uuid.New()
		tour.PricingOptions[i].TourID = tour.ID
	}
	f.tours[tour.ID] = tour
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*Tour, error) {
	tour, ok := f.tours[id]
	if !ok {
		return nil, ErrTourNotFound
	}
	copied := *tour
	copied.PricingOptions = sortedOptions(tour.PricingOptions)
	return &copied, nil
}

func (f *fakeRepository) GetBySlug(ctx context.Context, slug string) (*Tour, error) {
	for id, tour := range f.tours {
		if tour.Slug == slug {
			return f.GetByID(ctx, id)
		}
	}
	return nil, ErrTourNotFound
}

func (f *fakeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Tour, error) {
	tour, ok := f.tours[id]
	if !ok {
		return nil, ErrTourNotFound
	}
	if v, ok := updates["title"]; ok {
		tour.Title = v.(string)
		tour.Slug = updates["slug"].(string)
	}
	if v, ok := updates["base_price"]; ok {
		tour.BasePrice = v.(float64)
	}
	if v, ok := updates["is_active"]; ok {
		tour.IsActive = v.(bool)
	}
	if v, ok := updates["disallow_cancellation"]; ok {
		tour.DisallowCancellation = v.(bool)
		tour.CancellationWindowHours = updates["cancellation_window_hours"].(int)
		tour.CancellationFeeType = updates["cancellation_fee_type"].(string)
		tour.CancellationFeeAmount = updates["cancellation_fee_amount"].(float64)
	}
	return f.GetByID(ctx, id)
}

func (f *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tours[id]; !ok {
		return ErrTourNotFound
	}
	delete(f.tours, id)
	return nil
}

func (f *fakeRepository) List(_ context.Context, query TourListQuery) ([]Tour, int64, error) {
	var out []Tour
	for _, tour := range f.tours {
		if tour.IsActive || query.IncludeInactive {
			out = append(out, *tour)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, int64(len(out)), nil
}

func (f *fakeRepository) CountBookings(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeRepository) GetOption(_ context.Context, tourID, optionID uuid.UUID) (*PricingOption, error) {
	tour, ok := f.tours[tourID]
	if !ok {
		return nil, ErrOptionNotFound
	}
	option := tour.FindOption(optionID)
	if option == nil {
		return nil, ErrOptionNotFound
	}
	copied := *option
	return &copied, nil
}

func (f *fakeRepository) ListOptions(_ context.Context, tourID uuid.UUID) ([]PricingOption, error) {
	tour, ok := f.tours[tourID]
	if !ok {
		return nil, nil
	}
	return sortedOptions(tour.PricingOptions), nil
}

func (f *fakeRepository) CreateOption(_ context.Context, option *PricingOption) error {
	tour, ok := f.tours[option.TourID]
	if !ok {
		return ErrTourNotFound
	}
	option.ID = uuid.New()
	option.Position = len(tour.PricingOptions)
	tour.PricingOptions = append(tour.PricingOptions, *option)
	return nil
}

func (f *fakeRepository) UpdateOption(ctx context.Context, tourID, optionID uuid.UUID, updates map[string]interface{}) (*PricingOption, error) {
	tour := f.tours[tourID]
	option := tour.FindOption(optionID)
	if option == nil {
		return nil, ErrOptionNotFound
	}
	if v, ok := updates["price"]; ok {
		option.Price = v.(float64)
	}
	return f.GetOption(ctx, tourID, optionID)
}

func (f *fakeRepository) DeleteOption(_ context.Context, tourID, optionID uuid.UUID) error {
	tour := f.tours[tourID]
	kept := tour.PricingOptions[:0]
	for _, o := range sortedOptions(tour.PricingOptions) {
		if o.ID != optionID {
			o.Position = len(kept)
			kept = append(kept, o)
		}
	}
	tour.PricingOptions = kept
	return nil
}

func (f *fakeRepository) ReorderOptions(_ context.Context, tourID uuid.UUID, orderedIDs []uuid.UUID) error {
	tour, ok := f.tours[tourID]
	if !ok {
		return ErrTourNotFound
	}
	existing := make([]uuid.UUID, len(tour.PricingOptions))
	for i := range tour.PricingOptions {
		existing[i] = tour.PricingOptions[i].ID
	}
	if !sameIDSet(existing, orderedIDs) {
		return ErrInvalidReorder
	}
	for pos, id := range orderedIDs {
		tour.FindOption(id).Position = pos
	}
	return nil
}

type fakeCategories struct {
	known map[uuid.UUID]bool
}

func (f fakeCategories) GetCategoryByID(_ context.Context, id uuid.UUID) (*categories.CategoryResponse, error) {
	if !f.known[id] {
		return nil, categories.ErrCategoryNotFound
	}
	return &categories.CategoryResponse{ID: id.String()}, nil
}

func newTestService(t *testing.T) (Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return NewService(repo, fakeCategories{known: map[uuid.UUID]bool{}}), repo
}

func createSampleTour(t *testing.T, svc Service) *TourResponse {
	t.Helper()
	tour, err := svc.CreateTour(context.Background(), uuid.New(), CreateTourRequest{
		Title:        "Harbour Sunset Cruise",
		MeetingPoint: "Pier 3",
		StartTime:    "18:30",
		BasePrice:    80,
		PricingOptions: []PricingOptionRequest{
			{Name: "Standard", Price: 80},
			{Name: "Premium", Price: 120, OriginalPrice: ptr(150)},
			{Name: "Private", Price: 400},
		},
	})
	require.NoError(t, err)
	return tour
}

func optionNames(options []PricingOptionResponse) []string {
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.Name
	}
	return names
}

func TestCreateTour(t *testing.T) {
	svc, _ := newTestService(t)

	tour := createSampleTour(t, svc)

	assert.Equal(t, "harbour-sunset-cruise", tour.Slug)
	assert.True(t, tour.IsActive)
	assert.Equal(t, []string{"Standard", "Premium", "Private"}, optionNames(tour.PricingOptions))
	require.NotNil(t, tour.PricingOptions[1].DiscountPercent)
	assert.Equal(t, 20, *tour.PricingOptions[1].DiscountPercent)
}

func TestCreateTourRejectsOriginalBelowPrice(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateTour(context.Background(), uuid.New(), CreateTourRequest{
		Title:         "Bad Discount",
		BasePrice:     100,
		OriginalPrice: ptr(90),
	})
	assert.ErrorIs(t, err, ErrInvalidTour)

	_, err = svc.CreateTour(context.Background(), uuid.New(), CreateTourRequest{
		Title:          "Bad Option",
		BasePrice:      100,
		PricingOptions: []PricingOptionRequest{{Name: "VIP", Price: 200, OriginalPrice: ptr(150)}},
	})
	assert.ErrorIs(t, err, ErrInvalidTour)
	assert.Empty(t, repo.tours)
}

func TestCreateTourDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(t)
	createSampleTour(t, svc)

	_, err := svc.CreateTour(context.Background(), uuid.New(), CreateTourRequest{Title: "Harbour  Sunset Cruise!", BasePrice: 10})
	assert.ErrorIs(t, err, ErrTourExists)
}

func TestCreateTourUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)
	missing := uuid.New().String()

	_, err := svc.CreateTour(context.Background(), uuid.New(), CreateTourRequest{
		Title:      "Night Market",
		BasePrice:  30,
		CategoryID: &missing,
	})
	assert.ErrorIs(t, err, ErrInvalidTour)
}

func TestUpdateTourValidatesMergedPrices(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tour, err := svc.CreateTour(ctx, uuid.New(), CreateTourRequest{Title: "Wine Tasting", BasePrice: 100, OriginalPrice: ptr(120)})
	require.NoError(t, err)
	id := uuid.MustParse(tour.ID)

	// Raising the price above the stored original is rejected
	_, err = svc.UpdateTour(ctx, id, uuid.New(), UpdateTourRequest{BasePrice: ptr(130)})
	assert.ErrorIs(t, err, ErrInvalidTour)

	updated, err := svc.UpdateTour(ctx, id, uuid.New(), UpdateTourRequest{BasePrice: ptr(130), ClearOriginal: true})
	require.NoError(t, err)
	assert.Equal(t, 130.0, updated.BasePrice)
}

func TestGetTourBySlugHidesInactive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tour := createSampleTour(t, svc)

	got, err := svc.GetTourBySlug(ctx, tour.Slug)
	require.NoError(t, err)
	assert.Equal(t, tour.ID, got.ID)

	inactive := false
	_, err = svc.UpdateTour(ctx, uuid.MustParse(tour.ID), uuid.New(), UpdateTourRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.GetTourBySlug(ctx, tour.Slug)
	assert.ErrorIs(t, err, ErrTourNotFound)

	public, err := svc.ListTours(ctx, TourListQuery{})
	require.NoError(t, err)
	assert.Empty(t, public.Tours)

	admin, err := svc.ListTours(ctx, TourListQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, admin.Tours, 1)
	assert.Equal(t, 12, admin.Limit)
}

func TestReorderPricingOptions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tour := createSampleTour(t, svc)
	tourID := uuid.MustParse(tour.ID)

	ids := make([]uuid.UUID, len(tour.PricingOptions))
	for i, o := range tour.PricingOptions {
		ids[i] = uuid.MustParse(o.ID)
	}

	options, err := svc.ReorderPricingOptions(ctx, tourID, []uuid.UUID{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	assert.Equal(t, []string{"Private", "Standard", "Premium"}, optionNames(options))
	for i, o := range options {
		assert.Equal(t, i, o.Position)
	}

	_, err = svc.ReorderPricingOptions(ctx, tourID, []uuid.UUID{ids[0], ids[1]})
	assert.ErrorIs(t, err, ErrInvalidReorder)

	_, err = svc.ReorderPricingOptions(ctx, tourID, nil)
	assert.ErrorIs(t, err, ErrInvalidReorder)
}

func TestMovePricingOption(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tour := createSampleTour(t, svc)
	tourID := uuid.MustParse(tour.ID)
	private := uuid.MustParse(tour.PricingOptions[2].ID)

	options, err := svc.MovePricingOption(ctx, tourID, private, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Private", "Standard", "Premium"}, optionNames(options))

	_, err = svc.MovePricingOption(ctx, tourID, uuid.New(), 0)
	assert.ErrorIs(t, err, ErrOptionNotFound)

	_, err = svc.MovePricingOption(ctx, tourID, private, 5)
	assert.ErrorIs(t, err, ErrInvalidReorder)
}

func TestAddAndDeletePricingOption(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tour := createSampleTour(t, svc)
	tourID := uuid.MustParse(tour.ID)

	added, err := svc.AddPricingOption(ctx, tourID, PricingOptionRequest{Name: "Family", Price: 200})
	require.NoError(t, err)
	assert.Equal(t, 3, added.Position)

	_, err = svc.AddPricingOption(ctx, tourID, PricingOptionRequest{Name: "Broken", Price: 50, OriginalPrice: ptr(10)})
	assert.ErrorIs(t, err, ErrInvalidTour)

	require.NoError(t, svc.DeletePricingOption(ctx, tourID, uuid.MustParse(tour.PricingOptions[0].ID)))

	got, err := svc.GetTourByID(ctx, tourID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Premium", "Private", "Family"}, optionNames(got.PricingOptions))
	assert.Equal(t, 2, got.PricingOptions[2].Position)
}

func TestBookingCatalogAdapter(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	tour := createSampleTour(t, svc)
	tourID := uuid.MustParse(tour.ID)
	adapter := NewBookingCatalogAdapter(repo)

	base, err := adapter.ResolvePricing(ctx, tourID, nil)
	require.NoError(t, err)
	assert.Equal(t, 80.0, base.UnitPrice)
	assert.Nil(t, base.PricingOptionID)
	assert.Equal(t, "Pier 3", base.MeetingPoint)
	assert.Equal(t, "18:30", base.StartTime)

	premium := uuid.MustParse(tour.PricingOptions[1].ID)
	opt, err := adapter.ResolvePricing(ctx, tourID, &premium)
	require.NoError(t, err)
	assert.Equal(t, 120.0, opt.UnitPrice)
	assert.Equal(t, "Premium", opt.OptionName)
	require.NotNil(t, opt.PricingOptionID)
	assert.Equal(t, premium, *opt.PricingOptionID)

	foreign := uuid.New()
	_, err = adapter.ResolvePricing(ctx, tourID, &foreign)
	assert.ErrorIs(t, err, bookings.ErrValidation)

	_, err = adapter.ResolvePricing(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, bookings.ErrValidation)

	inactive := false
	_, err = svc.UpdateTour(ctx, tourID, uuid.New(), UpdateTourRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = adapter.ResolvePricing(ctx, tourID, nil)
	assert.ErrorIs(t, err, bookings.ErrValidation)
}

func TestTourCancellationPolicy(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	tour := createSampleTour(t, svc)
	tourID := uuid.MustParse(tour.ID)
	adapter := NewBookingCatalogAdapter(repo)

	assert.Equal(t, bookings.DefaultCancellationPolicy(), tour.Cancellation)

	updated, err := svc.UpdateTour(ctx, tourID, uuid.New(), UpdateTourRequest{
		CancellationPolicy: &CancellationPolicyRequest{WindowHours: 48, FeeType: "percentage", FeeAmount: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 48, updated.Cancellation.WindowHours)
	assert.Equal(t, bookings.FeeTypePercentage, updated.Cancellation.FeeType)
	assert.True(t, updated.Cancellation.AllowCancellation)

	policy, err := adapter.CancellationPolicy(ctx, tourID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, policy.FeeAmount)
	assert.Equal(t, 48, policy.WindowHours)

	_, err = svc.UpdateTour(ctx, tourID, uuid.New(), UpdateTourRequest{
		CancellationPolicy: &CancellationPolicyRequest{FeeType: "PERCENTAGE", FeeAmount: 120},
	})
	assert.ErrorIs(t, err, ErrInvalidTour)

	locked := false
	created, err := svc.CreateTour(ctx, uuid.New(), CreateTourRequest{
		Title:              "Glacier Flight",
		BasePrice:          300,
		CancellationPolicy: &CancellationPolicyRequest{AllowCancellation: &locked},
	})
	require.NoError(t, err)
	assert.False(t, created.Cancellation.AllowCancellation)

	_, err = adapter.CancellationPolicy(ctx, uuid.New())
	assert.ErrorIs(t, err, bookings.ErrNotFound)
}
