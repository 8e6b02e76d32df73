package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	byID      map[uuid.UUID]*Category
	tourCount map[uuid.UUID]int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:      make(map[uuid.UUID]*Category),
		tourCount: make(map[uuid.UUID]int64),
	}
}

func (r *fakeRepository) Create(_ context.Context, c *Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.byID[c.ID] = c
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeRepository) GetBySlug(_ context.Context, slug string) (*Category, error) {
	for _, c := range r.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (r *fakeRepository) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	if v, ok := updates["name"].(string); ok {
		c.Name = v
	}
	if v, ok := updates["slug"].(string); ok {
		c.Slug = v
	}
	if v, ok := updates["color"].(string); ok {
		c.Color = v
	}
	if v, ok := updates["is_active"].(bool); ok {
		c.IsActive = v
	}
	return c, nil
}

func (r *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeRepository) GetAll(_ context.Context, _ CategoryListQuery) ([]Category, int64, error) {
	out := make([]Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepository) GetActive(_ context.Context) ([]Category, error) {
	var out []Category
	for _, c := range r.byID {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeRepository) CountTours(_ context.Context, id uuid.UUID) (int64, error) {
	return r.tourCount[id], nil
}

func TestCreateCategory(t *testing.T) {
	svc := NewService(newFakeRepository())
	ctx := context.Background()
	admin := uuid.New()

	created, err := svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "  Food & Drink ", Color: "#f97316"})
	require.NoError(t, err)
	assert.Equal(t, "Food & Drink", created.Name)
	assert.Equal(t, "food-drink", created.Slug)
	assert.Equal(t, "#F97316", created.Color)
	assert.True(t, created.IsActive)

	_, err = svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "food drink"})
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "Outdoors", Color: "green"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	plain, err := svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "Day Trips"})
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, plain.Color)
}

func TestUpdateCategoryRenameConflict(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()
	admin := uuid.New()

	walks, err := svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "Walking Tours"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, admin, CreateCategoryRequest{Name: "Outdoors"})
	require.NoError(t, err)

	id := uuid.MustParse(walks.ID)
	taken := "Outdoors"
	_, err = svc.UpdateCategory(ctx, id, admin, UpdateCategoryRequest{Name: &taken})
	assert.ErrorIs(t, err, ErrCategoryExists)

	renamed := "City Walks"
	inactive := false
	updated, err := svc.UpdateCategory(ctx, id, admin, UpdateCategoryRequest{Name: &renamed, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "city-walks", updated.Slug)
	assert.False(t, updated.IsActive)

	active, err := svc.GetActiveCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDeleteCategoryInUse(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, uuid.New(), CreateCategoryRequest{Name: "Outdoors"})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	repo.tourCount[id] = 2
	assert.ErrorIs(t, svc.DeleteCategory(ctx, id), ErrCategoryInUse)

	repo.tourCount[id] = 0
	require.NoError(t, svc.DeleteCategory(ctx, id))

	_, err = svc.GetCategoryByID(ctx, id)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, id), ErrCategoryNotFound)
}
