package tours

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestValidatePrices(t *testing.T) {
	assert.NoError(t, validatePrices(100, nil))
	assert.NoError(t, validatePrices(100, ptr(100)))
	assert.NoError(t, validatePrices(100, ptr(150)))
	assert.NoError(t, validatePrices(0, nil))

	assert.ErrorIs(t, validatePrices(-1, nil), ErrInvalidTour)
	assert.ErrorIs(t, validatePrices(120, ptr(100)), ErrInvalidTour)
	assert.ErrorIs(t, validatePrices(0, ptr(-5)), ErrInvalidTour)
}

func TestValidateStartTime(t *testing.T) {
	assert.NoError(t, validateStartTime(""))
	assert.NoError(t, validateStartTime("09:30"))
	assert.NoError(t, validateStartTime("23:59"))
	assert.ErrorIs(t, validateStartTime("24:00"), ErrInvalidTour)
	assert.ErrorIs(t, validateStartTime("9:30"), ErrInvalidTour)
}

func TestMove(t *testing.T) {
	items := []string{"a", "b", "c", "d"}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"to end", 1, 3, []string{"a", "c", "d", "b"}},
		{"same index", 2, 2, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Move(items, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, items, "input must not be mutated")

	_, err := Move(items, 4, 0)
	assert.ErrorIs(t, err, ErrInvalidReorder)
	_, err = Move(items, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidReorder)
}

func TestSameIDSet(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.True(t, sameIDSet([]uuid.UUID{a, b, c}, []uuid.UUID{c, a, b}))
	assert.False(t, sameIDSet([]uuid.UUID{a, b, c}, []uuid.UUID{a, b}))
	assert.False(t, sameIDSet([]uuid.UUID{a, b}, []uuid.UUID{a, a}))
	assert.False(t, sameIDSet([]uuid.UUID{a, b}, []uuid.UUID{a, c}))
}

func TestTourToResponse(t *testing.T) {
	tour := Tour{
		ID:            uuid.New(),
		Title:         "Old Town Walk",
		BasePrice:     120,
		OriginalPrice: ptr(150),
		PricingOptions: []PricingOption{
			{ID: uuid.New(), Name: "Private", Price: 300, Position: 1},
			{ID: uuid.New(), Name: "Group", Price: 60, OriginalPrice: ptr(90), Position: 0},
		},
	}

	resp := tour.ToResponse()

	require.NotNil(t, resp.DiscountPercent)
	assert.Equal(t, 20, *resp.DiscountPercent)
	require.Len(t, resp.PricingOptions, 2)
	assert.Equal(t, "Group", resp.PricingOptions[0].Name)
	require.NotNil(t, resp.PricingOptions[0].DiscountPercent)
	assert.Equal(t, 33, *resp.PricingOptions[0].DiscountPercent)
	assert.Nil(t, resp.PricingOptions[1].DiscountPercent)
	assert.Nil(t, resp.Category)
}
