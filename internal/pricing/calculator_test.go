package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		adults   int
		children int
		want     float64
	}{
		{"adults and children", 100, 2, 1, 250},
		{"single adult", 49.5, 1, 0, 49.5},
		{"free tour", 0, 3, 2, 0},
		{"children at half rate", 80, 1, 4, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Total(tt.price, tt.adults, tt.children)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTotalRejectsInvalidInput(t *testing.T) {
	cases := map[string]struct {
		price    float64
		adults   int
		children int
	}{
		"negative price":    {-1, 1, 0},
		"no adults":         {100, 0, 0},
		"negative children": {100, 1, -1},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Total(c.price, c.adults, c.children)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestTotalIsMonotonicInGuests(t *testing.T) {
	base, err := Total(60, 2, 1)
	require.NoError(t, err)

	moreAdults, err := Total(60, 3, 1)
	require.NoError(t, err)
	moreChildren, err := Total(60, 2, 2)
	require.NoError(t, err)

	assert.Greater(t, moreAdults, base)
	assert.Greater(t, moreChildren, base)
}

func TestDiscountPercent(t *testing.T) {
	pct, ok := DiscountPercent(150, 120)
	assert.True(t, ok)
	assert.Equal(t, 20, pct)

	pct, ok = DiscountPercent(90, 60)
	assert.True(t, ok)
	assert.Equal(t, 33, pct)

	_, ok = DiscountPercent(0, 120)
	assert.False(t, ok, "zero original means no discount")

	_, ok = DiscountPercent(100, 120)
	assert.False(t, ok)

	_, ok = DiscountPercent(100, 100)
	assert.False(t, ok)
}

func TestNewQuote(t *testing.T) {
	q, err := NewQuote(100, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 200.0, q.AdultSubtotal)
	assert.Equal(t, 50.0, q.ChildSubtotal)
	assert.Equal(t, 250.0, q.Total)

	_, err = NewQuote(100, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.13, Round2(10.125000001))
	assert.Equal(t, 33.33, Round2(100.0/3))
}
