package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"offer_sniper/internal/domain/entity"
)

func TestParseFilters(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		minPrice string
		maxPrice string
		hours    float64
	}{
		{
			name:     "numbers",
			raw:      `{"minPrice": 45.5, "maxPrice": 120, "minHoursFromNow": 36}`,
			minPrice: "45.5",
			maxPrice: "120",
			hours:    36,
		},
		{
			name:     "strings with dot",
			raw:      `{"minPrice": "45.5"}`,
			minPrice: "45.5",
		},
		{
			name:     "strings with comma",
			raw:      `{"minPrice": "45,5"}`,
			minPrice: "45.5",
		},
		{
			name:     "empty object falls back to defaults of zero values",
			raw:      `{}`,
			minPrice: "0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			filters, err := parseFilters([]byte(tc.raw))
			rq.NoError(err)
			rq.True(filters.MinPrice.Equal(decimal.RequireFromString(tc.minPrice)),
				"minPrice: got %s", filters.MinPrice)

			if tc.maxPrice == "" {
				rq.Nil(filters.MaxPrice)
			} else {
				rq.NotNil(filters.MaxPrice)
				rq.True(filters.MaxPrice.Equal(decimal.RequireFromString(tc.maxPrice)))
			}

			rq.Equal(tc.hours, filters.MinHoursFromNow)
		})
	}
}

func TestParseFiltersEmptyRawUsesDefaults(t *testing.T) {
	rq := require.New(t)

	filters, err := parseFilters(nil)
	rq.NoError(err)
	rq.True(filters.MinPrice.Equal(decimal.NewFromInt(10)))
}

func TestFromFiltersRoundTrip(t *testing.T) {
	rq := require.New(t)

	maxPrice := decimal.RequireFromString("99.9")
	original := entity.Filters{
		MinPrice:            decimal.RequireFromString("45.5"),
		MaxPrice:            &maxPrice,
		AllowedVehicleTypes: []string{"van", "sedan"},
		MinHoursFromNow:     2.5,
	}

	raw, err := fromFilters(original)
	rq.NoError(err)

	parsed, err := parseFilters(raw)
	rq.NoError(err)
	rq.True(parsed.MinPrice.Equal(original.MinPrice))
	rq.NotNil(parsed.MaxPrice)
	rq.True(parsed.MaxPrice.Equal(maxPrice))
	rq.Equal(original.AllowedVehicleTypes, parsed.AllowedVehicleTypes)
	rq.Equal(original.MinHoursFromNow, parsed.MinHoursFromNow)
}
