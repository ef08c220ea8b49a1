package model_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"travel/internal/domains/listing/model"
)

func TestAmenitiesList(t *testing.T) {
	tests := []struct {
		name      string
		amenities string
		expected  []string
	}{
		{name: "trims whitespace", amenities: "wifi, pool,  gym", expected: []string{"wifi", "pool", "gym"}},
		{name: "empty string", amenities: "", expected: []string{}},
		{name: "single", amenities: "parking", expected: []string{"parking"}},
		{name: "blank fragments dropped", amenities: "wifi,, ,pool", expected: []string{"wifi", "pool"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := model.AmenitiesList(tt.amenities)

			assert.NotNil(t, list)
			assert.Equal(t, tt.expected, list)
		})
	}
}

func TestNightlyTotal(t *testing.T) {
	listing := model.Listing{PricePerNight: decimal.RequireFromString("100.00")}

	assert.Equal(t, "300.00", listing.NightlyTotal(3).StringFixed(2))

	listing.PricePerNight = decimal.RequireFromString("89.99")
	assert.Equal(t, "629.93", listing.NightlyTotal(7).StringFixed(2))
}

func TestGetJoinQuery(t *testing.T) {
	query := model.Listing{}.GetJoinQuery()

	assert.True(t, strings.Contains(query, "LEFT JOIN users hosts"))
	assert.True(t, strings.Contains(query, "review_stats.listing_id = listings.id"))
}
