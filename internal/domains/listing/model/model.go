package model

import (
	"strings"

	"travel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	FieldID            = "id"
	FieldHostID        = "host_id"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldLocation      = "location"
	FieldPricePerNight = "price_per_night"
	FieldPropertyType  = "property_type"
	FieldMaxGuests     = "max_guests"
	FieldBedrooms      = "bedrooms"
	FieldBathrooms     = "bathrooms"
	FieldAmenities     = "amenities"
	FieldImage         = "image"
	FieldAvailable     = "available"
	FieldAverageRating = "average_rating"
	FieldTotalReviews  = "total_reviews"
)

const (
	CacheGet    = "listing:get"
	CacheGetAll = "listing:gets"
	CacheCount  = "listing:count"
)

const (
	PropertyTypeHotel      = "hotel"
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeVilla      = "villa"
	PropertyTypeResort     = "resort"
	PropertyTypeHostel     = "hostel"
	PropertyTypeGuesthouse = "guesthouse"
)

const (
	MinGuests = 1
	MaxGuests = 20

	DefaultMaxGuests = 1
	DefaultBedrooms  = 1
	DefaultBathrooms = 1
)

const ImageDirectory = "listings"

// Listing rows carry the host identity and review aggregates through GetJoinQuery.
type Listing struct {
	ID            string          `db:"id"`
	HostID        string          `db:"host_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Location      string          `db:"location"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	PropertyType  string          `db:"property_type"`
	MaxGuests     int             `db:"max_guests"`
	Bedrooms      int             `db:"bedrooms"`
	Bathrooms     int             `db:"bathrooms"`
	Amenities     string          `db:"amenities"`
	Image         *string         `db:"image"`
	Available     bool            `db:"available"`
	model.Metadata

	HostUsername  *string  `column:"username"       db:"host_username"   table:"hosts"`
	HostFirstName *string  `column:"first_name"     db:"host_first_name" table:"hosts"`
	HostLastName  *string  `column:"last_name"      db:"host_last_name"  table:"hosts"`
	HostEmail     *string  `column:"email"          db:"host_email"      table:"hosts"`
	AverageRating *float64 `db:"average_rating"     table:"review_stats"`
	TotalReviews  *int     `db:"total_reviews"      table:"review_stats"`
}

func (Listing) GetJoinQuery() string {
	return `LEFT JOIN users hosts ON hosts.id = listings.host_id
		LEFT JOIN (
			SELECT listing_id, AVG(rating)::float8 AS average_rating, COUNT(id)::int AS total_reviews
			FROM reviews GROUP BY listing_id
		) review_stats ON review_stats.listing_id = listings.id`
}

// AmenitiesList splits a comma separated amenities string. Blank entries are dropped.
func AmenitiesList(amenities string) []string {
	list := []string{}

	for amenity := range strings.SplitSeq(amenities, ",") {
		if amenity = strings.TrimSpace(amenity); amenity != "" {
			list = append(list, amenity)
		}
	}

	return list
}

// NightlyTotal prices a stay of nights at the listing's nightly rate, rounded to cents.
func (l Listing) NightlyTotal(nights int) decimal.Decimal {
	return l.PricePerNight.Mul(decimal.NewFromInt(int64(nights))).Round(2)
}
