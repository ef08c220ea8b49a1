package model

import (
	listingModel "travel/internal/domains/listing/model"
	userModel "travel/internal/domains/user/model"
	"travel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID        = "id"
	FieldListingID = "listing_id"
	FieldUserID    = "user_id"
	FieldBookingID = "booking_id"
	FieldRating    = "rating"
	FieldComment   = "comment"
)

const (
	CacheGet    = "review:get"
	CacheGetAll = "review:gets"
	CacheCount  = "review:count"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        string  `db:"id"`
	ListingID string  `db:"listing_id"`
	UserID    string  `db:"user_id"`
	BookingID *string `db:"booking_id"`
	Rating    int     `db:"rating"`
	Comment   string  `db:"comment"`
	model.Metadata

	ListingHostID        string          `column:"host_id"         db:"listing_host_id"         table:"listings"`
	ListingName          string          `column:"name"            db:"listing_name"            table:"listings"`
	ListingLocation      string          `column:"location"        db:"listing_location"        table:"listings"`
	ListingPricePerNight decimal.Decimal `column:"price_per_night" db:"listing_price_per_night" table:"listings"`
	ListingPropertyType  string          `column:"property_type"   db:"listing_property_type"   table:"listings"`
	ListingMaxGuests     int             `column:"max_guests"      db:"listing_max_guests"      table:"listings"`
	ListingAmenities     string          `column:"amenities"       db:"listing_amenities"       table:"listings"`
	ListingImage         *string         `column:"image"           db:"listing_image"           table:"listings"`
	ListingAvailable     bool            `column:"available"       db:"listing_available"       table:"listings"`

	ReviewerUsername  string `column:"username"   db:"reviewer_username"   table:"reviewers"`
	ReviewerFirstName string `column:"first_name" db:"reviewer_first_name" table:"reviewers"`
	ReviewerLastName  string `column:"last_name"  db:"reviewer_last_name"  table:"reviewers"`
	ReviewerEmail     string `column:"email"      db:"reviewer_email"      table:"reviewers"`
}

func (Review) GetJoinQuery() string {
	return `JOIN listings ON listings.id = reviews.listing_id
		JOIN users reviewers ON reviewers.id = reviews.user_id`
}

func (r Review) Listing() listingModel.Listing {
	return listingModel.Listing{
		ID:            r.ListingID,
		HostID:        r.ListingHostID,
		Name:          r.ListingName,
		Location:      r.ListingLocation,
		PricePerNight: r.ListingPricePerNight,
		PropertyType:  r.ListingPropertyType,
		MaxGuests:     r.ListingMaxGuests,
		Amenities:     r.ListingAmenities,
		Image:         r.ListingImage,
		Available:     r.ListingAvailable,
	}
}

func (r Review) Reviewer() userModel.User {
	return userModel.User{
		ID:        r.UserID,
		Username:  r.ReviewerUsername,
		FirstName: r.ReviewerFirstName,
		LastName:  r.ReviewerLastName,
		Email:     r.ReviewerEmail,
	}
}
