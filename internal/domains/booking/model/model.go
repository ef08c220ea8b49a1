package model

import (
	"time"

	listingModel "travel/internal/domains/listing/model"
	userModel "travel/internal/domains/user/model"
	"travel/shared/model"
	"travel/shared/timezone"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldListingID       = "listing_id"
	FieldUserID          = "user_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldNumberOfGuests  = "number_of_guests"
	FieldTotalPrice      = "total_price"
	FieldStatus          = "status"
	FieldSpecialRequests = "special_requests"
)

const (
	CacheGet    = "booking:get"
	CacheGetAll = "booking:gets"
	CacheCount  = "booking:count"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Statuses lists every booking status in display order.
var Statuses = []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// BlockingStatuses hold their dates; cancelled and completed bookings never block a new one.
var BlockingStatuses = []string{StatusPending, StatusConfirmed}

func IsBlocking(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

type Booking struct {
	ID              string          `db:"id"`
	ListingID       string          `db:"listing_id"`
	UserID          string          `db:"user_id"`
	CheckInDate     time.Time       `db:"check_in_date"`
	CheckOutDate    time.Time       `db:"check_out_date"`
	NumberOfGuests  int             `db:"number_of_guests"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	Status          string          `db:"status"`
	SpecialRequests string          `db:"special_requests"`
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

	GuestUsername  string `column:"username"   db:"guest_username"   table:"guests"`
	GuestFirstName string `column:"first_name" db:"guest_first_name" table:"guests"`
	GuestLastName  string `column:"last_name"  db:"guest_last_name"  table:"guests"`
	GuestEmail     string `column:"email"      db:"guest_email"      table:"guests"`
}

func (Booking) GetJoinQuery() string {
	return `JOIN listings ON listings.id = bookings.listing_id
		JOIN users guests ON guests.id = bookings.user_id`
}

// DurationNights is the number of nights between check-in and check-out.
func (b Booking) DurationNights() int {
	return timezone.DaysBetween(b.CheckInDate, b.CheckOutDate)
}

func (b Booking) Listing() listingModel.Listing {
	return listingModel.Listing{
		ID:            b.ListingID,
		HostID:        b.ListingHostID,
		Name:          b.ListingName,
		Location:      b.ListingLocation,
		PricePerNight: b.ListingPricePerNight,
		PropertyType:  b.ListingPropertyType,
		MaxGuests:     b.ListingMaxGuests,
		Amenities:     b.ListingAmenities,
		Image:         b.ListingImage,
		Available:     b.ListingAvailable,
	}
}

func (b Booking) Guest() userModel.User {
	return userModel.User{
		ID:        b.UserID,
		Username:  b.GuestUsername,
		FirstName: b.GuestFirstName,
		LastName:  b.GuestLastName,
		Email:     b.GuestEmail,
	}
}
