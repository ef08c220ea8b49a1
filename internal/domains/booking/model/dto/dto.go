package dto

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"travel/internal/domains/booking/model"
	listingDto "travel/internal/domains/listing/model/dto"
	userDto "travel/internal/domains/user/model/dto"
	"travel/shared"
	gDto "travel/shared/dto"
	"travel/shared/failure"
	gModel "travel/shared/model"
	"travel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MsgCheckOutAfterCheckIn = "Check-out date must be after check-in date"
	MsgDatesUnavailable     = "These dates are not available"
	MsgInvalidDate          = "Enter a valid date in YYYY-MM-DD format"

	defaultGuests = 1
)

// Stay is a half-open night range [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func parseStay(checkIn, checkOut string) (Stay, error) {
	in, err := timezone.ParseDate(checkIn)
	if err != nil {
		return Stay{}, failure.Validation(model.FieldCheckInDate, MsgInvalidDate) // nolint:wrapcheck
	}

	out, err := timezone.ParseDate(checkOut)
	if err != nil {
		return Stay{}, failure.Validation(model.FieldCheckOutDate, MsgInvalidDate) // nolint:wrapcheck
	}

	stay := Stay{CheckIn: in, CheckOut: out}

	return stay, stay.Validate()
}

func (s Stay) Validate() error {
	if !s.CheckOut.After(s.CheckIn) {
		return failure.Validation(model.FieldCheckOutDate, MsgCheckOutAfterCheckIn) // nolint:wrapcheck
	}

	return nil
}

func (s Stay) Nights() int {
	return timezone.DaysBetween(s.CheckIn, s.CheckOut)
}

// OverlapFilter matches blocking bookings of a listing whose stay intersects s.
// excludeID leaves out the booking being changed and may be empty.
func (s Stay) OverlapFilter(listingID, excludeID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filter.Add(
		gDto.Filter{Field: model.FieldListingID, Value: listingID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: model.BlockingStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
		gDto.Filter{
			ArgName:  "new_check_out",
			Field:    model.FieldCheckInDate,
			Value:    timezone.FormatDate(s.CheckOut),
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "new_check_in",
			Field:    model.FieldCheckOutDate,
			Value:    timezone.FormatDate(s.CheckIn),
			Operator: gDto.FilterOperatorGreater,
			Table:    model.TableName,
		},
	)

	if excludeID != "" {
		filter.Add(gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return filter
}

// ValidateGuests checks a party size against the listing capacity.
func ValidateGuests(guests, maxGuests int) error {
	if guests > maxGuests {
		return failure.Validation( // nolint:wrapcheck
			model.FieldNumberOfGuests,
			fmt.Sprintf("Number of guests (%d) exceeds maximum allowed (%d)", guests, maxGuests),
		)
	}

	return nil
}

func DatesUnavailable() error {
	return failure.Validation("", MsgDatesUnavailable) // nolint:wrapcheck
}

type CreateBookingRequest struct {
	ListingID       string  `json:"listing_id"                 validate:"required,uuid"`
	UserID          *string `json:"user_id,omitempty"          validate:"omitempty,uuid"`
	CheckInDate     string  `json:"check_in_date"              validate:"required,date"`
	CheckOutDate    string  `json:"check_out_date"             validate:"required,date"`
	NumberOfGuests  *int    `json:"number_of_guests,omitempty" validate:"omitempty,min=1"`
	SpecialRequests string  `json:"special_requests,omitempty"`
}

func (r *CreateBookingRequest) Stay() (Stay, error) {
	return parseStay(r.CheckInDate, r.CheckOutDate)
}

// Guests defaults an omitted party size to one.
func (r *CreateBookingRequest) Guests() int {
	if r.NumberOfGuests == nil {
		return defaultGuests
	}

	return *r.NumberOfGuests
}

func (r *CreateBookingRequest) ToModel(userID, createdBy string, stay Stay, totalPrice decimal.Decimal) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		ListingID:       r.ListingID,
		UserID:          userID,
		CheckInDate:     stay.CheckIn,
		CheckOutDate:    stay.CheckOut,
		NumberOfGuests:  r.Guests(),
		TotalPrice:      totalPrice,
		Status:          model.StatusPending,
		SpecialRequests: r.SpecialRequests,
		Metadata:        gModel.NewMetadata(createdBy, timezone.Now()),
	}
}

type UpdateBookingRequest struct {
	CheckInDate     *string `json:"check_in_date,omitempty"    validate:"omitempty,date"`
	CheckOutDate    *string `json:"check_out_date,omitempty"   validate:"omitempty,date"`
	NumberOfGuests  *int    `json:"number_of_guests,omitempty" validate:"omitempty,min=1"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

func (r *UpdateBookingRequest) IsEmpty() bool {
	return *r == UpdateBookingRequest{}
}

// DatesChanged reports whether the request moves the stay of b.
func (r *UpdateBookingRequest) DatesChanged(b model.Booking) bool {
	return (r.CheckInDate != nil && *r.CheckInDate != timezone.FormatDate(b.CheckInDate)) ||
		(r.CheckOutDate != nil && *r.CheckOutDate != timezone.FormatDate(b.CheckOutDate))
}

// Stay merges the requested dates over the stored ones.
func (r *UpdateBookingRequest) Stay(b model.Booking) (Stay, error) {
	checkIn := timezone.FormatDate(b.CheckInDate)
	if r.CheckInDate != nil {
		checkIn = *r.CheckInDate
	}

	checkOut := timezone.FormatDate(b.CheckOutDate)
	if r.CheckOutDate != nil {
		checkOut = *r.CheckOutDate
	}

	return parseStay(checkIn, checkOut)
}

func (r *UpdateBookingRequest) Guests(b model.Booking) int {
	if r.NumberOfGuests == nil {
		return b.NumberOfGuests
	}

	return *r.NumberOfGuests
}

// BookingChanges is the column set written by a booking update.
type BookingChanges struct {
	CheckInDate     time.Time       `db:"check_in_date"`
	CheckOutDate    time.Time       `db:"check_out_date"`
	NumberOfGuests  int             `db:"number_of_guests"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	SpecialRequests *string         `db:"special_requests"`
}

type UpdateStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required"`
}

func (r *UpdateStatusRequest) Validate() error {
	if !slices.Contains(model.Statuses, r.Status) {
		return failure.Validation( // nolint:wrapcheck
			model.FieldStatus,
			"Invalid status. Must be one of: "+strings.Join(model.Statuses, ", "),
		)
	}

	return nil
}

type BookingResponse struct {
	ID              string                    `json:"id"`
	ListingID       string                    `json:"listing_id"`
	Listing         listingDto.ListingSummary `json:"listing"`
	UserID          string                    `json:"user_id"`
	User            userDto.UserResponse      `json:"user"`
	CheckInDate     string                    `json:"check_in_date"`
	CheckOutDate    string                    `json:"check_out_date"`
	NumberOfGuests  int                       `json:"number_of_guests"`
	TotalPrice      string                    `json:"total_price"`
	Status          string                    `json:"status"`
	SpecialRequests string                    `json:"special_requests"`
	DurationNights  int                       `json:"duration_nights"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.ListingID = m.ListingID
	r.Listing.FromModel(m.Listing())
	r.UserID = m.UserID
	r.User.FromModel(m.Guest())
	r.CheckInDate = timezone.FormatDate(m.CheckInDate)
	r.CheckOutDate = timezone.FormatDate(m.CheckOutDate)
	r.NumberOfGuests = m.NumberOfGuests
	r.TotalPrice = m.TotalPrice.StringFixed(2)
	r.Status = m.Status
	r.SpecialRequests = m.SpecialRequests
	r.DurationNights = m.DurationNights()
	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
