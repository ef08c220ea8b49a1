package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"travel/internal/domains/booking/model"
	"travel/internal/domains/booking/model/dto"
	"travel/shared/failure"
)

func date(day int) time.Time {
	return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateBookingRequest_Stay(t *testing.T) {
	tests := []struct {
		name      string
		checkIn   string
		checkOut  string
		wantField string
		wantMsg   string
		nights    int
	}{
		{name: "three nights", checkIn: "2024-03-10", checkOut: "2024-03-13", nights: 3},
		{name: "same day", checkIn: "2024-03-10", checkOut: "2024-03-10", wantField: "check_out_date", wantMsg: dto.MsgCheckOutAfterCheckIn},
		{name: "reversed", checkIn: "2024-03-12", checkOut: "2024-03-10", wantField: "check_out_date", wantMsg: dto.MsgCheckOutAfterCheckIn},
		{name: "bad check in", checkIn: "10/03/2024", checkOut: "2024-03-12", wantField: "check_in_date", wantMsg: dto.MsgInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateBookingRequest{CheckInDate: tt.checkIn, CheckOutDate: tt.checkOut}

			stay, err := req.Stay()

			if tt.wantMsg != "" {
				validation, ok := failure.AsValidation(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantField, validation.Field)
				assert.Equal(t, tt.wantMsg, validation.Message)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.nights, stay.Nights())
		})
	}
}

func TestValidateGuests(t *testing.T) {
	assert.NoError(t, dto.ValidateGuests(4, 4))

	validation, ok := failure.AsValidation(dto.ValidateGuests(5, 4))
	assert.True(t, ok)
	assert.Equal(t, "number_of_guests", validation.Field)
	assert.Equal(t, "Number of guests (5) exceeds maximum allowed (4)", validation.Message)
}

func TestStay_OverlapFilter(t *testing.T) {
	stay := dto.Stay{CheckIn: date(12), CheckOut: date(18)}

	where, args := stay.OverlapFilter("l-1", "").GetWhereClause()

	assert.Contains(t, where, "bookings.listing_id = :listing_id")
	assert.Contains(t, where, "bookings.status IN (:status_0, :status_1)")
	assert.Contains(t, where, "bookings.check_in_date < :new_check_out")
	assert.Contains(t, where, "bookings.check_out_date > :new_check_in")
	assert.NotContains(t, where, "exclude_id")
	assert.Equal(t, "2024-03-18", args["new_check_out"])
	assert.Equal(t, "2024-03-12", args["new_check_in"])
	assert.Equal(t, model.StatusPending, args["status_0"])
	assert.Equal(t, model.StatusConfirmed, args["status_1"])

	where, args = stay.OverlapFilter("l-1", "b-1").GetWhereClause()

	assert.Contains(t, where, "bookings.id != :exclude_id")
	assert.Equal(t, "b-1", args["exclude_id"])
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{ListingID: "l-1", SpecialRequests: "late arrival"}
	stay := dto.Stay{CheckIn: date(10), CheckOut: date(13)}

	booking := req.ToModel("u-1", "u-1", stay, decimal.RequireFromString("300"))

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, 1, booking.NumberOfGuests)
	assert.Equal(t, 3, booking.DurationNights())
	assert.Equal(t, "300.00", booking.TotalPrice.StringFixed(2))
}

func TestUpdateBookingRequest(t *testing.T) {
	stored := model.Booking{CheckInDate: date(10), CheckOutDate: date(15), NumberOfGuests: 2}
	checkOut := "2024-03-16"
	same := "2024-03-10"

	req := dto.UpdateBookingRequest{CheckInDate: &same, CheckOutDate: &checkOut}

	assert.True(t, req.DatesChanged(stored))
	assert.Equal(t, 2, req.Guests(stored))

	stay, err := req.Stay(stored)
	assert.NoError(t, err)
	assert.Equal(t, 6, stay.Nights())

	unchanged := dto.UpdateBookingRequest{CheckInDate: &same}
	assert.False(t, unchanged.DatesChanged(stored))
	assert.True(t, (&dto.UpdateBookingRequest{}).IsEmpty())
}

func TestUpdateStatusRequest_Validate(t *testing.T) {
	for _, status := range model.Statuses {
		req := dto.UpdateStatusRequest{Status: status}
		assert.NoError(t, req.Validate())
	}

	req := dto.UpdateStatusRequest{Status: "archived"}
	validation, ok := failure.AsValidation(req.Validate())
	assert.True(t, ok)
	assert.Equal(t, "Invalid status. Must be one of: pending, confirmed, cancelled, completed", validation.Message)
}

func TestBookingResponse_FromModel(t *testing.T) {
	var res dto.BookingResponse
	res.FromModel(model.Booking{
		ID:                   "b-1",
		ListingID:            "l-1",
		UserID:               "u-1",
		CheckInDate:          date(10),
		CheckOutDate:         date(13),
		TotalPrice:           decimal.RequireFromString("300"),
		ListingName:          "Beach house",
		ListingPricePerNight: decimal.RequireFromString("100"),
		ListingAmenities:     "wifi",
		GuestUsername:        "ana",
	})

	assert.Equal(t, "2024-03-10", res.CheckInDate)
	assert.Equal(t, "2024-03-13", res.CheckOutDate)
	assert.Equal(t, 3, res.DurationNights)
	assert.Equal(t, "300.00", res.TotalPrice)
	assert.Equal(t, "Beach house", res.Listing.Name)
	assert.Equal(t, "100.00", res.Listing.PricePerNight)
	assert.Equal(t, "ana", res.User.Username)
	assert.Equal(t, "u-1", res.User.ID)
}

func TestBookingFilter(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/bookings?status=pending&listing_id=l-1", nil)

	var filter dto.BookingFilter
	filter.FromRequest(req)

	where, args := filter.ToFilterGroup().GetWhereClause()

	assert.Equal(t, "(bookings.status = :status AND bookings.listing_id = :listing_id)", where)
	assert.Equal(t, "pending", args["status"])
}
