package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"travel/config"
	"travel/infras/otel/mocks"
	pgMocks "travel/infras/postgres/mocks"
	bookingMocks "travel/internal/domains/booking/mocks"
	"travel/internal/domains/booking/model"
	"travel/internal/domains/booking/model/dto"
	"travel/internal/domains/booking/service"
	listingMocks "travel/internal/domains/listing/mocks"
	listingModel "travel/internal/domains/listing/model"
	userMocks "travel/internal/domains/user/mocks"
	eventMocks "travel/internal/events/mocks"
	cacheMocks "travel/shared/cache/mocks"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
)

type fixture struct {
	svc       service.Booking
	bookings  *bookingMocks.MockBooking
	listings  *listingMocks.MockListing
	users     *userMocks.MockUser
	tx        *pgMocks.MockTransaction
	cache     *cacheMocks.MockRedisCache
	publisher *eventMocks.MockPublisher
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		bookings:  bookingMocks.NewMockBooking(ctrl),
		listings:  listingMocks.NewMockListing(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		tx:        pgMocks.NewMockTransaction(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.publisher.EXPECT().PublishBooking(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.tx.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		}).AnyTimes()

	f.svc = service.New(f.bookings, f.listings, f.users, f.tx, &config.Config{}, f.cache, mocks.NewOtel(), f.publisher)

	return f
}

func asUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func intPtr(v int) *int { return &v }

func beachHouse() listingModel.Listing {
	return listingModel.Listing{
		ID:            "l-1",
		HostID:        "host-1",
		PricePerNight: decimal.RequireFromString("100.00"),
		MaxGuests:     4,
		Available:     true,
	}
}

// existing is a confirmed stay from the 10th to the 15th.
var existing = model.Booking{
	ID:           "b-existing",
	ListingID:    "l-1",
	CheckInDate:  time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
	CheckOutDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	Status:       model.StatusConfirmed,
}

// overlapsExisting evaluates an overlap filter against the existing booking.
func overlapsExisting(filter gDto.FilterGroup) bool {
	_, args := filter.GetWhereClause()

	if args["exclude_id"] == existing.ID {
		return false
	}

	newCheckIn, _ := args["new_check_in"].(string)
	newCheckOut, _ := args["new_check_out"].(string)

	return "2024-03-10" < newCheckOut && "2024-03-15" > newCheckIn
}

func request(checkIn, checkOut string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{ListingID: "l-1", CheckInDate: checkIn, CheckOutDate: checkOut}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		listing   listingModel.Listing
		setupMock func(f fixture)
		wantField string
		wantMsg   string
		wantTotal string
	}{
		{
			name:    "adjacent stay is accepted",
			req:     request("2024-03-15", "2024-03-18"),
			listing: beachHouse(),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().LockListing(gomock.Any(), gomock.Any(), "l-1").Return(nil)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
						return overlapsExisting(filter), nil
					})
				f.bookings.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, "300.00", booking.TotalPrice.StringFixed(2))
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, "guest-1", booking.UserID)

						return nil
					})
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "b-1", TotalPrice: decimal.RequireFromString("300")}, nil)
			},
			wantTotal: "300.00",
		},
		{
			name:    "overlapping stay is rejected",
			req:     request("2024-03-12", "2024-03-18"),
			listing: beachHouse(),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().LockListing(gomock.Any(), gomock.Any(), "l-1").Return(nil)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
						return overlapsExisting(filter), nil
					})
			},
			wantMsg: dto.MsgDatesUnavailable,
		},
		{
			name:      "check out before check in",
			req:       request("2024-03-12", "2024-03-12"),
			listing:   beachHouse(),
			setupMock: func(fixture) {},
			wantField: "check_out_date",
			wantMsg:   dto.MsgCheckOutAfterCheckIn,
		},
		{
			name: "too many guests",
			req: func() dto.CreateBookingRequest {
				req := request("2024-03-15", "2024-03-18")
				req.NumberOfGuests = intPtr(5)

				return req
			}(),
			listing:   beachHouse(),
			setupMock: func(fixture) {},
			wantField: "number_of_guests",
			wantMsg:   "Number of guests (5) exceeds maximum allowed (4)",
		},
		{
			name: "listing not available",
			req:  request("2024-03-15", "2024-03-18"),
			listing: func() listingModel.Listing {
				listing := beachHouse()
				listing.Available = false

				return listing
			}(),
			setupMock: func(fixture) {},
			wantField: "listing_id",
			wantMsg:   "This listing is not available for booking",
		},
		{
			name:      "unknown listing",
			req:       request("2024-03-15", "2024-03-18"),
			listing:   listingModel.Listing{},
			setupMock: func(fixture) {},
			wantField: "listing_id",
			wantMsg:   "Invalid listing ID",
		},
		{
			name:    "exclusion constraint race",
			req:     request("2024-03-15", "2024-03-18"),
			listing: beachHouse(),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().LockListing(gomock.Any(), gomock.Any(), "l-1").Return(nil)
				f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.bookings.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeExclusionViolation})
			},
			wantMsg: dto.MsgDatesUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.wantField != "check_out_date" {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.listing, nil)
			}

			tt.setupMock(f)

			res, err := f.svc.Create(asUser("guest-1", constant.RoleGuest), tt.req)

			if tt.wantMsg != "" {
				validation, ok := failure.AsValidation(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantField, validation.Field)
				assert.Equal(t, tt.wantMsg, validation.Message)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalPrice)
		})
	}
}

func TestBookingService_Create_GuestRequired(t *testing.T) {
	f := newFixture(t)
	f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(beachHouse(), nil)

	_, err := f.svc.Create(context.Background(), request("2024-03-15", "2024-03-18"))

	validation, ok := failure.AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, "user_id", validation.Field)
}

func TestBookingService_Validate(t *testing.T) {
	f := newFixture(t)
	f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(beachHouse(), nil).Times(2)
	f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			return overlapsExisting(filter), nil
		}).Times(2)

	assert.NoError(t, f.svc.Validate(context.Background(), request("2024-03-05", "2024-03-10")))

	err := f.svc.Validate(context.Background(), request("2024-03-14", "2024-03-16"))
	validation, ok := failure.AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, dto.MsgDatesUnavailable, validation.Message)
}

func TestBookingService_Update(t *testing.T) {
	stored := model.Booking{
		ID:                   "b-1",
		ListingID:            "l-1",
		UserID:               "guest-1",
		CheckInDate:          time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
		CheckOutDate:         time.Date(2024, time.March, 22, 0, 0, 0, 0, time.UTC),
		NumberOfGuests:       2,
		Status:               model.StatusPending,
		ListingHostID:        "host-1",
		ListingPricePerNight: decimal.RequireFromString("100.00"),
		ListingMaxGuests:     4,
	}

	t.Run("moving dates rechecks overlap excluding itself", func(t *testing.T) {
		f := newFixture(t)
		checkOut := "2024-03-25"

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil).Times(2)
		f.bookings.EXPECT().LockListing(gomock.Any(), gomock.Any(), "l-1").Return(nil)
		f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "b-1", args["exclude_id"])

				return false, nil
			})
		f.bookings.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				total, ok := fields["total_price"].(decimal.Decimal)
				assert.True(t, ok)
				assert.Equal(t, "500.00", total.StringFixed(2))

				return nil
			})

		_, err := f.svc.Update(asUser("guest-1", constant.RoleGuest), "b-1", dto.UpdateBookingRequest{CheckOutDate: &checkOut})
		assert.NoError(t, err)
	})

	t.Run("guest count only skips overlap check", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil).Times(2)
		f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Update(asUser("guest-1", constant.RoleGuest), "b-1", dto.UpdateBookingRequest{NumberOfGuests: intPtr(3)})
		assert.NoError(t, err)
	})

	t.Run("other guest is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		_, err := f.svc.Update(asUser("guest-2", constant.RoleGuest), "b-1", dto.UpdateBookingRequest{NumberOfGuests: intPtr(3)})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(asUser("guest-1", constant.RoleGuest), "b-1", dto.UpdateBookingRequest{})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantMsg string
	}{
		{name: "pending booking", status: model.StatusPending},
		{name: "completed booking", status: model.StatusCompleted, wantMsg: "Cannot cancel a completed booking"},
		{name: "already cancelled", status: model.StatusCancelled, wantMsg: "Booking is already cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			booking := model.Booking{ID: "b-1", ListingID: "l-1", UserID: "guest-1", Status: tt.status}

			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

			if tt.wantMsg == "" {
				f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCancelled, fields["status"])

						return nil
					})

				cancelled := booking
				cancelled.Status = model.StatusCancelled
				f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
			}

			res, err := f.svc.Cancel(asUser("guest-1", constant.RoleGuest), "b-1")

			if tt.wantMsg != "" {
				validation, ok := failure.AsValidation(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantMsg, validation.Message)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, res.Status)
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateStatus(asUser("host-1", constant.RoleHost), "b-1", dto.UpdateStatusRequest{Status: "archived"})

		validation, ok := failure.AsValidation(err)
		assert.True(t, ok)
		assert.Equal(t, "status", validation.Field)
	})

	t.Run("reviving a cancelled booking into taken dates", func(t *testing.T) {
		f := newFixture(t)
		cancelled := existing
		cancelled.ID = "b-2"
		cancelled.Status = model.StatusCancelled
		cancelled.ListingHostID = "host-1"

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
		f.bookings.EXPECT().LockListing(gomock.Any(), gomock.Any(), "l-1").Return(nil)
		f.bookings.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
				return overlapsExisting(filter), nil
			})

		_, err := f.svc.UpdateStatus(asUser("host-1", constant.RoleHost), "b-2", dto.UpdateStatusRequest{Status: model.StatusConfirmed})

		validation, ok := failure.AsValidation(err)
		assert.True(t, ok)
		assert.Equal(t, dto.MsgDatesUnavailable, validation.Message)
	})

	t.Run("host confirms a pending booking", func(t *testing.T) {
		f := newFixture(t)
		pending := model.Booking{ID: "b-1", ListingID: "l-1", UserID: "guest-1", ListingHostID: "host-1", Status: model.StatusPending}
		confirmed := pending
		confirmed.Status = model.StatusConfirmed

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)

		res, err := f.svc.UpdateStatus(asUser("host-1", constant.RoleHost), "b-1", dto.UpdateStatusRequest{Status: model.StatusConfirmed})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
	})
}

func TestBookingService_Get(t *testing.T) {
	stored := model.Booking{
		ID:            "b-1",
		ListingID:     "l-1",
		ListingHostID: "host-1",
		UserID:        "guest-1",
		GuestEmail:    "guest1@example.com",
		Status:        model.StatusPending,
	}

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	tests := []struct {
		name     string
		ctx      context.Context
		wantCode int
	}{
		{name: "guest", ctx: asUser("guest-1", constant.RoleGuest)},
		{name: "listing host", ctx: asUser("host-1", constant.RoleHost)},
		{name: "admin", ctx: asUser("admin-1", constant.RoleAdmin)},
		{name: "stranger", ctx: asUser("stranger-9", constant.RoleGuest), wantCode: http.StatusForbidden},
		{name: "anonymous", ctx: context.Background(), wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name+" from database", func(t *testing.T) {
			f := newFixture(t)

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

			res, err := f.svc.Get(tt.ctx, "b-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Empty(t, res.User.Email)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "guest1@example.com", res.User.Email)
		})

		t.Run(tt.name+" from cache", func(t *testing.T) {
			f := newFixture(t)

			var cached dto.BookingResponse
			cached.FromModel(stored)

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, dest any) error {
					*dest.(*dto.BookingResponse) = cached

					return nil
				})

			res, err := f.svc.Get(tt.ctx, "b-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Empty(t, res.User.Email)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "b-1", res.ID)
		})
	}
}

func TestBookingService_Mine(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Mine(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.BookingFilter{})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("scoped to caller", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
		f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "guest-1", args["user_id"])

				return 1, nil
			})
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{{ID: "b-1", UserID: "guest-1"}}, nil)

		res, err := f.svc.Mine(asUser("guest-1", constant.RoleGuest), gDto.QueryParams{Page: 1, Limit: 10}, dto.BookingFilter{})

		assert.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
