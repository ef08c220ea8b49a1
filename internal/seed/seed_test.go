package seed_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	authMocks "travel/internal/domains/auth/mocks"
	authDto "travel/internal/domains/auth/model/dto"
	bookingMocks "travel/internal/domains/booking/mocks"
	bookingModel "travel/internal/domains/booking/model"
	bookingDto "travel/internal/domains/booking/model/dto"
	listingMocks "travel/internal/domains/listing/mocks"
	listingDto "travel/internal/domains/listing/model/dto"
	reviewMocks "travel/internal/domains/review/mocks"
	reviewDto "travel/internal/domains/review/model/dto"
	userMocks "travel/internal/domains/user/mocks"
	userDto "travel/internal/domains/user/model/dto"
	"travel/internal/seed"
	"travel/shared"
	cacheMocks "travel/shared/cache/mocks"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
)

type fixture struct {
	seeder *seed.Seeder

	auth     *authMocks.MockAuthService
	listings *listingMocks.MockListingService
	bookings *bookingMocks.MockBookingService
	reviews  *reviewMocks.MockReviewService

	userRepo    *userMocks.MockUser
	listingRepo *listingMocks.MockListing
	bookingRepo *bookingMocks.MockBooking
	reviewRepo  *reviewMocks.MockReview
	cache       *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		auth:        authMocks.NewMockAuthService(ctrl),
		listings:    listingMocks.NewMockListingService(ctrl),
		bookings:    bookingMocks.NewMockBookingService(ctrl),
		reviews:     reviewMocks.NewMockReviewService(ctrl),
		userRepo:    userMocks.NewMockUser(ctrl),
		listingRepo: listingMocks.NewMockListing(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		reviewRepo:  reviewMocks.NewMockReview(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	f.seeder = seed.New(f.auth, f.listings, f.bookings, f.reviews, f.userRepo, f.listingRepo, f.bookingRepo, f.reviewRepo, f.cache)

	return f
}

// registerByRole answers registrations with ids derived from the requested role.
func registerByRole(t *testing.T) func(context.Context, authDto.RegisterRequest) (userDto.UserResponse, error) {
	return func(_ context.Context, req authDto.RegisterRequest) (userDto.UserResponse, error) {
		assert.Equal(t, seed.Password, req.Password)
		assert.Equal(t, req.Username+"@example.com", req.Email)

		return userDto.UserResponse{ID: req.Role + "-1", Username: req.Username}, nil
	}
}

func TestSeeder_Run(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(registerByRole(t)).Times(2)

	f.listings.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req listingDto.CreateListingRequest) (listingDto.ListingResponse, error) {
			assert.Equal(t, "host-1", shared.UserFromContext(ctx))
			assert.Nil(t, req.HostID)
			assert.True(t, req.PricePerNight.IsPositive())
			assert.NoError(t, req.Validate())

			return listingDto.ListingResponse{ID: "l-1", HostID: "host-1", MaxGuests: 4, Available: true}, nil
		})

	f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req bookingDto.CreateBookingRequest) (bookingDto.BookingResponse, error) {
			assert.Equal(t, "guest-1", shared.UserFromContext(ctx))
			assert.Equal(t, "l-1", req.ListingID)
			assert.LessOrEqual(t, *req.NumberOfGuests, 4)

			stay, err := req.Stay()
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, stay.Nights(), 1)
			assert.LessOrEqual(t, stay.Nights(), 14)

			return bookingDto.BookingResponse{ID: "b-1", ListingID: "l-1", UserID: "guest-1", Status: bookingModel.StatusPending}, nil
		})
	f.bookings.EXPECT().UpdateStatus(gomock.Any(), "b-1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, req bookingDto.UpdateStatusRequest) (bookingDto.BookingResponse, error) {
			assert.Equal(t, "host-1", shared.UserFromContext(ctx))

			return bookingDto.BookingResponse{ID: "b-1", ListingID: "l-1", UserID: "guest-1", Status: req.Status}, nil
		}).MaxTimes(1)

	f.reviews.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req reviewDto.CreateReviewRequest) (reviewDto.ReviewResponse, error) {
			assert.Equal(t, "guest-1", shared.UserFromContext(ctx))
			assert.Equal(t, "l-1", req.ListingID)
			assert.NoError(t, req.Validate())

			return reviewDto.ReviewResponse{ID: "r-1"}, nil
		})

	report, err := f.seeder.Run(context.Background(), seed.Options{Users: 2, Listings: 1, Bookings: 1, Reviews: 1, Seed: 7})

	require.NoError(t, err)
	assert.Equal(t, seed.Report{Users: 2, Listings: 1, Bookings: 1, Reviews: 1}, report)
}

func TestSeeder_Run_CompletedStayIsReviewedWithBooking(t *testing.T) {
	f := newFixture(t)
	completed := bookingDto.BookingResponse{ID: "b-1", ListingID: "l-1", UserID: "guest-1", Status: bookingModel.StatusCompleted}

	f.auth.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(registerByRole(t)).Times(2)
	f.listings.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(listingDto.ListingResponse{ID: "l-1", HostID: "host-1", MaxGuests: 2, Available: true}, nil)
	f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(completed, nil)
	f.bookings.EXPECT().UpdateStatus(gomock.Any(), "b-1", gomock.Any()).Return(completed, nil).MaxTimes(1)
	f.reviews.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req reviewDto.CreateReviewRequest) (reviewDto.ReviewResponse, error) {
			assert.Equal(t, "guest-1", shared.UserFromContext(ctx))
			require.NotNil(t, req.BookingID)
			assert.Equal(t, "b-1", *req.BookingID)
			assert.GreaterOrEqual(t, req.Rating, 1)
			assert.LessOrEqual(t, req.Rating, 5)

			return reviewDto.ReviewResponse{ID: "r-1"}, nil
		})

	report, err := f.seeder.Run(context.Background(), seed.Options{Users: 2, Listings: 1, Bookings: 1, Reviews: 1, Seed: 11})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Reviews)
}

func TestSeeder_Run_SkipsRejected(t *testing.T) {
	t.Run("taken username", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.auth.EXPECT().Register(gomock.Any(), gomock.Any()).
				Return(userDto.UserResponse{}, failure.Conflict("A user with that username already exists")),
			f.auth.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(registerByRole(t)),
		)

		report, err := f.seeder.Run(context.Background(), seed.Options{Users: 2, Listings: 3, Bookings: 3, Reviews: 3, Seed: 1})

		require.NoError(t, err)
		assert.Equal(t, seed.Report{Users: 1}, report)
	})

	t.Run("overlapping dates", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(registerByRole(t)).Times(2)
		f.listings.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(listingDto.ListingResponse{ID: "l-1", HostID: "host-1", MaxGuests: 3, Available: true}, nil)
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(bookingDto.BookingResponse{}, bookingDto.DatesUnavailable()).Times(3)

		report, err := f.seeder.Run(context.Background(), seed.Options{Users: 2, Listings: 1, Bookings: 3, Seed: 3})

		require.NoError(t, err)
		assert.Equal(t, seed.Report{Users: 2, Listings: 1}, report)
	})

	t.Run("unavailable listing is never booked", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(registerByRole(t)).Times(2)
		f.listings.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(listingDto.ListingResponse{ID: "l-1", HostID: "host-1", MaxGuests: 3, Available: false}, nil)

		report, err := f.seeder.Run(context.Background(), seed.Options{Users: 2, Listings: 1, Bookings: 5, Seed: 5})

		require.NoError(t, err)
		assert.Zero(t, report.Bookings)
	})
}

func TestSeeder_Run_Errors(t *testing.T) {
	t.Run("negative count", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.seeder.Run(context.Background(), seed.Options{Users: -1})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("storage failure stops the run", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(userDto.UserResponse{}, errors.New("connection refused"))

		_, err := f.seeder.Run(context.Background(), seed.Options{Users: 3})

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestSeeder_Run_Clear(t *testing.T) {
	f := newFixture(t)

	var cleared []string

	f.reviewRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) error {
			where, args := filter.GetWhereClause()
			assert.Equal(t, "(reviews.created_at <= :created_at)", where)
			assert.IsType(t, time.Time{}, args["created_at"])
			cleared = append(cleared, "reviews")

			return nil
		})
	f.bookingRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.FilterGroup) error {
			cleared = append(cleared, "bookings")

			return nil
		})
	f.listingRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.FilterGroup) error {
			cleared = append(cleared, "listings")

			return nil
		})
	f.userRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) error {
			where, args := filter.GetWhereClause()
			assert.Equal(t, "(users.role != :role)", where)
			assert.Equal(t, constant.RoleAdmin, args["role"])
			cleared = append(cleared, "users")

			return nil
		})
	f.cache.EXPECT().Clear(gomock.Any(), "listing:get:*").Return(nil)
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).Times(11)

	report, err := f.seeder.Run(context.Background(), seed.Options{Clear: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"reviews", "bookings", "listings", "users"}, cleared)
	assert.Equal(t, seed.Report{}, report)
}
