package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	authDto "travel/internal/domains/auth/model/dto"
	authService "travel/internal/domains/auth/service"
	bookingModel "travel/internal/domains/booking/model"
	bookingDto "travel/internal/domains/booking/model/dto"
	bookingRepo "travel/internal/domains/booking/repository"
	bookingService "travel/internal/domains/booking/service"
	listingModel "travel/internal/domains/listing/model"
	listingDto "travel/internal/domains/listing/model/dto"
	listingRepo "travel/internal/domains/listing/repository"
	listingService "travel/internal/domains/listing/service"
	reviewModel "travel/internal/domains/review/model"
	reviewDto "travel/internal/domains/review/model/dto"
	reviewRepo "travel/internal/domains/review/repository"
	reviewService "travel/internal/domains/review/service"
	userModel "travel/internal/domains/user/model"
	userRepo "travel/internal/domains/user/repository"
	"travel/shared"
	"travel/shared/cache"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
	"travel/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Password shared by every seeded account.
const Password = "password123"

const (
	fieldCreatedAt   = "created_at"
	msgNegativeCount = "seed counts must not be negative"
)

// Options sets how many records of each kind to create.
type Options struct {
	Users    int
	Listings int
	Bookings int
	Reviews  int
	Clear    bool
	// Seed fixes the random source. Zero picks one from the clock.
	Seed uint64
}

func DefaultOptions() Options {
	return Options{Users: 10, Listings: 20, Bookings: 30, Reviews: 25}
}

type Report struct {
	Users    int
	Listings int
	Bookings int
	Reviews  int
}

type user struct {
	id   string
	role string
}

type Seeder struct {
	auth     authService.Auth
	listings listingService.Listing
	bookings bookingService.Booking
	reviews  reviewService.Review

	userRepo    userRepo.User
	listingRepo listingRepo.Listing
	bookingRepo bookingRepo.Booking
	reviewRepo  reviewRepo.Review

	cache cache.RedisCache
	rand  *rand.Rand
}

func New(
	auth authService.Auth,
	listings listingService.Listing,
	bookings bookingService.Booking,
	reviews reviewService.Review,
	userRepo userRepo.User,
	listingRepo listingRepo.Listing,
	bookingRepo bookingRepo.Booking,
	reviewRepo reviewRepo.Review,
	cache cache.RedisCache,
) *Seeder {
	return &Seeder{
		auth:        auth,
		listings:    listings,
		bookings:    bookings,
		reviews:     reviews,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		cache:       cache,
	}
}

// Run creates users, listings, bookings and reviews through the services, so every record
// passes the same validation as an API request. Records a rule rejects are skipped.
func (s *Seeder) Run(ctx context.Context, opts Options) (report Report, err error) {
	if min(opts.Users, opts.Listings, opts.Bookings, opts.Reviews) < 0 {
		return report, failure.BadRequestFromString(msgNegativeCount) // nolint:wrapcheck
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) // nolint:gosec
	}

	s.rand = rand.New(rand.NewPCG(seed, seed>>1)) // nolint:gosec

	if opts.Clear {
		if err = s.clear(ctx); err != nil {
			return report, err
		}

		log.Info().Msg("existing data cleared")
	}

	users, err := s.createUsers(ctx, opts.Users)
	if err != nil {
		return report, err
	}

	listings, err := s.createListings(ctx, users, opts.Listings)
	if err != nil {
		return report, err
	}

	bookings, err := s.createBookings(ctx, users, listings, opts.Bookings)
	if err != nil {
		return report, err
	}

	reviews, err := s.createReviews(ctx, users, listings, bookings, opts.Reviews)
	if err != nil {
		return report, err
	}

	report = Report{Users: len(users), Listings: len(listings), Bookings: len(bookings), Reviews: reviews}

	log.Info().
		Int("users", report.Users).
		Int("listings", report.Listings).
		Int("bookings", report.Bookings).
		Int("reviews", report.Reviews).
		Msg("database seeded")

	return report, nil
}

// clear removes every review, booking and listing, then every account except admins.
func (s *Seeder) clear(ctx context.Context) error {
	now := timezone.Now()

	steps := []struct {
		name   string
		delete func(context.Context, gDto.FilterGroup) error
		filter gDto.FilterGroup
	}{
		{name: "reviews", delete: s.reviewRepo.Delete, filter: createdBefore(reviewModel.TableName, now)},
		{name: "bookings", delete: s.bookingRepo.Delete, filter: createdBefore(bookingModel.TableName, now)},
		{name: "listings", delete: s.listingRepo.Delete, filter: createdBefore(listingModel.TableName, now)},
		{name: "users", delete: s.userRepo.Delete, filter: gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{gDto.Filter{
				Field:    userModel.FieldRole,
				Value:    constant.RoleAdmin,
				Operator: gDto.FilterOperatorNotEq,
				Table:    userModel.TableName,
			}},
		}},
	}

	for _, step := range steps {
		if err := step.delete(ctx, step.filter); err != nil {
			return fmt.Errorf("failed to clear %s: %w", step.name, err)
		}
	}

	for _, prefix := range cachePrefixes {
		shared.InvalidateCaches(ctx, s.cache, prefix)
	}

	return nil
}

func createdBefore(table string, at time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{gDto.Filter{
			Field:    fieldCreatedAt,
			Value:    at,
			Operator: gDto.FilterOperatorLessEq,
			Table:    table,
		}},
	}
}

// as runs a call on behalf of a seeded account.
func as(ctx context.Context, id, role string) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

// rejected reports whether err is a rule violation the seeder should skip past.
func rejected(err error) bool {
	code := failure.GetCode(err)

	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// weighted draws an index with probability proportional to weights.
func weighted(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}

	n := r.IntN(total)
	for i, w := range weights {
		if n < w {
			return i
		}

		n -= w
	}

	return len(weights) - 1
}

func (s *Seeder) between(low, high int) int {
	return low + s.rand.IntN(high-low+1)
}

func (s *Seeder) createUsers(ctx context.Context, count int) ([]user, error) {
	users := make([]user, 0, count)

	for i := range count {
		first, last := pick(s.rand, firstNames), pick(s.rand, lastNames)
		username := fmt.Sprintf("%s%s%d", strings.ToLower(first), strings.ToLower(last), i+1)

		role := constant.RoleGuest
		if i%2 == 0 {
			role = constant.RoleHost
		}

		res, err := s.auth.Register(ctx, authDto.RegisterRequest{
			Username:  username,
			FirstName: first,
			LastName:  last,
			Email:     username + "@example.com",
			Password:  Password,
			Role:      role,
		})
		if err != nil {
			if rejected(err) {
				log.Debug().Err(err).Str("username", username).Msg("seed user skipped")

				continue
			}

			return users, fmt.Errorf("failed to seed user: %w", err)
		}

		users = append(users, user{id: res.ID, role: role})
	}

	return users, nil
}

func (s *Seeder) createListings(ctx context.Context, users []user, count int) ([]listingDto.ListingResponse, error) {
	hosts := make([]user, 0, len(users))
	for _, u := range users {
		if u.role == constant.RoleHost {
			hosts = append(hosts, u)
		}
	}

	if len(hosts) == 0 {
		log.Warn().Msg("no hosts seeded, skipping listings")

		return nil, nil
	}

	listings := make([]listingDto.ListingResponse, 0, count)

	for i := range count {
		host := pick(s.rand, hosts)
		maxGuests := s.between(1, 8)
		bedrooms := s.between(1, 4)
		bathrooms := s.between(1, 3)
		available := s.rand.IntN(4) != 0

		res, err := s.listings.Create(as(ctx, host.id, host.role), listingDto.CreateListingRequest{
			Name:          fmt.Sprintf("%s %d", pick(s.rand, listingNames), i+1),
			Description:   pick(s.rand, descriptions),
			Location:      pick(s.rand, locations),
			PricePerNight: decimal.NewFromInt(int64(s.between(50, 500))),
			PropertyType:  pick(s.rand, propertyTypes),
			MaxGuests:     &maxGuests,
			Bedrooms:      &bedrooms,
			Bathrooms:     &bathrooms,
			Amenities:     pick(s.rand, amenities),
			Available:     &available,
		})
		if err != nil {
			if rejected(err) {
				log.Debug().Err(err).Msg("seed listing skipped")

				continue
			}

			return listings, fmt.Errorf("failed to seed listing: %w", err)
		}

		listings = append(listings, res)
	}

	return listings, nil
}

func (s *Seeder) createBookings(
	ctx context.Context,
	users []user,
	listings []listingDto.ListingResponse,
	count int,
) ([]bookingDto.BookingResponse, error) {
	open := make([]listingDto.ListingResponse, 0, len(listings))
	for _, l := range listings {
		if l.Available {
			open = append(open, l)
		}
	}

	if len(open) == 0 {
		log.Warn().Msg("no available listings, skipping bookings")

		return nil, nil
	}

	today := timezone.Now().Truncate(24 * time.Hour)
	bookings := make([]bookingDto.BookingResponse, 0, count)

	for range count {
		listing := pick(s.rand, open)

		guests := othersThan(users, listing.HostID)
		if len(guests) == 0 {
			continue
		}

		guest := pick(s.rand, guests)
		checkIn := today.AddDate(0, 0, s.between(-90, 90))
		checkOut := checkIn.AddDate(0, 0, s.between(1, 14))
		party := s.between(1, max(1, min(listing.MaxGuests, 6)))

		res, err := s.bookings.Create(as(ctx, guest.id, guest.role), bookingDto.CreateBookingRequest{
			ListingID:       listing.ID,
			CheckInDate:     timezone.FormatDate(checkIn),
			CheckOutDate:    timezone.FormatDate(checkOut),
			NumberOfGuests:  &party,
			SpecialRequests: pick(s.rand, specialRequests),
		})
		if err != nil {
			if rejected(err) {
				log.Debug().Err(err).Str("listing_id", listing.ID).Msg("seed booking skipped")

				continue
			}

			return bookings, fmt.Errorf("failed to seed booking: %w", err)
		}

		status := bookingStatuses[weighted(s.rand, bookingStatusWeights)]
		if status != res.Status {
			res, err = s.bookings.UpdateStatus(as(ctx, listing.HostID, constant.RoleHost), res.ID, bookingDto.UpdateStatusRequest{Status: status})
			if err != nil {
				return bookings, fmt.Errorf("failed to set seeded booking status: %w", err)
			}
		}

		bookings = append(bookings, res)
	}

	return bookings, nil
}

func othersThan(users []user, id string) []user {
	others := make([]user, 0, len(users))
	for _, u := range users {
		if u.id != id {
			others = append(others, u)
		}
	}

	return others
}

// createReviews reviews completed stays first, then tops up with reviews not tied to a booking.
func (s *Seeder) createReviews(
	ctx context.Context,
	users []user,
	listings []listingDto.ListingResponse,
	bookings []bookingDto.BookingResponse,
	count int,
) (int, error) {
	created := 0

	review := func(callerID, role string, req reviewDto.CreateReviewRequest) error {
		req.Rating = weighted(s.rand, ratingWeights) + 1
		req.Comment = pick(s.rand, comments)

		if _, err := s.reviews.Create(as(ctx, callerID, role), req); err != nil {
			if rejected(err) {
				log.Debug().Err(err).Str("listing_id", req.ListingID).Msg("seed review skipped")

				return nil
			}

			return fmt.Errorf("failed to seed review: %w", err)
		}

		created++

		return nil
	}

	for _, b := range bookings {
		if created == count {
			return created, nil
		}

		if b.Status != bookingModel.StatusCompleted {
			continue
		}

		if err := review(b.UserID, constant.RoleGuest, reviewDto.CreateReviewRequest{ListingID: b.ListingID, BookingID: &b.ID}); err != nil {
			return created, err
		}
	}

	for attempts := 0; created < count && attempts < count && len(listings) > 0; attempts++ {
		listing := pick(s.rand, listings)

		reviewers := othersThan(users, listing.HostID)
		if len(reviewers) == 0 {
			continue
		}

		reviewer := pick(s.rand, reviewers)

		if err := review(reviewer.id, reviewer.role, reviewDto.CreateReviewRequest{ListingID: listing.ID}); err != nil {
			return created, err
		}
	}

	return created, nil
}
