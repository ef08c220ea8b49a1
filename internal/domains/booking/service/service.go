package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"

	"travel/config"
	"travel/infras/otel"
	"travel/infras/postgres"
	"travel/internal/domains/booking/model"
	"travel/internal/domains/booking/model/dto"
	"travel/internal/domains/booking/repository"
	listingModel "travel/internal/domains/listing/model"
	listingRepo "travel/internal/domains/listing/repository"
	userRepo "travel/internal/domains/user/repository"
	"travel/internal/events"
	"travel/shared"
	"travel/shared/cache"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
	"travel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidListing     = "Invalid listing ID"
	msgListingUnavailable = "This listing is not available for booking"
	msgInvalidUser        = "Invalid user ID"
	msgGuestRequired      = "A guest is required to create a booking"
	msgCancelCompleted    = "Cannot cancel a completed booking"
	msgAlreadyCancelled   = "Booking is already cancelled"
	msgBookingNotFound    = "booking not found"
	msgNoFieldsToUpdate   = "no fields to update"
	msgUnauthenticated    = "Authentication credentials were not provided"
)

type Booking interface {
	Validate(ctx context.Context, req dto.CreateBookingRequest) error
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Mine(ctx context.Context, req gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Booking
	listingRepo listingRepo.Listing
	userRepo    userRepo.User
	tx          postgres.Transaction
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	publisher   events.Publisher
}

func New(
	repo repository.Booking,
	listingRepo listingRepo.Listing,
	userRepo userRepo.User,
	tx postgres.Transaction,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher events.Publisher,
) Booking {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		tx:          tx,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		publisher:   publisher,
	}
}

// bookableListing resolves the listing of a new booking and checks it takes reservations.
func (s *serviceImpl) bookableListing(ctx context.Context, listingID string) (listingModel.Listing, error) {
	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(listingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return listing, failure.Validation(model.FieldListingID, msgInvalidListing) // nolint:wrapcheck
	}

	if !listing.Available {
		return listing, failure.Validation(model.FieldListingID, msgListingUnavailable) // nolint:wrapcheck
	}

	return listing, nil
}

// check runs the stay, listing and party size rules in that order.
func (s *serviceImpl) check(ctx context.Context, req dto.CreateBookingRequest) (dto.Stay, listingModel.Listing, error) {
	stay, err := req.Stay()
	if err != nil {
		return stay, listingModel.Listing{}, err
	}

	listing, err := s.bookableListing(ctx, req.ListingID)
	if err != nil {
		return stay, listing, err
	}

	if err = dto.ValidateGuests(req.Guests(), listing.MaxGuests); err != nil {
		return stay, listing, err
	}

	return stay, listing, nil
}

func (s *serviceImpl) Validate(ctx context.Context, req dto.CreateBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Validate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	stay, listing, err := s.check(ctx, req)
	if err != nil {
		return err
	}

	taken, err := s.repo.Exist(ctx, stay.OverlapFilter(listing.ID, ""))
	if err != nil {
		log.Error().Err(err).Str("listing_id", listing.ID).Msg("failed to check booking overlap")

		return fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if taken {
		return dto.DatesUnavailable()
	}

	return nil
}

// resolveGuest prefers an explicit user_id over the authenticated caller.
func (s *serviceImpl) resolveGuest(ctx context.Context, userID *string) (string, error) {
	if userID == nil {
		if user := shared.UserFromContext(ctx); user != constant.Empty {
			return user, nil
		}

		return "", failure.Validation(model.FieldUserID, msgGuestRequired) // nolint:wrapcheck
	}

	exists, err := s.userRepo.Exist(ctx, userRepo.ByID(*userID))
	if err != nil {
		log.Error().Err(err).Str("user_id", *userID).Msg("failed to check user")

		return "", fmt.Errorf("failed to check user: %w", err)
	}

	if !exists {
		return "", failure.Validation(model.FieldUserID, msgInvalidUser) // nolint:wrapcheck
	}

	return *userID, nil
}

// reserve holds the listing lock for the rest of sqltx and fails when stay is taken.
func (s *serviceImpl) reserve(ctx context.Context, sqltx *sqlx.Tx, listingID string, stay dto.Stay, excludeID string) error {
	if err := s.repo.LockListing(ctx, sqltx, listingID); err != nil {
		return err //nolint:wrapcheck
	}

	taken, err := s.repo.ExistTx(ctx, sqltx, stay.OverlapFilter(listingID, excludeID))
	if err != nil {
		return fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if taken {
		return dto.DatesUnavailable()
	}

	return nil
}

// writeError turns a failed booking write into the error returned to the caller.
func writeError(err error, action string) error {
	if _, ok := failure.AsValidation(err); ok {
		return err
	}

	if failure.PostgresCode(err) == constant.PqErrorCodeExclusionViolation {
		return dto.DatesUnavailable()
	}

	log.Error().Err(err).Msg("failed to " + action)

	return fmt.Errorf("failed to %s: %w", action, err)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	stay, listing, err := s.check(ctx, req)
	if err != nil {
		return res, err
	}

	userID, err := s.resolveGuest(ctx, req.UserID)
	if err != nil {
		return res, err
	}

	createdBy := shared.UserFromContext(ctx)
	if createdBy == constant.Empty {
		createdBy = userID
	}

	booking := req.ToModel(userID, createdBy, stay, listing.NightlyTotal(stay.Nights()))

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		if err := s.reserve(ctx, sqltx, listing.ID, stay, ""); err != nil {
			return err
		}

		return s.repo.InsertTx(ctx, sqltx, booking)
	})
	if err != nil {
		return res, writeError(err, "create booking")
	}

	s.invalidate(ctx, booking.ID)
	s.emit(ctx, events.BookingCreated, booking)

	return s.reload(ctx, booking.ID)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCount, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Mine lists the caller's own bookings.
func (s *serviceImpl) Mine(ctx context.Context, req gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error) {
	userID := shared.UserFromContext(ctx)
	if userID == constant.Empty {
		return dto.GetBookingsResponse{}, failure.Unauthorized(msgUnauthenticated) // nolint:wrapcheck
	}

	filter.UserID = userID

	return s.GetAll(ctx, req, filter.ToFilterGroup())
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if !canView(ctx, res.UserID, res.Listing.HostID) {
			return dto.BookingResponse{}, failure.ResourceRestrictedError
		}

		return res, nil
	}

	booking, err := s.findManaged(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	return booking, nil
}

// findManaged loads a booking the caller may see or change.
func (s *serviceImpl) findManaged(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return booking, err
	}

	if !canView(ctx, booking.UserID, booking.ListingHostID) {
		return booking, failure.ResourceRestrictedError
	}

	return booking, nil
}

// canView reports whether the caller is the guest, the listing's host or an admin.
func canView(ctx context.Context, guestID, hostID string) bool {
	return shared.CanManage(ctx, guestID) || shared.CanManage(ctx, hostID)
}

func (s *serviceImpl) reload(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString(msgNoFieldsToUpdate) // nolint:wrapcheck
	}

	booking, err := s.findManaged(ctx, id)
	if err != nil {
		return res, err
	}

	stay, err := req.Stay(booking)
	if err != nil {
		return res, err
	}

	guests := req.Guests(booking)
	if err = dto.ValidateGuests(guests, booking.ListingMaxGuests); err != nil {
		return res, err
	}

	changes := dto.BookingChanges{
		CheckInDate:     stay.CheckIn,
		CheckOutDate:    stay.CheckOut,
		NumberOfGuests:  guests,
		TotalPrice:      booking.Listing().NightlyTotal(stay.Nights()),
		SpecialRequests: req.SpecialRequests,
	}
	fields := shared.TransformFields(changes, shared.UserFromContext(ctx))
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if model.IsBlocking(booking.Status) && req.DatesChanged(booking) {
		err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
			if err := s.reserve(ctx, sqltx, booking.ListingID, stay, id); err != nil {
				return err
			}

			return s.repo.UpdateTx(ctx, sqltx, fields, filter)
		})
	} else {
		err = s.repo.Update(ctx, fields, filter)
	}

	if err != nil {
		return res, writeError(err, "update booking")
	}

	s.invalidate(ctx, id)
	s.emit(ctx, events.BookingUpdated, booking)

	return s.reload(ctx, id)
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = req.Validate(); err != nil {
		return res, err
	}

	booking, err := s.findManaged(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status == req.Status {
		res.FromModel(booking)

		return res, nil
	}

	if err = s.setStatus(ctx, booking, req.Status); err != nil {
		return res, err
	}

	booking.Status = req.Status
	s.emit(ctx, events.BookingStatusChanged, booking)

	return s.reload(ctx, id)
}

// setStatus writes a new status. Reviving a cancelled or completed booking re-checks its dates.
func (s *serviceImpl) setStatus(ctx context.Context, booking model.Booking, status string) (err error) {
	fields := shared.TransformFields(dto.UpdateStatusRequest{Status: status}, shared.UserFromContext(ctx))
	filter := shared.FilterByID(booking.ID, model.FieldID, model.TableName)

	if !model.IsBlocking(booking.Status) && model.IsBlocking(status) {
		stay := dto.Stay{CheckIn: booking.CheckInDate, CheckOut: booking.CheckOutDate}

		err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
			if err := s.reserve(ctx, sqltx, booking.ListingID, stay, booking.ID); err != nil {
				return err
			}

			return s.repo.UpdateTx(ctx, sqltx, fields, filter)
		})
	} else {
		err = s.repo.Update(ctx, fields, filter)
	}

	if err != nil {
		return writeError(err, "update booking status")
	}

	s.invalidate(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.findManaged(ctx, id)
	if err != nil {
		return res, err
	}

	switch booking.Status {
	case model.StatusCompleted:
		return res, failure.Validation(model.FieldStatus, msgCancelCompleted) // nolint:wrapcheck
	case model.StatusCancelled:
		return res, failure.Validation(model.FieldStatus, msgAlreadyCancelled) // nolint:wrapcheck
	}

	if err = s.setStatus(ctx, booking, model.StatusCancelled); err != nil {
		return res, err
	}

	booking.Status = model.StatusCancelled
	s.emit(ctx, events.BookingCancelled, booking)

	return s.reload(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.findManaged(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)
	s.emit(ctx, events.BookingDeleted, booking)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(model.CacheGet, id)); err != nil && !errors.Is(err, cache.Nil) {
		log.Error().Err(err).Str("id", id).Msg("failed to delete booking cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheCount)
	}()
}

func (s *serviceImpl) emit(ctx context.Context, eventType string, booking model.Booking) {
	events.Emit(ctx, s.publisher.PublishBooking, events.Event{
		Type:       eventType,
		EntityID:   booking.ID,
		ListingID:  booking.ListingID,
		UserID:     booking.UserID,
		Status:     booking.Status,
		OccurredAt: timezone.Now(),
	})
}
