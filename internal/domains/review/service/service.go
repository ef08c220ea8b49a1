package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Review=MockReviewService

import (
	"context"
	"errors"
	"fmt"

	"travel/config"
	"travel/infras/otel"
	bookingModel "travel/internal/domains/booking/model"
	bookingRepo "travel/internal/domains/booking/repository"
	listingModel "travel/internal/domains/listing/model"
	listingRepo "travel/internal/domains/listing/repository"
	"travel/internal/domains/review/model"
	"travel/internal/domains/review/model/dto"
	"travel/internal/domains/review/repository"
	userRepo "travel/internal/domains/user/repository"
	"travel/internal/events"
	"travel/shared"
	"travel/shared/cache"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
	"travel/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	msgInvalidListing     = "Invalid listing ID"
	msgInvalidUser        = "Invalid user ID"
	msgInvalidBooking     = "Invalid booking ID"
	msgReviewerRequired   = "A user is required to create a review"
	msgBookingNotComplete = "Can only review completed bookings"
	msgBookingOtherList   = "Booking must be for the same listing being reviewed"
	msgAlreadyReviewed    = "You have already reviewed this listing"
	msgReviewNotFound     = "review not found"
	msgNoFieldsToUpdate   = "no fields to update"
)

type Review interface {
	Validate(ctx context.Context, req dto.CreateReviewRequest) error
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReviewsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReviewResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateReviewRequest) (dto.ReviewResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Review
	listingRepo listingRepo.Listing
	userRepo    userRepo.User
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	publisher   events.Publisher
}

func New(
	repo repository.Review,
	listingRepo listingRepo.Listing,
	userRepo userRepo.User,
	bookingRepo bookingRepo.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher events.Publisher,
) Review {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		publisher:   publisher,
	}
}

func (s *serviceImpl) checkListing(ctx context.Context, listingID string) error {
	exists, err := s.listingRepo.Exist(ctx, shared.FilterByID(listingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Msg("failed to check listing")

		return fmt.Errorf("failed to check listing: %w", err)
	}

	if !exists {
		return failure.Validation(model.FieldListingID, msgInvalidListing) // nolint:wrapcheck
	}

	return nil
}

// checkBooking accepts only a completed booking of the reviewed listing.
func (s *serviceImpl) checkBooking(ctx context.Context, bookingID *string, listingID string) error {
	if bookingID == nil {
		return nil
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(*bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", *bookingID).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	switch {
	case booking.ID == constant.Empty:
		return failure.Validation(model.FieldBookingID, msgInvalidBooking) // nolint:wrapcheck
	case booking.Status != bookingModel.StatusCompleted:
		return failure.Validation(model.FieldBookingID, msgBookingNotComplete) // nolint:wrapcheck
	case booking.ListingID != listingID:
		return failure.Validation(model.FieldBookingID, msgBookingOtherList) // nolint:wrapcheck
	}

	return nil
}

// resolveReviewer prefers an explicit user_id over the authenticated caller.
func (s *serviceImpl) resolveReviewer(ctx context.Context, userID *string) (string, error) {
	if userID == nil {
		if user := shared.UserFromContext(ctx); user != constant.Empty {
			return user, nil
		}

		return "", failure.Validation(model.FieldUserID, msgReviewerRequired) // nolint:wrapcheck
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

func (s *serviceImpl) checkDuplicate(ctx context.Context, listingID, userID string) error {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filter.Add(
		gDto.Filter{Field: model.FieldListingID, Value: listingID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Msg("failed to check existing review")

		return fmt.Errorf("failed to check existing review: %w", err)
	}

	if exists {
		return failure.Conflict(msgAlreadyReviewed) // nolint:wrapcheck
	}

	return nil
}

// check runs every rule of a new review and returns the reviewer.
func (s *serviceImpl) check(ctx context.Context, req dto.CreateReviewRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	if err := s.checkListing(ctx, req.ListingID); err != nil {
		return "", err
	}

	userID, err := s.resolveReviewer(ctx, req.UserID)
	if err != nil {
		return "", err
	}

	if err = s.checkBooking(ctx, req.BookingID, req.ListingID); err != nil {
		return "", err
	}

	return userID, s.checkDuplicate(ctx, req.ListingID, userID)
}

func (s *serviceImpl) Validate(ctx context.Context, req dto.CreateReviewRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Validate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	_, err = s.check(ctx, req)

	return err
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, err := s.check(ctx, req)
	if err != nil {
		return res, err
	}

	createdBy := shared.UserFromContext(ctx)
	if createdBy == constant.Empty {
		createdBy = userID
	}

	review := req.ToModel(userID, createdBy)

	if err = s.repo.Insert(ctx, review); err != nil {
		if failure.PostgresCode(err) == constant.PqErrorCodeUniqueViolation {
			return res, failure.Conflict(msgAlreadyReviewed) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	s.invalidate(ctx, review)
	s.emit(ctx, events.ReviewCreated, review)

	return s.reload(ctx, review.ID)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCount, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save review count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	review, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(review)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save review to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Review, error) {
	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get review")

		return review, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return review, failure.NotFound(msgReviewNotFound) // nolint:wrapcheck
	}

	return review, nil
}

// findManaged loads a review its author or an admin may change.
func (s *serviceImpl) findManaged(ctx context.Context, id string) (model.Review, error) {
	review, err := s.find(ctx, id)
	if err != nil {
		return review, err
	}

	if !shared.CanManage(ctx, review.UserID) {
		return review, failure.ResourceRestrictedError
	}

	return review, nil
}

func (s *serviceImpl) reload(ctx context.Context, id string) (res dto.ReviewResponse, err error) {
	review, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString(msgNoFieldsToUpdate) // nolint:wrapcheck
	}

	if err = req.Validate(); err != nil {
		return res, err
	}

	review, err := s.findManaged(ctx, id)
	if err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, shared.UserFromContext(ctx))

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update review")

		return res, fmt.Errorf("failed to update review: %w", err)
	}

	s.invalidate(ctx, review)
	s.emit(ctx, events.ReviewUpdated, review)

	return s.reload(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".review.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	review, err := s.findManaged(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.invalidate(ctx, review)
	s.emit(ctx, events.ReviewDeleted, review)

	return nil
}

// invalidate drops the cached review views and the reviewed listing, whose rating aggregates moved.
func (s *serviceImpl) invalidate(ctx context.Context, review model.Review) {
	keys := map[string]string{
		shared.BuildCacheKey(model.CacheGet, review.ID):               "review",
		shared.BuildCacheKey(listingModel.CacheGet, review.ListingID): "listing",
	}

	for key, kind := range keys {
		if err := s.cache.Delete(ctx, key); err != nil && !errors.Is(err, cache.Nil) {
			log.Error().Err(err).Str("key", key).Msg("failed to delete " + kind + " cache")
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		for _, prefix := range []string{model.CacheGetAll, model.CacheCount, listingModel.CacheGetAll} {
			shared.InvalidateCaches(c, s.cache, prefix)
		}
	}()
}

func (s *serviceImpl) emit(ctx context.Context, eventType string, review model.Review) {
	events.Emit(ctx, s.publisher.PublishReview, events.Event{
		Type:       eventType,
		EntityID:   review.ID,
		ListingID:  review.ListingID,
		UserID:     review.UserID,
		OccurredAt: timezone.Now(),
	})
}
