package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Listing=MockListingService

import (
	"context"
	"fmt"

	"travel/config"
	"travel/infras/otel"
	"travel/infras/s3"
	bookingModel "travel/internal/domains/booking/model"
	"travel/internal/domains/listing/model"
	"travel/internal/domains/listing/model/dto"
	"travel/internal/domains/listing/repository"
	reviewModel "travel/internal/domains/review/model"
	userRepo "travel/internal/domains/user/repository"
	"travel/shared"
	"travel/shared/cache"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	msgInvalidHost  = "Invalid host ID"
	msgHostRequired = "A host is required to create a listing"
)

type Listing interface {
	Validate(ctx context.Context, req dto.CreateListingRequest) error
	Create(ctx context.Context, req dto.CreateListingRequest) (dto.ListingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetListingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ListingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateListingRequest) (dto.ListingResponse, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (dto.UploadImageResponse, error)
	InvalidateCache(ctx context.Context, id string)
}

type serviceImpl struct {
	repo     repository.Listing
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
}

func New(
	repo repository.Listing,
	userRepo userRepo.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Listing {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
	}
}

func (s *serviceImpl) Validate(ctx context.Context, req dto.CreateListingRequest) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Validate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return req.Validate()
}

// resolveHost prefers an explicit host_id over the authenticated caller.
func (s *serviceImpl) resolveHost(ctx context.Context, hostID *string) (string, error) {
	if hostID == nil {
		if user := shared.UserFromContext(ctx); user != constant.Empty {
			return user, nil
		}

		return "", failure.Validation(model.FieldHostID, msgHostRequired) // nolint:wrapcheck
	}

	exists, err := s.userRepo.Exist(ctx, userRepo.ByID(*hostID))
	if err != nil {
		log.Error().Err(err).Str("host_id", *hostID).Msg("failed to check host")

		return "", fmt.Errorf("failed to check host: %w", err)
	}

	if !exists {
		return "", failure.Validation(model.FieldHostID, msgInvalidHost) // nolint:wrapcheck
	}

	return *hostID, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = req.Validate(); err != nil {
		return res, err
	}

	hostID, err := s.resolveHost(ctx, req.HostID)
	if err != nil {
		return res, err
	}

	createdBy := shared.UserFromContext(ctx)
	if createdBy == constant.Empty {
		createdBy = hostID
	}

	listing := req.ToModel(hostID, createdBy)

	if err = s.repo.Insert(ctx, listing); err != nil {
		if failure.PostgresCode(err) == constant.PqErrorCodeFkViolation {
			return res, failure.Validation(model.FieldHostID, msgInvalidHost) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create listing")

		return res, fmt.Errorf("failed to create listing: %w", err)
	}

	s.invalidateLists(ctx)

	created, err := s.repo.Get(ctx, shared.FilterByID(listing.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", listing.ID).Msg("failed to reload listing")

		return res, fmt.Errorf("failed to reload listing: %w", err)
	}

	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetListingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for listings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count listings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return res, fmt.Errorf("failed to get listings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCount, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return res, fmt.Errorf("failed to count listings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	listing, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(listing)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Listing, error) {
	listing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return listing, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	return listing, nil
}

// findManaged loads a listing the caller is allowed to change.
func (s *serviceImpl) findManaged(ctx context.Context, id string) (model.Listing, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return listing, err
	}

	if !shared.CanManage(ctx, listing.HostID) {
		return listing, failure.ResourceRestrictedError
	}

	return listing, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no fields to update") // nolint:wrapcheck
	}

	if err = req.Validate(); err != nil {
		return res, err
	}

	if _, err = s.findManaged(ctx, id); err != nil {
		return res, err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	updatedFields := shared.TransformFields(req, shared.UserFromContext(ctx))

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update listing")

		return res, fmt.Errorf("failed to update listing: %w", err)
	}

	s.InvalidateCache(ctx, id)

	updated, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	listing, err := s.findManaged(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete listing")

		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if listing.Image != nil {
		if err := s.s3.Delete(ctx, *listing.Image); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("failed to delete listing image")
		}
	}

	s.InvalidateCache(ctx, id)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.UploadImage")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = req.Validate(); err != nil {
		return res, err
	}

	listing, err := s.findManaged(ctx, id)
	if err != nil {
		return res, err
	}

	url, err := s.s3.Upload(ctx, model.ImageDirectory, req.ObjectName(id), req.ContentType, req.File, req.Size)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to upload listing image")

		return res, fmt.Errorf("failed to upload listing image: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdateImageRequest{Image: url}, shared.UserFromContext(ctx))

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to save listing image")

		if err := s.s3.Delete(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to remove orphaned listing image")
		}

		return res, fmt.Errorf("failed to save listing image: %w", err)
	}

	if listing.Image != nil {
		if err := s.s3.Delete(ctx, *listing.Image); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("failed to delete previous listing image")
		}
	}

	s.InvalidateCache(ctx, id)

	res.ID = id
	res.Image = url

	return res, nil
}

// InvalidateCache drops the cached views of a listing and every cached listing page.
// Bookings and reviews embed a listing summary, so their cached views go too.
func (s *serviceImpl) InvalidateCache(ctx context.Context, id string) {
	c := context.WithoutCancel(ctx)

	if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGet, id)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete listing cache")
	}

	s.invalidateLists(c, embedding...)
}

// embedding lists the cache prefixes of views nesting a ListingSummary.
var embedding = []string{
	bookingModel.CacheGet,
	bookingModel.CacheGetAll,
	reviewModel.CacheGet,
	reviewModel.CacheGetAll,
}

func (s *serviceImpl) invalidateLists(ctx context.Context, extra ...string) {
	prefixes := append([]string{model.CacheGetAll, model.CacheCount}, extra...)

	go func() {
		c := context.WithoutCancel(ctx)

		for _, prefix := range prefixes {
			shared.InvalidateCaches(c, s.cache, prefix)
		}
	}()
}
