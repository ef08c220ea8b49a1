package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"travel/config"
	"travel/infras/otel"
	"travel/internal/domains/user/model"
	"travel/internal/domains/user/model/dto"
	"travel/internal/domains/user/repository"
	"travel/shared"
	"travel/shared/cache"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
)

type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Me(ctx context.Context) (dto.UserResponse, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// cached serves key from redis, or runs load and stores its result in the background.
// Load errors are returned untouched and never cached.
func cached[T any](ctx context.Context, s *serviceImpl, key string, load func() (T, error)) (T, error) {
	var res T
	if err := s.cache.Get(ctx, key, &res); err == nil {
		log.Debug().Str("cacheKey", key).Msg("user cache hit")

		return res, nil
	}

	res, err := load()
	if err != nil {
		return res, err
	}

	go func(c context.Context) {
		if err := s.cache.Save(c, key, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to cache user view")
		}
	}(context.WithoutCancel(ctx))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cached(ctx, s, shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter), func() (page dto.GetUsersResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, fmt.Errorf("failed to count users: %w", err)
		}

		users, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get users")

			return page, fmt.Errorf("failed to get users: %w", err)
		}

		page.FromModels(users, total, req.Limit)

		return page, nil
	})
}

// Count ignores paging, so every page of one filter shares a cached total.
func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cached(ctx, s, shared.BuildCacheKeyWithQuery(model.CacheCount, gDto.QueryParams{}, filter), func() (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count users")

			return 0, fmt.Errorf("failed to count users: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return cached(ctx, s, shared.BuildCacheKey(model.CacheGet, id), func() (profile dto.UserResponse, err error) {
		user, err := s.repo.Get(ctx, repository.ByID(id))
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to get user")

			return profile, fmt.Errorf("failed to get user: %w", err)
		}

		if user.ID == constant.Empty {
			return profile, failure.NotFound("user not found") // nolint:wrapcheck
		}

		profile.FromModel(user)

		return profile, nil
	})
}

// Me resolves the authenticated caller.
func (s *serviceImpl) Me(ctx context.Context) (dto.UserResponse, error) {
	userID := shared.UserFromContext(ctx)
	if userID == constant.Empty {
		return dto.UserResponse{}, failure.Unauthorized("Authentication credentials were not provided") // nolint:wrapcheck
	}

	return s.Get(ctx, userID)
}
