package service_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"travel/config"
	"travel/infras/otel/mocks"
	s3Mocks "travel/infras/s3/mocks"
	listingMocks "travel/internal/domains/listing/mocks"
	"travel/internal/domains/listing/model"
	"travel/internal/domains/listing/model/dto"
	"travel/internal/domains/listing/service"
	userMocks "travel/internal/domains/user/mocks"
	"travel/shared/cache"
	cacheMocks "travel/shared/cache/mocks"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
)

type fixture struct {
	svc      service.Listing
	listings *listingMocks.MockListing
	users    *userMocks.MockUser
	cache    *cacheMocks.MockRedisCache
	s3       *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		listings: listingMocks.NewMockListing(ctrl),
		users:    userMocks.NewMockUser(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.listings, f.users, &config.Config{}, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func asUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func validCreateRequest() dto.CreateListingRequest {
	return dto.CreateListingRequest{
		Name:          "Beach house",
		Description:   "Sea view",
		Location:      "Lisbon",
		PricePerNight: decimal.RequireFromString("100.00"),
		Amenities:     "wifi, pool",
	}
}

func TestListingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       func() dto.CreateListingRequest
		setupMock func(f fixture)
		wantField string
		wantCode  int
		wantHost  string
	}{
		{
			name: "host from context",
			ctx:  asUser("host-1", constant.RoleHost),
			req:  validCreateRequest,
			setupMock: func(f fixture) {
				f.listings.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-1"}, nil)
			},
			wantHost: "host-1",
		},
		{
			name: "explicit host wins over context",
			ctx:  asUser("admin-1", constant.RoleAdmin),
			req: func() dto.CreateListingRequest {
				req := validCreateRequest()
				req.HostID = strPtr("host-2")

				return req
			},
			setupMock: func(f fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.listings.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, listing model.Listing) error {
						assert.Equal(t, "host-2", listing.HostID)
						assert.Equal(t, "admin-1", listing.CreatedBy)

						return nil
					})
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-2"}, nil)
			},
			wantHost: "host-2",
		},
		{
			name: "unknown explicit host",
			ctx:  context.Background(),
			req: func() dto.CreateListingRequest {
				req := validCreateRequest()
				req.HostID = strPtr("missing")

				return req
			},
			setupMock: func(f fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantField: "host_id",
		},
		{
			name:      "no host available",
			ctx:       context.Background(),
			req:       validCreateRequest,
			setupMock: func(fixture) {},
			wantField: "host_id",
		},
		{
			name: "non positive price",
			ctx:  asUser("host-1", constant.RoleHost),
			req: func() dto.CreateListingRequest {
				req := validCreateRequest()
				req.PricePerNight = decimal.Zero

				return req
			},
			setupMock: func(fixture) {},
			wantField: "price_per_night",
		},
		{
			name: "insert error",
			ctx:  asUser("host-1", constant.RoleHost),
			req:  validCreateRequest,
			setupMock: func(f fixture) {
				f.listings.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(tt.ctx, tt.req())

			if tt.wantField != "" {
				validation, ok := failure.AsValidation(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantField, validation.Field)

				return
			}

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantHost, res.HostID)
		})
	}
}

func TestListingService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "from cache",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						value.(*dto.ListingResponse).ID = "l-1"

						return nil
					})
			},
		},
		{
			name: "from repository",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Listing{ID: "l-1", PricePerNight: decimal.RequireFromString("80")}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "l-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "l-1", res.ID)
		})
	}
}

func TestListingService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
	f.listings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.listings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Listing{{ID: "l-1"}, {ID: "l-2"}, {ID: "l-3"}}, nil)

	filter := dto.ListingFilter{Location: "lisbon"}

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, filter.ToFilterGroup())

	assert.NoError(t, err)
	assert.Len(t, res.Listings, 3)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
}

func TestListingService_Update(t *testing.T) {
	guests := 25
	name := "Renamed"

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateListingRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "owner updates",
			ctx:  asUser("host-1", constant.RoleHost),
			req:  dto.UpdateListingRequest{Name: &name},
			setupMock: func(f fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-1"}, nil)
				f.listings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, &name, fields[model.FieldName])
						assert.NotContains(t, fields, model.FieldMaxGuests)

						return nil
					})
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-1", Name: name}, nil)
			},
		},
		{
			name: "other host",
			ctx:  asUser("host-2", constant.RoleHost),
			req:  dto.UpdateListingRequest{Name: &name},
			setupMock: func(f fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-1"}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:      "too many guests",
			ctx:       asUser("host-1", constant.RoleHost),
			req:       dto.UpdateListingRequest{MaxGuests: &guests},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "nothing to update",
			ctx:       asUser("host-1", constant.RoleHost),
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Update(tt.ctx, "l-1", tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, name, res.Name)
		})
	}
}

func TestListingService_Delete(t *testing.T) {
	image := "https://cdn.example.com/listings/l-1.png"

	f := newFixture(t)

	f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-1", Image: &image}, nil)
	f.listings.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.s3.EXPECT().Delete(gomock.Any(), image).Return(nil)

	assert.NoError(t, f.svc.Delete(asUser("admin-1", constant.RoleAdmin), "l-1"))
}

func TestListingService_UploadImage(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UploadImageRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "uploaded",
			req:  dto.UploadImageRequest{File: strings.NewReader("png"), FileName: "cover.PNG", ContentType: "image/png", Size: 3},
			setupMock: func(f fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-1"}, nil)
				f.s3.EXPECT().Upload(gomock.Any(), model.ImageDirectory, gomock.Any(), "image/png", gomock.Any(), int64(3)).
					DoAndReturn(func(_ context.Context, _, fileName, _ string, _ any, _ int64) (string, error) {
						assert.True(t, strings.HasSuffix(fileName, ".png"))

						return "https://cdn.example.com/listings/" + fileName, nil
					})
				f.listings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "unsupported type",
			req:       dto.UploadImageRequest{File: strings.NewReader("gif"), FileName: "cover.gif", ContentType: "image/gif", Size: 3},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "update fails removes upload",
			req:  dto.UploadImageRequest{File: strings.NewReader("png"), FileName: "cover.png", ContentType: "image/png", Size: 3},
			setupMock: func(f fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{ID: "l-1", HostID: "host-1"}, nil)
				f.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/listings/x.png", nil)
				f.listings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				f.s3.EXPECT().Delete(gomock.Any(), "https://cdn.example.com/listings/x.png").Return(nil)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.UploadImage(asUser("host-1", constant.RoleHost), "l-1", tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "l-1", res.ID)
			assert.NotEmpty(t, res.Image)
		})
	}
}

func TestListingService_Validate(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		maxGuests *int
		wantField string
	}{
		{name: "valid", price: "0.01"},
		{name: "default capacity", price: "100"},
		{name: "one guest", price: "100", maxGuests: intPtr(1)},
		{name: "twenty guests", price: "100", maxGuests: intPtr(20)},
		{name: "zero price", price: "0", wantField: model.FieldPricePerNight},
		{name: "negative price", price: "-10", wantField: model.FieldPricePerNight},
		{name: "no guests", price: "100", maxGuests: intPtr(0), wantField: model.FieldMaxGuests},
		{name: "too many guests", price: "100", maxGuests: intPtr(21), wantField: model.FieldMaxGuests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := validCreateRequest()
			req.PricePerNight = decimal.RequireFromString(tt.price)
			req.MaxGuests = tt.maxGuests

			err := f.svc.Validate(context.Background(), req)

			if tt.wantField == "" {
				assert.NoError(t, err)

				return
			}

			validation, ok := failure.AsValidation(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantField, validation.Field)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestListingService_InvalidateCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	var (
		mu       sync.Mutex
		patterns []string
	)

	redis.EXPECT().Delete(gomock.Any(), "listing:get:l-1").Return(nil)
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pattern string) error {
			mu.Lock()
			defer mu.Unlock()

			patterns = append(patterns, pattern)

			return nil
		}).AnyTimes()

	svc := service.New(listingMocks.NewMockListing(ctrl), userMocks.NewMockUser(ctrl), &config.Config{}, redis, mocks.NewOtel(), s3Mocks.NewMockS3(ctrl))
	svc.InvalidateCache(context.Background(), "l-1")

	want := []string{"listing:gets:*", "listing:count:*", "booking:get:*", "booking:gets:*", "review:get:*", "review:gets:*"}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		for _, pattern := range want {
			if !slices.Contains(patterns, pattern) {
				return false
			}
		}

		return true
	}, time.Second, 10*time.Millisecond)
}
