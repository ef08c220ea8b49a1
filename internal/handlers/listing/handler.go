package listing

import (
	"context"
	"net/http"

	"travel/infras/otel"
	bookingDto "travel/internal/domains/booking/model/dto"
	bookingService "travel/internal/domains/booking/service"
	"travel/internal/domains/listing/model/dto"
	"travel/internal/domains/listing/service"
	reviewDto "travel/internal/domains/review/model/dto"
	reviewService "travel/internal/domains/review/service"
	"travel/shared"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	"travel/shared/failure"
	"travel/shared/validator"
	"travel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service        service.Listing
	reviewService  reviewService.Review
	bookingService bookingService.Booking
	otel           otel.Otel
}

func New(service service.Listing, reviewService reviewService.Review, bookingService bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		reviewService:  reviewService,
		bookingService: bookingService,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Post("/", handler.CreateListing)
		routerGroup.Get("/search", handler.SearchListings)
		routerGroup.Get("/{id}", handler.GetListingByID)
		routerGroup.Patch("/{id}", handler.UpdateListing)
		routerGroup.Delete("/{id}", handler.DeleteListing)
		routerGroup.Put("/{id}/image", handler.UploadImage)
		routerGroup.Get("/{id}/reviews", handler.GetListingReviews)
		routerGroup.Get("/{id}/bookings", handler.GetListingBookings)
	})
}

// CreateListing handles the creation of a new listing.
// @Summary Create a listing
// @Description Hosts create listings for themselves. Admins may pass host_id.
// @Tags Listing
// @Accept json
// @Produce json
// @Param request body dto.CreateListingRequest true "Create Listing Request"
// @Success 201 {object} response.Data[dto.ListingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	req := dto.CreateListingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(writer, err)

		return
	}

	user := shared.UserFromContext(ctx)
	scope.AddEvent("Listing created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetListings retrieves listings based on query parameters.
// @Summary Get all listings
// @Description Retrieve listings with optional filtering and pagination.
// @Tags Listing
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param location query string false "Location contains"
// @Param property_type query string false "Property type"
// @Param available query boolean false "Availability"
// @Param min_price query string false "Minimum nightly price"
// @Param max_price query string false "Maximum nightly price"
// @Param guests query int false "Guests the listing must fit"
// @Param host_id query string false "Filter by host"
// @Success 200 {object} response.Data[dto.GetListingsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/listings [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	filter := dto.ListingFilter{}
	filter.FromRequest(r)

	handler.list(ctx, w, r, filter)
}

// SearchListings only returns available listings unless available is given explicitly.
// @Summary Search listings
// @Tags Listing
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Match name, description or amenities"
// @Param location query string false "Location contains"
// @Param min_price query string false "Minimum nightly price"
// @Param max_price query string false "Maximum nightly price"
// @Param guests query int false "Guests the listing must fit"
// @Success 200 {object} response.Data[dto.GetListingsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/listings/search [get]
func (handler *Handler) SearchListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchListings")
	defer scope.End()

	filter := dto.ListingFilter{}
	filter.FromRequest(r)

	if filter.Available == nil {
		available := true
		filter.Available = &available
	}

	handler.list(ctx, w, r, filter)
}

func (handler *Handler) list(ctx context.Context, w http.ResponseWriter, r *http.Request, filter dto.ListingFilter) {
	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	listings, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, listings)
}

// GetListingByID
// @Summary Get a listing by ID
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.ListingResponse]
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, listing)
}

// UpdateListing
// @Summary Update a listing
// @Description Only the host or an admin may update a listing.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UpdateListingRequest true "Update Listing Request"
// @Success 200 {object} response.Data[dto.ListingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateListingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	listing, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update listing")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing updated successfully")

	response.WithJSON(w, http.StatusOK, listing)
}

// DeleteListing
// @Summary Delete a listing
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete listing")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Listing deleted successfully")
}

// UploadImage stores the listing image in S3.
// @Summary Upload a listing image
// @Tags Listing
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Listing ID"
// @Param image formData file true "PNG or JPEG image, at most 5 MB"
// @Success 200 {object} response.Data[dto.UploadImageResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/listings/{id}/image [put]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormImage)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.Validation(constant.FormImage, "No image was submitted"))

		return
	}
	defer file.Close()

	req := dto.UploadImageRequest{
		File:        file,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(constant.RequestHeaderContentType),
		Size:        fileHeader.Size,
	}

	res, err := handler.service.UploadImage(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload listing image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Image uploaded successfully for listing " + id)

	response.WithJSON(w, http.StatusOK, res)
}

// GetListingReviews
// @Summary Get the reviews of a listing
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[reviewDto.GetReviewsResponse]
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id}/reviews [get]
func (handler *Handler) GetListingReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingReviews")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if _, err := handler.service.Get(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := reviewDto.ReviewFilter{ListingID: id}

	reviews, err := handler.reviewService.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing reviews")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetListingBookings lists the bookings of a listing for its host.
// @Summary Get the bookings of a listing
// @Description Host of the listing or admin only.
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[bookingDto.GetBookingsResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id}/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetListingBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingBookings")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	if !shared.CanManage(ctx, listing.HostID) {
		scope.TraceError(failure.ResourceRestrictedError)

		response.WithError(w, failure.ResourceRestrictedError)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := bookingDto.BookingFilter{}
	filter.FromRequest(r)
	filter.ListingID = id

	bookings, err := handler.bookingService.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}
