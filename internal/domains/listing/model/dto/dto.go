package dto

import (
	"io"
	"path"
	"strings"

	"travel/internal/domains/listing/model"
	userDto "travel/internal/domains/user/model/dto"
	"travel/shared"
	gDto "travel/shared/dto"
	"travel/shared/failure"
	gModel "travel/shared/model"
	"travel/shared/timezone"
	"travel/shared/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgPricePositive = "Price per night must be positive"
	msgGuestsMin     = "Max guests must be at least 1"
	msgGuestsMax     = "Max guests cannot exceed 20"
)

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return failure.Validation(model.FieldPricePerNight, msgPricePositive) // nolint:wrapcheck
	}

	return nil
}

func validateMaxGuests(maxGuests int) error {
	switch {
	case maxGuests < model.MinGuests:
		return failure.Validation(model.FieldMaxGuests, msgGuestsMin) // nolint:wrapcheck
	case maxGuests > model.MaxGuests:
		return failure.Validation(model.FieldMaxGuests, msgGuestsMax) // nolint:wrapcheck
	}

	return nil
}

type CreateListingRequest struct {
	HostID        *string         `json:"host_id,omitempty"       validate:"omitempty,uuid"`
	Name          string          `json:"name"                    validate:"required,max=200"`
	Description   string          `json:"description"             validate:"required"`
	Location      string          `json:"location"                validate:"required,max=200"`
	PricePerNight decimal.Decimal `json:"price_per_night"         swaggertype:"string"`
	PropertyType  string          `json:"property_type,omitempty" validate:"omitempty,oneof=hotel apartment house villa resort hostel guesthouse"`
	MaxGuests     *int            `json:"max_guests,omitempty"`
	Bedrooms      *int            `json:"bedrooms,omitempty"      validate:"omitempty,min=0"`
	Bathrooms     *int            `json:"bathrooms,omitempty"     validate:"omitempty,min=0"`
	Amenities     string          `json:"amenities,omitempty"`
	Available     *bool           `json:"available,omitempty"`
}

// Validate applies the price and guest capacity rules. Omitted max_guests defaults to 1.
func (r *CreateListingRequest) Validate() error {
	if err := validatePrice(r.PricePerNight); err != nil {
		return err
	}

	if r.MaxGuests != nil {
		return validateMaxGuests(*r.MaxGuests)
	}

	return nil
}

func valueOr[T any](value *T, fallback T) T {
	if value != nil {
		return *value
	}

	return fallback
}

func (r *CreateListingRequest) ToModel(hostID, user string) model.Listing {
	propertyType := r.PropertyType
	if propertyType == "" {
		propertyType = model.PropertyTypeApartment
	}

	return model.Listing{
		ID:            uuid.NewString(),
		HostID:        hostID,
		Name:          r.Name,
		Description:   r.Description,
		Location:      r.Location,
		PricePerNight: r.PricePerNight.Round(2),
		PropertyType:  propertyType,
		MaxGuests:     valueOr(r.MaxGuests, model.DefaultMaxGuests),
		Bedrooms:      valueOr(r.Bedrooms, model.DefaultBedrooms),
		Bathrooms:     valueOr(r.Bathrooms, model.DefaultBathrooms),
		Amenities:     r.Amenities,
		Available:     valueOr(r.Available, true),
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

// UpdateListingRequest is a partial update; nil fields are left untouched.
type UpdateListingRequest struct {
	Name          *string          `db:"name"            json:"name,omitempty"            validate:"omitempty,min=1,max=200"`
	Description   *string          `db:"description"     json:"description,omitempty"`
	Location      *string          `db:"location"        json:"location,omitempty"        validate:"omitempty,min=1,max=200"`
	PricePerNight *decimal.Decimal `db:"price_per_night" json:"price_per_night,omitempty" swaggertype:"string"`
	PropertyType  *string          `db:"property_type"   json:"property_type,omitempty"   validate:"omitempty,oneof=hotel apartment house villa resort hostel guesthouse"`
	MaxGuests     *int             `db:"max_guests"      json:"max_guests,omitempty"`
	Bedrooms      *int             `db:"bedrooms"        json:"bedrooms,omitempty"        validate:"omitempty,min=0"`
	Bathrooms     *int             `db:"bathrooms"       json:"bathrooms,omitempty"       validate:"omitempty,min=0"`
	Amenities     *string          `db:"amenities"       json:"amenities,omitempty"`
	Available     *bool            `db:"available"       json:"available,omitempty"`
}

func (r *UpdateListingRequest) IsEmpty() bool {
	return *r == UpdateListingRequest{}
}

func (r *UpdateListingRequest) Validate() error {
	if r.PricePerNight != nil {
		if err := validatePrice(*r.PricePerNight); err != nil {
			return err
		}

		rounded := r.PricePerNight.Round(2)
		r.PricePerNight = &rounded
	}

	if r.MaxGuests != nil {
		return validateMaxGuests(*r.MaxGuests)
	}

	return nil
}

type ListingResponse struct {
	ID            string               `json:"id"`
	HostID        string               `json:"host_id"`
	Host          userDto.UserResponse `json:"host"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Location      string               `json:"location"`
	PricePerNight string               `json:"price_per_night"`
	PropertyType  string               `json:"property_type"`
	MaxGuests     int                  `json:"max_guests"`
	Bedrooms      int                  `json:"bedrooms"`
	Bathrooms     int                  `json:"bathrooms"`
	Amenities     string               `json:"amenities"`
	AmenitiesList []string             `json:"amenities_list"`
	Image         *string              `json:"image"`
	Available     bool                 `json:"available"`
	AverageRating float64              `json:"average_rating"`
	TotalReviews  int                  `json:"total_reviews"`
	gDto.Metadata
}

func deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}

	return *value
}

func (r *ListingResponse) FromModel(m model.Listing) {
	r.ID = m.ID
	r.HostID = m.HostID
	r.Host = userDto.UserResponse{
		ID:        m.HostID,
		Username:  deref(m.HostUsername),
		FirstName: deref(m.HostFirstName),
		LastName:  deref(m.HostLastName),
		Email:     deref(m.HostEmail),
	}
	r.Name = m.Name
	r.Description = m.Description
	r.Location = m.Location
	r.PricePerNight = m.PricePerNight.StringFixed(2)
	r.PropertyType = m.PropertyType
	r.MaxGuests = m.MaxGuests
	r.Bedrooms = m.Bedrooms
	r.Bathrooms = m.Bathrooms
	r.Amenities = m.Amenities
	r.AmenitiesList = model.AmenitiesList(m.Amenities)
	r.Image = m.Image
	r.Available = m.Available
	r.AverageRating = deref(m.AverageRating)
	r.TotalReviews = deref(m.TotalReviews)
	r.Metadata.FromModel(m.Metadata)
}

// ListingSummary is the listing view nested inside bookings and reviews.
type ListingSummary struct {
	ID            string   `json:"id"`
	HostID        string   `json:"host_id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	PricePerNight string   `json:"price_per_night"`
	PropertyType  string   `json:"property_type"`
	MaxGuests     int      `json:"max_guests"`
	AmenitiesList []string `json:"amenities_list"`
	Image         *string  `json:"image"`
	Available     bool     `json:"available"`
}

func (r *ListingSummary) FromModel(m model.Listing) {
	r.ID = m.ID
	r.HostID = m.HostID
	r.Name = m.Name
	r.Location = m.Location
	r.PricePerNight = m.PricePerNight.StringFixed(2)
	r.PropertyType = m.PropertyType
	r.MaxGuests = m.MaxGuests
	r.AmenitiesList = model.AmenitiesList(m.Amenities)
	r.Image = m.Image
	r.Available = m.Available
}

type GetListingsResponse struct {
	Listings  []ListingResponse `json:"listings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetListingsResponse) FromModels(models []model.Listing, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Listings = make([]ListingResponse, len(models))
	for i, mod := range models {
		r.Listings[i].FromModel(mod)
	}
}

type UploadImageRequest struct {
	File        io.ReadSeeker
	FileName    string
	ContentType string
	Size        int64
}

func (r *UploadImageRequest) Validate() error {
	if err := validator.ValidateVar(r.ContentType, "mimetypes=image/png image/jpeg image/jpg"); err != nil {
		return failure.Validation(model.FieldImage, "Upload a valid image. Allowed types are png and jpeg") // nolint:wrapcheck
	}

	if err := validator.ValidateVar(r.Size, "maxfilesize=5"); err != nil {
		return failure.Validation(model.FieldImage, "Image must not exceed 5 MB") // nolint:wrapcheck
	}

	return nil
}

// ObjectName returns a collision free object name that keeps the upload's extension.
func (r *UploadImageRequest) ObjectName(listingID string) string {
	return listingID + "-" + uuid.NewString() + strings.ToLower(path.Ext(r.FileName))
}

type UploadImageResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

type UpdateImageRequest struct {
	Image string `db:"image"`
}
