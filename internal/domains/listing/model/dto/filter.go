package dto

import (
	"net/http"

	"travel/internal/domains/listing/model"
	"travel/shared"
	"travel/shared/constant"
	gDto "travel/shared/dto"

	"github.com/shopspring/decimal"
)

const (
	RequestParamLocation     = "location"
	RequestParamPropertyType = "property_type"
	RequestParamAvailable    = "available"
	RequestParamMinPrice     = "min_price"
	RequestParamMaxPrice     = "max_price"
	RequestParamGuests       = "guests"
	RequestParamHostID       = "host_id"
)

// ListingFilter holds the catalogue query parameters. Malformed numeric values are ignored.
type ListingFilter struct {
	Search       string
	Location     string
	PropertyType string
	HostID       string
	Available    *bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Guests       *int
}

func parseDecimal(value string) *decimal.Decimal {
	if value == "" {
		return nil
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil
	}

	return &parsed
}

func (f *ListingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Search = query.Get(constant.RequestParamSearch)
	f.Location = query.Get(RequestParamLocation)
	f.PropertyType = query.Get(RequestParamPropertyType)
	f.HostID = query.Get(RequestParamHostID)
	f.Available = shared.ConvertStringToBool(query.Get(RequestParamAvailable))
	f.MinPrice = parseDecimal(query.Get(RequestParamMinPrice))
	f.MaxPrice = parseDecimal(query.Get(RequestParamMaxPrice))

	if guests, err := shared.ConvertStringToInt(query.Get(RequestParamGuests)); err == nil {
		f.Guests = &guests
	}
}

func (f ListingFilter) ToFilterGroup() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Location != "" {
		filter.Add(gDto.Filter{Field: model.FieldLocation, Value: f.Location, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	if f.PropertyType != "" {
		filter.Add(gDto.Filter{Field: model.FieldPropertyType, Value: f.PropertyType, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.HostID != "" {
		filter.Add(gDto.Filter{Field: model.FieldHostID, Value: f.HostID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Available != nil {
		filter.Add(gDto.Filter{Field: model.FieldAvailable, Value: *f.Available, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.MinPrice != nil {
		filter.Add(gDto.Filter{
			ArgName:  RequestParamMinPrice,
			Field:    model.FieldPricePerNight,
			Value:    *f.MinPrice,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		})
	}

	if f.MaxPrice != nil {
		filter.Add(gDto.Filter{
			ArgName:  RequestParamMaxPrice,
			Field:    model.FieldPricePerNight,
			Value:    *f.MaxPrice,
			Operator: gDto.FilterOperatorLessEq,
			Table:    model.TableName,
		})
	}

	if f.Guests != nil {
		filter.Add(gDto.Filter{
			ArgName:  RequestParamGuests,
			Field:    model.FieldMaxGuests,
			Value:    *f.Guests,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		})
	}

	if f.Search != "" {
		filter.Add(gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_name", Field: model.FieldName, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_description", Field: model.FieldDescription, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: "search_amenities", Field: model.FieldAmenities, Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
		})
	}

	return filter
}
