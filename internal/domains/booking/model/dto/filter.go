package dto

import (
	"net/http"

	"travel/internal/domains/booking/model"
	gDto "travel/shared/dto"
)

type BookingFilter struct {
	Status    string
	UserID    string
	ListingID string
}

func (f *BookingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Status = query.Get(model.FieldStatus)
	f.UserID = query.Get(model.FieldUserID)
	f.ListingID = query.Get(model.FieldListingID)
}

func (f BookingFilter) ToFilterGroup() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	fields := []struct{ name, value string }{
		{name: model.FieldStatus, value: f.Status},
		{name: model.FieldUserID, value: f.UserID},
		{name: model.FieldListingID, value: f.ListingID},
	}

	for _, field := range fields {
		if field.value == "" {
			continue
		}

		filter.Add(gDto.Filter{Field: field.name, Value: field.value, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return filter
}
