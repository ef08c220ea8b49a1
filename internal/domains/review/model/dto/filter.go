package dto

import (
	"net/http"

	"travel/internal/domains/review/model"
	"travel/shared"
	gDto "travel/shared/dto"
)

const RequestParamMinRating = "min_rating"

type ReviewFilter struct {
	ListingID string
	UserID    string
	MinRating *int
}

func (f *ReviewFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.ListingID = query.Get(model.FieldListingID)
	f.UserID = query.Get(model.FieldUserID)

	if rating, err := shared.ConvertStringToInt(query.Get(RequestParamMinRating)); err == nil {
		f.MinRating = &rating
	}
}

func (f ReviewFilter) ToFilterGroup() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.ListingID != "" {
		filter.Add(gDto.Filter{Field: model.FieldListingID, Value: f.ListingID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.UserID != "" {
		filter.Add(gDto.Filter{Field: model.FieldUserID, Value: f.UserID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.MinRating != nil {
		filter.Add(gDto.Filter{
			ArgName:  RequestParamMinRating,
			Field:    model.FieldRating,
			Value:    *f.MinRating,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		})
	}

	return filter
}
