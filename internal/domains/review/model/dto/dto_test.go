package dto_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"travel/internal/domains/review/model"
	"travel/internal/domains/review/model/dto"
	"travel/shared/failure"
)

func TestCreateReviewRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		wantErr bool
	}{
		{name: "zero", rating: 0, wantErr: true},
		{name: "lowest", rating: 1},
		{name: "highest", rating: 5},
		{name: "six", rating: 6, wantErr: true},
		{name: "negative", rating: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateReviewRequest{ListingID: "l-1", Rating: tt.rating, Comment: "nice"}

			err := req.Validate()

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			validation, ok := failure.AsValidation(err)
			assert.True(t, ok)
			assert.Equal(t, "rating", validation.Field)
			assert.Equal(t, dto.MsgRatingRange, validation.Message)
		})
	}
}

func TestUpdateReviewRequest(t *testing.T) {
	assert.True(t, (&dto.UpdateReviewRequest{}).IsEmpty())

	rating := 9
	req := dto.UpdateReviewRequest{Rating: &rating}
	assert.False(t, req.IsEmpty())
	assert.Error(t, req.Validate())

	comment := "changed my mind"
	assert.NoError(t, (&dto.UpdateReviewRequest{Comment: &comment}).Validate())
}

func TestReviewResponse_FromModel(t *testing.T) {
	var res dto.ReviewResponse
	res.FromModel(model.Review{
		ID:               "r-1",
		ListingID:        "l-1",
		UserID:           "u-1",
		Rating:           4,
		Comment:          "quiet street",
		ListingName:      "Beach house",
		ListingAmenities: "wifi, pool",
		ReviewerUsername: "ana",
	})

	assert.Equal(t, 4, res.Rating)
	assert.Equal(t, "Beach house", res.Listing.Name)
	assert.Equal(t, []string{"wifi", "pool"}, res.Listing.AmenitiesList)
	assert.Equal(t, "ana", res.User.Username)
	assert.Nil(t, res.BookingID)
}

func TestReviewFilter(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/reviews?listing_id=l-1&min_rating=4", nil)

	var filter dto.ReviewFilter
	filter.FromRequest(req)

	where, args := filter.ToFilterGroup().GetWhereClause()

	assert.Equal(t, "(reviews.listing_id = :listing_id AND reviews.rating >= :min_rating)", where)
	assert.Equal(t, 4, args["min_rating"])

	req = httptest.NewRequest("GET", "/v1/reviews?min_rating=lots", nil)

	filter = dto.ReviewFilter{}
	filter.FromRequest(req)

	assert.Nil(t, filter.MinRating)
}
