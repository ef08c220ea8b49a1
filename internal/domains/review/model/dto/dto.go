package dto

import (
	listingDto "travel/internal/domains/listing/model/dto"
	"travel/internal/domains/review/model"
	userDto "travel/internal/domains/user/model/dto"
	"travel/shared"
	gDto "travel/shared/dto"
	"travel/shared/failure"
	gModel "travel/shared/model"
	"travel/shared/timezone"

	"github.com/google/uuid"
)

const MsgRatingRange = "Rating must be between 1 and 5"

func validateRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return failure.Validation(model.FieldRating, MsgRatingRange) // nolint:wrapcheck
	}

	return nil
}

type CreateReviewRequest struct {
	ListingID string  `json:"listing_id"           validate:"required,uuid"`
	UserID    *string `json:"user_id,omitempty"    validate:"omitempty,uuid"`
	BookingID *string `json:"booking_id,omitempty" validate:"omitempty,uuid"`
	Rating    int     `json:"rating"`
	Comment   string  `json:"comment"              validate:"required"`
}

func (r *CreateReviewRequest) Validate() error {
	return validateRating(r.Rating)
}

func (r *CreateReviewRequest) ToModel(userID, createdBy string) model.Review {
	return model.Review{
		ID:        uuid.NewString(),
		ListingID: r.ListingID,
		UserID:    userID,
		BookingID: r.BookingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Metadata:  gModel.NewMetadata(createdBy, timezone.Now()),
	}
}

type UpdateReviewRequest struct {
	Rating  *int    `db:"rating"  json:"rating,omitempty"`
	Comment *string `db:"comment" json:"comment,omitempty" validate:"omitempty,min=1"`
}

func (r *UpdateReviewRequest) IsEmpty() bool {
	return r.Rating == nil && r.Comment == nil
}

func (r *UpdateReviewRequest) Validate() error {
	if r.Rating != nil {
		return validateRating(*r.Rating)
	}

	return nil
}

type ReviewResponse struct {
	ID        string                    `json:"id"`
	ListingID string                    `json:"listing_id"`
	Listing   listingDto.ListingSummary `json:"listing"`
	UserID    string                    `json:"user_id"`
	User      userDto.UserResponse      `json:"user"`
	BookingID *string                   `json:"booking_id"`
	Rating    int                       `json:"rating"`
	Comment   string                    `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(m model.Review) {
	r.ID = m.ID
	r.ListingID = m.ListingID
	r.Listing.FromModel(m.Listing())
	r.UserID = m.UserID
	r.User.FromModel(m.Reviewer())
	r.BookingID = m.BookingID
	r.Rating = m.Rating
	r.Comment = m.Comment
	r.Metadata.FromModel(m.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
