package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"travel/shared/failure"
	"travel/shared/validator"
)

type bookingPayload struct {
	ListingID      string `json:"listing_id"       validate:"required,uuid"`
	CheckInDate    string `json:"check_in_date"    validate:"required,date"`
	NumberOfGuests int    `json:"number_of_guests" validate:"min=1"`
	Status         string `json:"status"           validate:"omitempty,oneof=pending confirmed"`
}

func validPayload() bookingPayload {
	return bookingPayload{
		ListingID:      "6f1c2f5e-8d7a-4a59-9b59-0c7b7e1f3a10",
		CheckInDate:    "2024-06-10",
		NumberOfGuests: 2,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *bookingPayload)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid payload",
			mutate: func(_ *bookingPayload) {},
		},
		{
			name:      "missing listing id uses json name",
			mutate:    func(p *bookingPayload) { p.ListingID = "" },
			wantField: "listing_id",
			wantMsg:   "listing_id is required",
		},
		{
			name:      "malformed uuid",
			mutate:    func(p *bookingPayload) { p.ListingID = "42" },
			wantField: "listing_id",
			wantMsg:   "listing_id must be a valid UUID",
		},
		{
			name:      "bad date",
			mutate:    func(p *bookingPayload) { p.CheckInDate = "10/06/2024" },
			wantField: "check_in_date",
			wantMsg:   "check_in_date must be a date formatted as YYYY-MM-DD",
		},
		{
			name:      "zero guests",
			mutate:    func(p *bookingPayload) { p.NumberOfGuests = 0 },
			wantField: "number_of_guests",
			wantMsg:   "number_of_guests must be greater than or equal to 1",
		},
		{
			name:      "unknown status",
			mutate:    func(p *bookingPayload) { p.Status = "archived" },
			wantField: "status",
			wantMsg:   "status must be one of pending confirmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(&payload)

			err := validator.ValidateStruct(&payload)
			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			validation, ok := failure.AsValidation(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantField, validation.Field)
			assert.Equal(t, tt.wantMsg, validation.Message)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		jsonBody string
		wantErr  bool
	}{
		{
			name:     "valid json",
			jsonBody: `{"listing_id":"6f1c2f5e-8d7a-4a59-9b59-0c7b7e1f3a10","check_in_date":"2024-06-10","number_of_guests":1}`,
		},
		{
			name:     "malformed json",
			jsonBody: `{"listing_id":}`,
			wantErr:  true,
		},
		{
			name:     "empty object",
			jsonBody: `{}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bookingPayload

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "allowed image type", field: "image/png", tag: "mimetypes=image/png image/jpeg"},
		{name: "rejected image type", field: "application/pdf", tag: "mimetypes=image/png image/jpeg", wantErr: true},
		{name: "empty content type", field: "", tag: "mimetypes=image/png", wantErr: true},
		{name: "file within limit", field: int64(512 * 1024), tag: "maxfilesize=1"},
		{name: "file over limit", field: int64(3 * 1024 * 1024), tag: "maxfilesize=2", wantErr: true},
		{name: "valid date", field: "2024-02-29", tag: "date"},
		{name: "impossible date", field: "2023-02-29", tag: "date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
