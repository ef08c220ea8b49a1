package dto_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"travel/internal/domains/user/model"
	"travel/internal/domains/user/model/dto"
)

func TestUserResponse_FromModel(t *testing.T) {
	var res dto.UserResponse
	res.FromModel(model.User{
		ID:        "u-1",
		Username:  "ana",
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@example.com",
		Password:  "$2a$10$hash",
		Role:      "host",
	})

	raw, err := json.Marshal(res)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"u-1","username":"ana","first_name":"Ana","last_name":"Silva","email":"ana@example.com"}`, string(raw))
}

func TestGetUsersResponse_FromModels(t *testing.T) {
	var res dto.GetUsersResponse
	res.FromModels([]model.User{{ID: "u-1"}, {ID: "u-2"}}, 12, 5)

	assert.Len(t, res.Users, 2)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
}

func TestUserFilter(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/users?search=ana&role=host", nil)

	var filter dto.UserFilter
	filter.FromRequest(req)

	assert.Equal(t, "ana", filter.Search)
	assert.Equal(t, "host", filter.Role)

	where, args := filter.ToFilterGroup().GetWhereClause()

	assert.Contains(t, where, "users.active = :active")
	assert.Contains(t, where, "users.role = :role")
	assert.Contains(t, where, "LOWER(users.username) LIKE LOWER(:search_username)")
	assert.Equal(t, "%ana%", args["search_email"])
}
