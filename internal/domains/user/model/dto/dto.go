package dto

import (
	"net/http"

	"travel/internal/domains/user/model"
	"travel/shared"
	"travel/shared/constant"
	gDto "travel/shared/dto"
)

// UserResponse is the public identity of a user. It is embedded in listing,
// booking and review responses, so it never carries credentials or roles.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Username = model.Username
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Email = model.Email
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UserFilter struct {
	Search string
	Role   string
}

func (f *UserFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Search = query.Get(constant.RequestParamSearch)
	f.Role = query.Get(model.FieldRole)
}

// ToFilterGroup matches search against username and email and keeps only active users.
func (f UserFilter) ToFilterGroup() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filter.Add(gDto.Filter{
		Field:    model.FieldActive,
		Value:    true,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	if f.Role != "" {
		filter.Add(gDto.Filter{
			Field:    model.FieldRole,
			Value:    f.Role,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if f.Search != "" {
		filter.Add(gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{Field: model.FieldUsername, ArgName: "search_username", Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{Field: model.FieldEmail, ArgName: "search_email", Value: f.Search, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
		})
	}

	return filter
}
