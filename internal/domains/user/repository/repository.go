package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"strings"

	"travel/infras/otel"
	"travel/infras/postgres"
	"travel/internal/domains/user/model"
	gDto "travel/shared/dto"
	gRepo "travel/shared/repository"
)

// User persists accounts. Emails are stored lower-cased so lookups by email are exact.
type User interface {
	Insert(ctx context.Context, user model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (repo *repositoryImpl) Insert(ctx context.Context, user model.User) error {
	user.Email = NormalizeEmail(user.Email)

	return repo.Repository.Insert(ctx, user) // nolint:wrapcheck
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ByID(id string) gDto.FilterGroup {
	return byField(model.FieldID, id)
}

func ByEmail(email string) gDto.FilterGroup {
	return byField(model.FieldEmail, NormalizeEmail(email))
}

func ByUsername(username string) gDto.FilterGroup {
	return byField(model.FieldUsername, username)
}

func byField(field, value string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: field, Operator: gDto.FilterOperatorEq, Value: value, Table: model.TableName},
		},
	}
}
