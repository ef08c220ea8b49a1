package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"travel/infras/otel"
	"travel/infras/postgres"
	"travel/internal/domains/booking/model"
	"travel/shared/constant"
	gDto "travel/shared/dto"
	gRepo "travel/shared/repository"

	"github.com/jmoiron/sqlx"
)

const lockListingQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

type Booking interface {
	Insert(ctx context.Context, mod model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, mod model.Booking) error
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	// LockListing serializes date checks for one listing until the transaction ends.
	LockListing(ctx context.Context, sqltx *sqlx.Tx, listingID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *repositoryImpl) LockListing(ctx context.Context, sqltx *sqlx.Tx, listingID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockListing")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, lockListingQuery)

	if _, err = sqltx.ExecContext(ctx, lockListingQuery, listingID); err != nil {
		return fmt.Errorf("failed to lock listing %s: %w", listingID, err)
	}

	return nil
}
