package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"donorlink/infras/otel"
	"donorlink/infras/postgres"
	"donorlink/internal/domains/center/model"
	gDto "donorlink/shared/dto"
	gRepo "donorlink/shared/repository"
)

type Center interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Center, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Center, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Center]
}

func New(db *postgres.Connection, otel otel.Otel) Center {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Center](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
