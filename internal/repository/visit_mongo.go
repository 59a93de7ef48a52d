package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umalmyha/loyalty/internal/model"
)

const mongoVisitsCollection = "visits"

type mongoVisitRepository struct {
	client *mongo.Client
}

// NewMongoVisitRepository creates visit repository backed by a mongo
// collection. Range filtering happens in the database, month bucketing and
// per-day deduplication reuse the in-memory aggregation helpers
func NewMongoVisitRepository(client *mongo.Client) VisitRepository {
	return &mongoVisitRepository{client: client}
}

func (repo *mongoVisitRepository) GetAll(ctx context.Context) ([]model.Visit, error) {
	return repo.find(ctx, bson.D{})
}

func (repo *mongoVisitRepository) FindByCustomer(ctx context.Context, customerID string) ([]model.Visit, error) {
	return repo.find(ctx, bson.M{"customerId": customerID}, options.Find().SetSort(bson.M{"visitedAt": 1}))
}

func (repo *mongoVisitRepository) CountVisits(ctx context.Context, customerID string, start, end time.Time, uniquePerDay bool) (int, error) {
	visits, err := repo.find(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return 0, err
	}
	return countVisits(visits, customerID, start, end, uniquePerDay), nil
}

func (repo *mongoVisitRepository) VisitsByMonth(ctx context.Context, customerID string, months int, asOf time.Time) ([]model.MonthCount, error) {
	visits, err := repo.find(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return nil, err
	}
	return visitsByMonth(visits, customerID, months, asOf), nil
}

func (repo *mongoVisitRepository) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]model.Visit, error) {
	cursor, err := repo.visits().Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	visits := make([]model.Visit, 0)
	if err := cursor.All(ctx, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

func (repo *mongoVisitRepository) visits() *mongo.Collection {
	return repo.client.Database(mongoDatabase).Collection(mongoVisitsCollection)
}
