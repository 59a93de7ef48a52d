package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/umalmyha/loyalty/internal/model"
)

const mongoDatabase = "loyalty"
const mongoCustomersCollection = "customers"

type mongoCustomerRepository struct {
	client *mongo.Client
}

// NewMongoCustomerRepository creates customer repository backed by a mongo
// collection
func NewMongoCustomerRepository(client *mongo.Client) CustomerRepository {
	return &mongoCustomerRepository{client: client}
}

func (repo *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	res := repo.customers().FindOne(ctx, bson.M{"_id": id})
	if err := res.Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (repo *mongoCustomerRepository) FindAll(ctx context.Context) ([]model.Customer, error) {
	cursor, err := repo.customers().Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]model.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (repo *mongoCustomerRepository) customers() *mongo.Collection {
	return repo.client.Database(mongoDatabase).Collection(mongoCustomersCollection)
}
