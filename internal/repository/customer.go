package repository

import (
	"context"
	"sync"

	"github.com/umalmyha/loyalty/internal/model"
)

// CustomerRepository provides access to the registered customer
// population. Id lookup is case-sensitive at this layer - case-insensitive
// matching, where desired, is layered on top by the service
type CustomerRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindAll(context.Context) ([]model.Customer, error)
}

// CustomerStore is a customer repository whose population can be swapped
// at ingestion time
type CustomerStore interface {
	CustomerRepository
	Replace(context.Context, []model.Customer) error
}

type inMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers []model.Customer
}

// NewInMemoryCustomerRepository creates customer store over an in-memory
// customer slice
func NewInMemoryCustomerRepository(customers []model.Customer) CustomerStore {
	return &inMemoryCustomerRepository{customers: customers}
}

func (repo *inMemoryCustomerRepository) FindByID(_ context.Context, id string) (*model.Customer, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, c := range repo.customers {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (repo *inMemoryCustomerRepository) FindAll(_ context.Context) ([]model.Customer, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	customers := make([]model.Customer, len(repo.customers))
	copy(customers, repo.customers)
	return customers, nil
}

func (repo *inMemoryCustomerRepository) Replace(_ context.Context, customers []model.Customer) error {
	repo.mu.Lock()
	repo.customers = customers
	repo.mu.Unlock()
	return nil
}
