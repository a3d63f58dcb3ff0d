package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Lixing-Zhang/beerstyle-api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, fields map[string]json.RawMessage) (*models.Product, error)
	Update(ctx context.Context, id int64, patch map[string]json.RawMessage) (*models.Product, error)
	Count(ctx context.Context) int
}

// InMemoryProductRepository implements ProductRepository with in-memory storage.
// Products keep their load order; updates replace a record at its position.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a repository seeded with the given products
func NewInMemoryProductRepository(seed []models.Product) *InMemoryProductRepository {
	products := make([]models.Product, 0, len(seed))
	for _, p := range seed {
		products = append(products, p.Clone())
	}

	return &InMemoryProductRepository{
		products: products,
	}
}

// GetAll returns all products in insertion order
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product.Clone())
	}
	return products, nil
}

// GetByID returns the first product with the given ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	product := r.products[idx].Clone()
	return &product, nil
}

// Create appends a product whose ID is one above the current maximum
func (r *InMemoryProductRepository) Create(ctx context.Context, fields map[string]json.RawMessage) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product := models.NewProduct(r.nextID(), fields)
	r.products = append(r.products, product)

	created := product.Clone()
	return &created, nil
}

// Update shallow-merges patch onto the product and stores it in place
func (r *InMemoryProductRepository) Update(ctx context.Context, id int64, patch map[string]json.RawMessage) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrProductNotFound
	}

	updated := r.products[idx].Merge(patch)
	r.products[idx] = updated

	result := updated.Clone()
	return &result, nil
}

// Count returns the number of stored products
func (r *InMemoryProductRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

// indexOf must be called with the lock held
func (r *InMemoryProductRepository) indexOf(id int64) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// nextID must be called with the write lock held.
// An empty collection starts at 1.
func (r *InMemoryProductRepository) nextID() int64 {
	if len(r.products) == 0 {
		return 1
	}
	maxID := r.products[0].ID
	for _, p := range r.products[1:] {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}
