package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tech-jay13/PMS/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// The mutex makes the insert check-and-write atomic, so it honors the same
// uniqueness contract as the MongoDB implementation.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product, failing if the ID is already taken.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return ErrProductExists
	}
	r.products[product.ID] = *product
	return nil
}

// Update merges the supplied fields into an existing product and refreshes
// its updatedAt timestamp.
func (r *MockProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	if update.ProductName != nil {
		product.ProductName = *update.ProductName
	}
	if update.ProductDescription != nil {
		product.ProductDescription = *update.ProductDescription
	}
	if update.Price != nil {
		price := *update.Price
		product.Price = &price
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.StockQuantity != nil {
		product.StockQuantity = *update.StockQuantity
	}
	product.UpdatedAt = time.Now().UTC()

	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// List returns one page of products matching the filter, plus the total
// count of matches, ordered by creation time then ID.
func (r *MockProductRepository) List(ctx context.Context, filter ProductFilter, offset, limit int64) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Price != nil && (p.Price == nil || *p.Price != *filter.Price) {
			continue
		}
		matches = append(matches, p)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	total := int64(len(matches))
	if offset >= total {
		return []models.Product{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}
