package repositories

import (
	"context"
	"errors"

	"github.com/tech-jay13/PMS/internal/models"
)

var (
	// ErrProductNotFound is returned when no product exists for the given ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists is returned when a create collides with an existing ID.
	ErrProductExists = errors.New("product with this ID already exists")
)

// ProductFilter holds the exact-match constraints applied before pagination.
// Nil fields are unconstrained.
type ProductFilter struct {
	Category *string
	Price    *float64
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of matching products together with the total
	// number of matches, independent of the offset/limit window.
	List(ctx context.Context, filter ProductFilter, offset, limit int64) ([]models.Product, int64, error)
}
