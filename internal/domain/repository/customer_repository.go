package repository

import (
	"context"

	"github.com/s25commerce/pricing-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer (DIP).
// GetByID devuelve (nil, nil) cuando el cliente no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	Update(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByCustomerNumber(ctx context.Context, number string) (*entity.Customer, error)
	// Search filtra con "contains" (OR) sobre first_name, last_name, email y
	// customer_number; term vacío lista todo. Paginado, default 10 por página.
	Search(ctx context.Context, term string, limit, offset int) ([]*entity.Customer, int, error)
	Delete(ctx context.Context, id string) error
}
