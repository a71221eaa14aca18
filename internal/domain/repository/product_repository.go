package repository

import (
	"context"

	"github.com/s25commerce/pricing-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) cuando el producto no existe; la
// búsqueda devuelve lista vacía en lugar de error cuando no hay coincidencias.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetByIDs trae en bloque los productos de las líneas de una cotización;
	// los IDs inexistentes simplemente no aparecen en el resultado.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	// Search filtra con "contains" (OR) sobre name y sku; term vacío lista todo.
	Search(ctx context.Context, term string, limit, offset int) ([]*entity.Product, int, error)
	Delete(ctx context.Context, id string) error
}
