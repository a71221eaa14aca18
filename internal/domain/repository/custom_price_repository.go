package repository

import (
	"context"

	"github.com/s25commerce/pricing-api/internal/domain/entity"
)

// CustomPriceWithRelations registro de precio con los datos de cliente y producto
// ya unidos, para listados y export CSV (una sola consulta con JOIN).
type CustomPriceWithRelations struct {
	Price    entity.CustomPrice
	Customer *entity.Customer
	Product  *entity.Product
}

// CustomPriceRepository define el puerto de persistencia para CustomPrice (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el registro no existe.
type CustomPriceRepository interface {
	Create(ctx context.Context, price *entity.CustomPrice) error
	Update(ctx context.Context, price *entity.CustomPrice) error
	GetByID(ctx context.Context, id string) (*entity.CustomPrice, error)
	GetByCustomerAndProduct(ctx context.Context, customerID, productID string) (*entity.CustomPrice, error)
	List(ctx context.Context, limit, offset int) ([]*CustomPriceWithRelations, int, error)
	ListAll(ctx context.Context) ([]*CustomPriceWithRelations, error)
	Delete(ctx context.Context, id string) error
}
