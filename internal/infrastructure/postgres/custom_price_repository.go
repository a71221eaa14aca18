package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
)

var _ repository.CustomPriceRepository = (*CustomPriceRepo)(nil)

// CustomPriceRepo implementación del puerto CustomPriceRepository sobre PostgreSQL
// (usable con pool o tx). Las reglas de precio se guardan como JSONB en la
// columna price; el par (customer_id, product_id) tiene constraint único.
type CustomPriceRepo struct {
	q Querier
}

// NewCustomPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomPriceRepository(q Querier) *CustomPriceRepo {
	return &CustomPriceRepo{q: q}
}

// Create persiste un nuevo precio específico de cliente.
func (r *CustomPriceRepo) Create(ctx context.Context, price *entity.CustomPrice) error {
	rules, err := json.Marshal(price.Rules)
	if err != nil {
		return fmt.Errorf("marshal price rules: %w", err)
	}
	query := `
		INSERT INTO custom_prices (id, customer_id, product_id, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.q.Exec(ctx, query,
		price.ID, price.CustomerID, price.ProductID, rules, price.CreatedAt, price.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert custom_price: %w", err)
	}
	return nil
}

// Update sobreescribe las reglas de un precio existente (sin historial).
func (r *CustomPriceRepo) Update(ctx context.Context, price *entity.CustomPrice) error {
	rules, err := json.Marshal(price.Rules)
	if err != nil {
		return fmt.Errorf("marshal price rules: %w", err)
	}
	query := `
		UPDATE custom_prices SET price = $2, updated_at = $3
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query, price.ID, rules, price.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update custom_price: %w", err)
	}
	return nil
}

// GetByID obtiene un precio por ID. Devuelve (nil, nil) si no existe.
func (r *CustomPriceRepo) GetByID(ctx context.Context, id string) (*entity.CustomPrice, error) {
	query := `
		SELECT id, customer_id, product_id, price, created_at, updated_at
		FROM custom_prices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByCustomerAndProduct obtiene el precio del par exacto. Devuelve (nil, nil) si no existe.
func (r *CustomPriceRepo) GetByCustomerAndProduct(ctx context.Context, customerID, productID string) (*entity.CustomPrice, error) {
	query := `
		SELECT id, customer_id, product_id, price, created_at, updated_at
		FROM custom_prices WHERE customer_id = $1 AND product_id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, customerID, productID))
}

func (r *CustomPriceRepo) scanOne(row pgx.Row) (*entity.CustomPrice, error) {
	var p entity.CustomPrice
	var rules []byte
	err := row.Scan(&p.ID, &p.CustomerID, &p.ProductID, &rules, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get custom_price: %w", err)
	}
	if len(rules) > 0 {
		if err := json.Unmarshal(rules, &p.Rules); err != nil {
			return nil, fmt.Errorf("unmarshal price rules: %w", err)
		}
	}
	return &p, nil
}

// List lista precios paginados (createdAt DESC) con cliente y producto unidos
// vía LEFT JOIN: un registro cuyo cliente o producto fue borrado sigue listándose.
func (r *CustomPriceRepo) List(ctx context.Context, limit, offset int) ([]*repository.CustomPriceWithRelations, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM custom_prices`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count custom_prices: %w", err)
	}

	query := joinedSelect + `
		ORDER BY cp.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list custom_prices: %w", err)
	}
	defer rows.Close()

	list, err := scanJoined(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll devuelve el set completo con relaciones, para el export CSV/PDF.
func (r *CustomPriceRepo) ListAll(ctx context.Context) ([]*repository.CustomPriceWithRelations, error) {
	query := joinedSelect + `
		ORDER BY cp.created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all custom_prices: %w", err)
	}
	defer rows.Close()
	return scanJoined(rows)
}

// Delete elimina un precio de forma permanente.
func (r *CustomPriceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM custom_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete custom_price: %w", err)
	}
	return nil
}

const joinedSelect = `
		SELECT cp.id, cp.customer_id, cp.product_id, cp.price, cp.created_at, cp.updated_at,
		       c.id, c.first_name, c.last_name, c.email, c.customer_number,
		       p.id, p.sku, p.name, p.tax_rate, p.prices
		FROM custom_prices cp
		LEFT JOIN customers c ON c.id = cp.customer_id
		LEFT JOIN products p ON p.id = cp.product_id`

func scanJoined(rows pgx.Rows) ([]*repository.CustomPriceWithRelations, error) {
	var list []*repository.CustomPriceWithRelations
	for rows.Next() {
		var (
			item       repository.CustomPriceWithRelations
			rules      []byte
			custID     *string
			firstName  *string
			lastName   *string
			email      *string
			custNumber *string
			prodID     *string
			sku        *string
			prodName   *string
			taxRate    *decimal.Decimal
			prodPrices []byte
		)
		err := rows.Scan(
			&item.Price.ID, &item.Price.CustomerID, &item.Price.ProductID, &rules,
			&item.Price.CreatedAt, &item.Price.UpdatedAt,
			&custID, &firstName, &lastName, &email, &custNumber,
			&prodID, &sku, &prodName, &taxRate, &prodPrices,
		)
		if err != nil {
			return nil, fmt.Errorf("scan custom_price: %w", err)
		}
		if len(rules) > 0 {
			if err := json.Unmarshal(rules, &item.Price.Rules); err != nil {
				return nil, fmt.Errorf("unmarshal price rules: %w", err)
			}
		}
		if custID != nil {
			item.Customer = &entity.Customer{
				ID:             *custID,
				FirstName:      deref(firstName),
				LastName:       deref(lastName),
				Email:          deref(email),
				CustomerNumber: deref(custNumber),
			}
		}
		if prodID != nil {
			product := &entity.Product{
				ID:   *prodID,
				SKU:  deref(sku),
				Name: deref(prodName),
			}
			if taxRate != nil {
				product.TaxRate = *taxRate
			}
			if len(prodPrices) > 0 {
				if err := json.Unmarshal(prodPrices, &product.Prices); err != nil {
					return nil, fmt.Errorf("unmarshal product prices: %w", err)
				}
			}
			item.Product = product
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
