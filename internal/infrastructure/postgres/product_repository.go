package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
// La colección de precios de catálogo se guarda como JSONB; una columna NULL
// se distingue de una lista vacía al leer (Prices nil vs []).
type ProductRepo struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	prices, err := marshalPrices(product.Prices)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (id, sku, name, tax_rate, prices, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.TaxRate, prices,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update actualiza los datos maestros y la colección de precios.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	prices, err := marshalPrices(product.Prices)
	if err != nil {
		return err
	}
	query := `
		UPDATE products SET sku = $2, name = $3, tax_rate = $4, prices = $5, updated_at = $6
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.TaxRate, prices, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por su número de referencia exacto.
// Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getBy(ctx, `WHERE sku = $1`, sku)
}

func (r *ProductRepo) getBy(ctx context.Context, where string, arg any) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, tax_rate, prices, created_at, updated_at
		FROM products ` + where
	var p entity.Product
	var prices []byte
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.SKU, &p.Name, &p.TaxRate, &prices, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := unmarshalPrices(prices, &p.Prices); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs obtiene un lote de productos. IDs inexistentes se omiten sin error.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, sku, name, tax_rate, prices, created_at, updated_at
		FROM products WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Search busca productos por término (ILIKE sobre sku y nombre), paginado.
// Con término vacío lista todo.
func (r *ProductRepo) Search(ctx context.Context, term string, limit, offset int) ([]*entity.Product, int, error) {
	where := ``
	args := []any{}
	if term != "" {
		where = `WHERE sku ILIKE $1 OR name ILIKE $1`
		args = append(args, likePattern(term))
	}

	var total int
	countQuery := `SELECT count(*) FROM products ` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, sku, name, tax_rate, prices, created_at, updated_at
		FROM products %s
		ORDER BY name ASC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	list, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina un producto; los precios por cliente asociados caen por FK en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var prices []byte
		err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.TaxRate, &prices, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if err := unmarshalPrices(prices, &p.Prices); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// marshalPrices serializa la colección preservando NULL cuando es nil.
func marshalPrices(prices []entity.PriceValue) (any, error) {
	if prices == nil {
		return nil, nil
	}
	raw, err := json.Marshal(prices)
	if err != nil {
		return nil, fmt.Errorf("marshal product prices: %w", err)
	}
	return raw, nil
}

func unmarshalPrices(raw []byte, dst *[]entity.PriceValue) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal product prices: %w", err)
	}
	return nil
}
