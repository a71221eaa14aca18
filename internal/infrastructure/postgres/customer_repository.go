package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, first_name, last_name, email, customer_number, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.FirstName, customer.LastName, customer.Email,
		customer.CustomerNumber, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update actualiza los datos de un cliente.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, email = $4, customer_number = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.FirstName, customer.LastName, customer.Email,
		customer.CustomerNumber, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. Devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

// GetByCustomerNumber obtiene un cliente por número exacto. Devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByCustomerNumber(ctx context.Context, number string) (*entity.Customer, error) {
	return r.getBy(ctx, `WHERE customer_number = $1`, number)
}

func (r *CustomerRepo) getBy(ctx context.Context, where string, arg any) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ` + where
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CustomerNumber,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// Search busca clientes por término (ILIKE sobre nombre, email y número), paginado.
// Con término vacío lista todo.
func (r *CustomerRepo) Search(ctx context.Context, term string, limit, offset int) ([]*entity.Customer, int, error) {
	where := ``
	args := []any{}
	if term != "" {
		where = `WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR customer_number ILIKE $1`
		args = append(args, likePattern(term))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM customers %s
		ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CustomerNumber,
			&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina un cliente; sus precios específicos caen por FK en cascada.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
