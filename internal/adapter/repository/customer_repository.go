package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-varejo/internal/domain/customer"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrCustomerNotFound          = errors.New("cliente não encontrado")
	ErrCustomerDuplicateDocument = errors.New("cliente com o mesmo documento já existe")
)

const customerColumns = `
	id, tenant_id, branch_id, person_type, name, document, email, phone,
	status, credit_limit, due_balance, street, number, complement, district,
	city, state, zip_code, country, observations, last_purchase_at,
	created_at, updated_at`

// CustomerRepository implementa a interface customer.Repository
type CustomerRepository struct {
	db *pgxpool.Pool
}

// NewCustomerRepository cria uma nova instância de CustomerRepository
func NewCustomerRepository(db *pgxpool.Pool) customer.Repository {
	return &CustomerRepository{
		db: db,
	}
}

// Create implementa customer.Repository.Create
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx,
		`INSERT INTO customers (
			id, tenant_id, branch_id, person_type, name, document, email,
			phone, status, credit_limit, due_balance, street, number,
			complement, district, city, state, zip_code, country,
			observations, last_purchase_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23
		)`,
		c.ID, c.TenantID, c.BranchID, c.PersonType, c.Name, c.Document,
		c.Email, c.Phone, c.Status, c.CreditLimit, c.DueBalance,
		c.Address.Street, c.Address.Number, c.Address.Complement,
		c.Address.District, c.Address.City, c.Address.State,
		c.Address.ZipCode, c.Address.Country, c.Observations,
		c.LastPurchaseAt, c.CreatedAt, c.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrCustomerDuplicateDocument
		}
		return fmt.Errorf("erro ao criar cliente: %w", err)
	}

	return nil
}

// FindByID implementa customer.Repository.FindByID
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

// FindByIDForUpdate implementa customer.Repository.FindByIDForUpdate
func (r *CustomerRepository) FindByIDForUpdate(ctx context.Context, id string) (*customer.Customer, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
	return scanCustomer(row)
}

// FindByDocument implementa customer.Repository.FindByDocument
func (r *CustomerRepository) FindByDocument(ctx context.Context, tenantID, document string) (*customer.Customer, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 AND document = $2`,
		tenantID, document)
	return scanCustomer(row)
}

// List implementa customer.Repository.List
func (r *CustomerRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*customer.Customer, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+customerColumns+` FROM customers
		WHERE tenant_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar clientes: %w", err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return customers, nil
}

// CountByTenant implementa customer.Repository.CountByTenant
func (r *CustomerRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM customers WHERE tenant_id = $1",
		tenantID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar clientes: %w", err)
	}

	return count, nil
}

// Update implementa customer.Repository.Update
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE customers SET
			person_type = $1, name = $2, document = $3, email = $4, phone = $5,
			status = $6, credit_limit = $7, due_balance = $8, street = $9,
			number = $10, complement = $11, district = $12, city = $13,
			state = $14, zip_code = $15, country = $16, observations = $17,
			last_purchase_at = $18, updated_at = $19
		WHERE id = $20`,
		c.PersonType, c.Name, c.Document, c.Email, c.Phone, c.Status,
		c.CreditLimit, c.DueBalance, c.Address.Street, c.Address.Number,
		c.Address.Complement, c.Address.District, c.Address.City,
		c.Address.State, c.Address.ZipCode, c.Address.Country,
		c.Observations, c.LastPurchaseAt, c.UpdatedAt, c.ID)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrCustomerDuplicateDocument
		}
		return fmt.Errorf("erro ao atualizar cliente: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// UpdateStatus implementa customer.Repository.UpdateStatus
func (r *CustomerRepository) UpdateStatus(ctx context.Context, id string, status customer.Status) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		"UPDATE customers SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)

	if err != nil {
		return fmt.Errorf("erro ao atualizar status do cliente: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// AdjustDueBalance implementa customer.Repository.AdjustDueBalance. O delta é
// aplicado integralmente; saldo negativo representa crédito do cliente
func (r *CustomerRepository) AdjustDueBalance(ctx context.Context, id string, delta float64) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE customers
		SET due_balance = due_balance + $1, updated_at = NOW()
		WHERE id = $2`,
		delta, id)

	if err != nil {
		return fmt.Errorf("erro ao ajustar saldo devedor do cliente: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// Delete implementa customer.Repository.Delete
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao remover cliente: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// ExistsByDocument implementa customer.Repository.ExistsByDocument
func (r *CustomerRepository) ExistsByDocument(ctx context.Context, tenantID, document string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM customers WHERE tenant_id = $1 AND document = $2)",
		tenantID, document).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("erro ao verificar existência do cliente: %w", err)
	}

	return exists, nil
}

// scanCustomer lê um cliente de uma linha de resultado
func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer

	err := row.Scan(
		&c.ID, &c.TenantID, &c.BranchID, &c.PersonType, &c.Name, &c.Document,
		&c.Email, &c.Phone, &c.Status, &c.CreditLimit, &c.DueBalance,
		&c.Address.Street, &c.Address.Number, &c.Address.Complement,
		&c.Address.District, &c.Address.City, &c.Address.State,
		&c.Address.ZipCode, &c.Address.Country, &c.Observations,
		&c.LastPurchaseAt, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("erro ao buscar cliente: %w", err)
	}

	return &c, nil
}
