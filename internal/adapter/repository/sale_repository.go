package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrSaleNotFound = errors.New("venda não encontrada")
)

const saleColumns = `
	id, tenant_id, branch_id, customer_id, user_id, number, total_amount,
	tax_amount, status, created_at, updated_at`

// SaleRepository implementa a interface sale.Repository
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{
		db: db,
	}
}

// Create implementa sale.Repository.Create
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	q := database.QuerierFrom(ctx, r.db)

	_, err := q.Exec(ctx,
		`INSERT INTO sales (
			id, tenant_id, branch_id, customer_id, user_id, number,
			total_amount, tax_amount, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`,
		s.ID, s.TenantID, s.BranchID, s.CustomerID, s.UserID, s.Number,
		s.TotalAmount, s.TaxAmount, s.Status, s.CreatedAt, s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("erro ao criar venda: %w", err)
	}

	for _, item := range s.Items {
		_, err := q.Exec(ctx,
			`INSERT INTO sale_items (
				id, sale_id, product_id, product_name, quantity, unit_price, subtotal
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7
			)`,
			item.ID, item.SaleID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.Subtotal)

		if err != nil {
			return fmt.Errorf("erro ao criar item da venda: %w", err)
		}
	}

	return nil
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate implementa sale.Repository.FindByIDForUpdate
func (r *SaleRepository) FindByIDForUpdate(ctx context.Context, id string) (*sale.Sale, error) {
	return r.findByID(ctx, id, true)
}

func (r *SaleRepository) findByID(ctx context.Context, id string, forUpdate bool) (*sale.Sale, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var s sale.Sale
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.TenantID, &s.BranchID, &s.CustomerID, &s.UserID, &s.Number,
		&s.TotalAmount, &s.TaxAmount, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}

	items, err := r.findItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items

	return &s, nil
}

// findItems carrega os itens de uma venda
func (r *SaleRepository) findItems(ctx context.Context, saleID string) ([]*sale.SaleItem, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT id, sale_id, product_id, product_name, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	items := make([]*sale.SaleItem, 0)
	for rows.Next() {
		var item sale.SaleItem
		err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler item da venda: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return items, nil
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*sale.Sale, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}
	defer rows.Close()

	sales := make([]*sale.Sale, 0)
	for rows.Next() {
		var s sale.Sale
		err := rows.Scan(
			&s.ID, &s.TenantID, &s.BranchID, &s.CustomerID, &s.UserID,
			&s.Number, &s.TotalAmount, &s.TaxAmount, &s.Status,
			&s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler venda: %w", err)
		}
		sales = append(sales, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return sales, nil
}

// CountByTenant implementa sale.Repository.CountByTenant
func (r *SaleRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM sales WHERE tenant_id = $1",
		tenantID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar vendas: %w", err)
	}

	return count, nil
}

// UpdateStatus implementa sale.Repository.UpdateStatus
func (r *SaleRepository) UpdateStatus(ctx context.Context, id string, status sale.Status) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		"UPDATE sales SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)

	if err != nil {
		return fmt.Errorf("erro ao atualizar status da venda: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSaleNotFound
	}

	return nil
}
