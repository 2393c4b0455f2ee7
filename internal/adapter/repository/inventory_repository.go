package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-varejo/internal/domain/inventory"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrInventoryNotFound  = errors.New("estoque não encontrado")
	ErrInventoryDuplicate = errors.New("estoque já cadastrado para o produto na filial")
)

const inventoryColumns = `
	id, tenant_id, branch_id, product_id, product_name, quantity, min_stock,
	max_stock, reorder_point, cost_price, created_at, updated_at`

// InventoryRepository implementa a interface inventory.Repository
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository cria uma nova instância de InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) inventory.Repository {
	return &InventoryRepository{
		db: db,
	}
}

// Create implementa inventory.Repository.Create
func (r *InventoryRepository) Create(ctx context.Context, i *inventory.Inventory) error {
	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx,
		`INSERT INTO inventories (
			id, tenant_id, branch_id, product_id, product_name, quantity,
			min_stock, max_stock, reorder_point, cost_price, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`,
		i.ID, i.TenantID, i.BranchID, i.ProductID, i.ProductName, i.Quantity,
		i.MinStock, i.MaxStock, i.ReorderPoint, i.CostPrice, i.CreatedAt,
		i.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrInventoryDuplicate
		}
		return fmt.Errorf("erro ao criar estoque: %w", err)
	}

	return nil
}

// FindByProductAndBranch implementa inventory.Repository.FindByProductAndBranch
func (r *InventoryRepository) FindByProductAndBranch(ctx context.Context, productID, branchID string) (*inventory.Inventory, error) {
	return r.findByProductAndBranch(ctx, productID, branchID, false)
}

// FindByProductAndBranchForUpdate implementa inventory.Repository.FindByProductAndBranchForUpdate
func (r *InventoryRepository) FindByProductAndBranchForUpdate(ctx context.Context, productID, branchID string) (*inventory.Inventory, error) {
	return r.findByProductAndBranch(ctx, productID, branchID, true)
}

func (r *InventoryRepository) findByProductAndBranch(ctx context.Context, productID, branchID string, forUpdate bool) (*inventory.Inventory, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + inventoryColumns + ` FROM inventories WHERE product_id = $1 AND branch_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var i inventory.Inventory
	err := q.QueryRow(ctx, query, productID, branchID).Scan(
		&i.ID, &i.TenantID, &i.BranchID, &i.ProductID, &i.ProductName,
		&i.Quantity, &i.MinStock, &i.MaxStock, &i.ReorderPoint, &i.CostPrice,
		&i.CreatedAt, &i.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("erro ao buscar estoque: %w", err)
	}

	return &i, nil
}

// ListByBranch implementa inventory.Repository.ListByBranch
func (r *InventoryRepository) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*inventory.Inventory, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventories
		WHERE branch_id = $1
		ORDER BY product_name ASC
		LIMIT $2 OFFSET $3`,
		branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar estoque: %w", err)
	}
	defer rows.Close()

	inventories := make([]*inventory.Inventory, 0)
	for rows.Next() {
		var i inventory.Inventory
		err := rows.Scan(
			&i.ID, &i.TenantID, &i.BranchID, &i.ProductID, &i.ProductName,
			&i.Quantity, &i.MinStock, &i.MaxStock, &i.ReorderPoint,
			&i.CostPrice, &i.CreatedAt, &i.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler estoque: %w", err)
		}
		inventories = append(inventories, &i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return inventories, nil
}

// CountByBranch implementa inventory.Repository.CountByBranch
func (r *InventoryRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM inventories WHERE branch_id = $1",
		branchID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar registros de estoque: %w", err)
	}

	return count, nil
}

// AdjustQuantity implementa inventory.Repository.AdjustQuantity. A quantidade
// resultante nunca fica negativa
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id string, delta int) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE inventories
		SET quantity = GREATEST(quantity + $1, 0), updated_at = NOW()
		WHERE id = $2`,
		delta, id)

	if err != nil {
		return fmt.Errorf("erro ao ajustar quantidade em estoque: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInventoryNotFound
	}

	return nil
}

// Update implementa inventory.Repository.Update
func (r *InventoryRepository) Update(ctx context.Context, i *inventory.Inventory) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE inventories SET
			product_name = $1, quantity = $2, min_stock = $3, max_stock = $4,
			reorder_point = $5, cost_price = $6, updated_at = $7
		WHERE id = $8`,
		i.ProductName, i.Quantity, i.MinStock, i.MaxStock, i.ReorderPoint,
		i.CostPrice, i.UpdatedAt, i.ID)

	if err != nil {
		return fmt.Errorf("erro ao atualizar estoque: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInventoryNotFound
	}

	return nil
}

// MovementRepository implementa a interface inventory.MovementRepository
type MovementRepository struct {
	db *pgxpool.Pool
}

// NewMovementRepository cria uma nova instância de MovementRepository
func NewMovementRepository(db *pgxpool.Pool) inventory.MovementRepository {
	return &MovementRepository{
		db: db,
	}
}

// Create implementa inventory.MovementRepository.Create
func (r *MovementRepository) Create(ctx context.Context, m *inventory.StockMovement) error {
	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx,
		`INSERT INTO stock_movements (
			id, tenant_id, branch_id, product_id, type, quantity, reason,
			reference_id, user_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`,
		m.ID, m.TenantID, m.BranchID, m.ProductID, m.Type, m.Quantity,
		m.Reason, m.ReferenceID, m.UserID, m.CreatedAt)

	if err != nil {
		return fmt.Errorf("erro ao registrar movimentação de estoque: %w", err)
	}

	return nil
}

// FindByReference implementa inventory.MovementRepository.FindByReference
func (r *MovementRepository) FindByReference(ctx context.Context, referenceID string) ([]*inventory.StockMovement, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT id, tenant_id, branch_id, product_id, type, quantity, reason,
			reference_id, user_id, created_at
		FROM stock_movements
		WHERE reference_id = $1
		ORDER BY created_at ASC`,
		referenceID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar movimentações: %w", err)
	}
	defer rows.Close()

	return scanMovementRows(rows)
}

// ListByProduct implementa inventory.MovementRepository.ListByProduct
func (r *MovementRepository) ListByProduct(ctx context.Context, productID, branchID string, limit, offset int) ([]*inventory.StockMovement, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT id, tenant_id, branch_id, product_id, type, quantity, reason,
			reference_id, user_id, created_at
		FROM stock_movements
		WHERE product_id = $1 AND branch_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		productID, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações: %w", err)
	}
	defer rows.Close()

	return scanMovementRows(rows)
}

// scanMovementRows lê múltiplas movimentações de um resultado
func scanMovementRows(rows pgx.Rows) ([]*inventory.StockMovement, error) {
	movements := make([]*inventory.StockMovement, 0)

	for rows.Next() {
		var m inventory.StockMovement
		err := rows.Scan(&m.ID, &m.TenantID, &m.BranchID, &m.ProductID,
			&m.Type, &m.Quantity, &m.Reason, &m.ReferenceID, &m.UserID,
			&m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler movimentação: %w", err)
		}
		movements = append(movements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return movements, nil
}
