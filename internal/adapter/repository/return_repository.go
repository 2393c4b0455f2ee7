package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hugohenrick/pdv-varejo/internal/domain/productreturn"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrReturnNotFound = errors.New("devolução não encontrada")
)

const returnColumns = `
	id, tenant_id, branch_id, sale_id, customer_id, user_id, number,
	total_amount, tax_amount, refund_amount, refund_type, restock_items,
	status, notes, approved_by, approved_at, processed_by, processed_at,
	created_at, updated_at`

// ReturnRepository implementa a interface productreturn.Repository
type ReturnRepository struct {
	db *pgxpool.Pool
}

// NewReturnRepository cria uma nova instância de ReturnRepository
func NewReturnRepository(db *pgxpool.Pool) productreturn.Repository {
	return &ReturnRepository{
		db: db,
	}
}

// Create implementa productreturn.Repository.Create
func (r *ReturnRepository) Create(ctx context.Context, pr *productreturn.ProductReturn) error {
	q := database.QuerierFrom(ctx, r.db)

	_, err := q.Exec(ctx,
		`INSERT INTO product_returns (
			id, tenant_id, branch_id, sale_id, customer_id, user_id, number,
			total_amount, tax_amount, refund_amount, refund_type,
			restock_items, status, notes, approved_by, approved_at,
			processed_by, processed_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20
		)`,
		pr.ID, pr.TenantID, pr.BranchID, pr.SaleID, pr.CustomerID, pr.UserID,
		pr.Number, pr.TotalAmount, pr.TaxAmount, pr.RefundAmount,
		pr.RefundType, pr.RestockItems, pr.Status, pr.Notes, pr.ApprovedBy,
		pr.ApprovedAt, pr.ProcessedBy, pr.ProcessedAt, pr.CreatedAt,
		pr.UpdatedAt)

	if err != nil {
		return fmt.Errorf("erro ao criar devolução: %w", err)
	}

	for _, item := range pr.Items {
		_, err := q.Exec(ctx,
			`INSERT INTO return_items (
				id, return_id, sale_item_id, product_id, product_name,
				quantity, unit_price, subtotal, condition, restock
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			)`,
			item.ID, item.ReturnID, item.SaleItemID, item.ProductID,
			item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal,
			item.Condition, item.Restock)

		if err != nil {
			return fmt.Errorf("erro ao criar item da devolução: %w", err)
		}
	}

	return nil
}

// FindByID implementa productreturn.Repository.FindByID
func (r *ReturnRepository) FindByID(ctx context.Context, id string) (*productreturn.ProductReturn, error) {
	q := database.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx,
		`SELECT `+returnColumns+` FROM product_returns WHERE id = $1`, id)

	pr, err := scanReturn(row)
	if err != nil {
		return nil, err
	}

	items, err := r.findItems(ctx, pr.ID)
	if err != nil {
		return nil, err
	}
	pr.Items = items

	return pr, nil
}

// findItems carrega os itens de uma devolução
func (r *ReturnRepository) findItems(ctx context.Context, returnID string) ([]*productreturn.ReturnItem, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT id, return_id, sale_item_id, product_id, product_name,
			quantity, unit_price, subtotal, condition, restock
		FROM return_items WHERE return_id = $1`,
		returnID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens da devolução: %w", err)
	}
	defer rows.Close()

	items := make([]*productreturn.ReturnItem, 0)
	for rows.Next() {
		var item productreturn.ReturnItem
		err := rows.Scan(&item.ID, &item.ReturnID, &item.SaleItemID,
			&item.ProductID, &item.ProductName, &item.Quantity,
			&item.UnitPrice, &item.Subtotal, &item.Condition, &item.Restock)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler item da devolução: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return items, nil
}

// filterClauses monta as cláusulas WHERE dos filtros de listagem. O prefixo
// qualifica as colunas quando a consulta envolve mais de uma tabela
func filterClauses(prefix, tenantID string, filter productreturn.ListFilter) (string, []interface{}) {
	clauses := []string{prefix + "tenant_id = $1"}
	args := []interface{}{tenantID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, prefix+"status = $"+strconv.Itoa(len(args)))
	}

	if filter.BranchID != "" {
		args = append(args, filter.BranchID)
		clauses = append(clauses, prefix+"branch_id = $"+strconv.Itoa(len(args)))
	}

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		clauses = append(clauses, prefix+"customer_id = $"+strconv.Itoa(len(args)))
	}

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, prefix+"created_at >= $"+strconv.Itoa(len(args)))
	}

	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, prefix+"created_at <= $"+strconv.Itoa(len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// List implementa productreturn.Repository.List
func (r *ReturnRepository) List(ctx context.Context, tenantID string, filter productreturn.ListFilter, limit, offset int) ([]*productreturn.ProductReturn, error) {
	where, args := filterClauses("", tenantID, filter)
	args = append(args, limit, offset)

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+returnColumns+` FROM product_returns
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar devoluções: %w", err)
	}
	defer rows.Close()

	returns := make([]*productreturn.ProductReturn, 0)
	for rows.Next() {
		pr, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		returns = append(returns, pr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return returns, nil
}

// Count implementa productreturn.Repository.Count
func (r *ReturnRepository) Count(ctx context.Context, tenantID string, filter productreturn.ListFilter) (int, error) {
	where, args := filterClauses("", tenantID, filter)

	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM product_returns WHERE "+where,
		args...).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar devoluções: %w", err)
	}

	return count, nil
}

// Update implementa productreturn.Repository.Update
func (r *ReturnRepository) Update(ctx context.Context, pr *productreturn.ProductReturn) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE product_returns SET
			refund_type = $1, restock_items = $2, status = $3, notes = $4,
			approved_by = $5, approved_at = $6, processed_by = $7,
			processed_at = $8, updated_at = $9
		WHERE id = $10`,
		pr.RefundType, pr.RestockItems, pr.Status, pr.Notes, pr.ApprovedBy,
		pr.ApprovedAt, pr.ProcessedBy, pr.ProcessedAt, pr.UpdatedAt, pr.ID)

	if err != nil {
		return fmt.Errorf("erro ao atualizar devolução: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReturnNotFound
	}

	return nil
}

// Delete implementa productreturn.Repository.Delete
func (r *ReturnRepository) Delete(ctx context.Context, id string) error {
	q := database.QuerierFrom(ctx, r.db)

	if _, err := q.Exec(ctx, "DELETE FROM return_items WHERE return_id = $1", id); err != nil {
		return fmt.Errorf("erro ao excluir itens da devolução: %w", err)
	}

	result, err := q.Exec(ctx, "DELETE FROM product_returns WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao excluir devolução: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReturnNotFound
	}

	return nil
}

// SumReturnedQuantity implementa productreturn.Repository.SumReturnedQuantity
func (r *ReturnRepository) SumReturnedQuantity(ctx context.Context, saleItemID, excludeReturnID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var total int
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(ri.quantity), 0)
		FROM return_items ri
		JOIN product_returns pr ON pr.id = ri.return_id
		WHERE ri.sale_item_id = $1
			AND pr.status <> 'cancelled'
			AND ($2 = '' OR pr.id <> $2)`,
		saleItemID, excludeReturnID).Scan(&total)

	if err != nil {
		return 0, fmt.Errorf("erro ao somar quantidades devolvidas: %w", err)
	}

	return total, nil
}

// TotalsByStatus implementa productreturn.Repository.TotalsByStatus
func (r *ReturnRepository) TotalsByStatus(ctx context.Context, tenantID string, filter productreturn.ListFilter) ([]*productreturn.StatusTotal, error) {
	where, args := filterClauses("", tenantID, filter)

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(refund_amount), 0)
		FROM product_returns
		WHERE `+where+`
		GROUP BY status
		ORDER BY status`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao agregar devoluções por status: %w", err)
	}
	defer rows.Close()

	totals := make([]*productreturn.StatusTotal, 0)
	for rows.Next() {
		var t productreturn.StatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.TotalAmount, &t.RefundAmount); err != nil {
			return nil, fmt.Errorf("erro ao ler agregado: %w", err)
		}
		totals = append(totals, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return totals, nil
}

// TotalsByRefundType implementa productreturn.Repository.TotalsByRefundType
func (r *ReturnRepository) TotalsByRefundType(ctx context.Context, tenantID string, filter productreturn.ListFilter) ([]*productreturn.RefundTypeTotal, error) {
	where, args := filterClauses("", tenantID, filter)

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT refund_type, COUNT(*), COALESCE(SUM(refund_amount), 0)
		FROM product_returns
		WHERE `+where+`
		GROUP BY refund_type
		ORDER BY refund_type`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao agregar devoluções por tipo de reembolso: %w", err)
	}
	defer rows.Close()

	totals := make([]*productreturn.RefundTypeTotal, 0)
	for rows.Next() {
		var t productreturn.RefundTypeTotal
		if err := rows.Scan(&t.RefundType, &t.Count, &t.RefundAmount); err != nil {
			return nil, fmt.Errorf("erro ao ler agregado: %w", err)
		}
		totals = append(totals, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return totals, nil
}

// TopReturnedProducts implementa productreturn.Repository.TopReturnedProducts
func (r *ReturnRepository) TopReturnedProducts(ctx context.Context, tenantID string, filter productreturn.ListFilter, limit int) ([]*productreturn.ProductTotal, error) {
	where, args := filterClauses("pr.", tenantID, filter)
	args = append(args, limit)

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT ri.product_id, ri.product_name, SUM(ri.quantity), COUNT(DISTINCT pr.id)
		FROM return_items ri
		JOIN product_returns pr ON pr.id = ri.return_id
		WHERE `+where+`
		GROUP BY ri.product_id, ri.product_name
		ORDER BY SUM(ri.quantity) DESC
		LIMIT $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar produtos mais devolvidos: %w", err)
	}
	defer rows.Close()

	totals := make([]*productreturn.ProductTotal, 0)
	for rows.Next() {
		var t productreturn.ProductTotal
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.Quantity, &t.Returns); err != nil {
			return nil, fmt.Errorf("erro ao ler agregado: %w", err)
		}
		totals = append(totals, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return totals, nil
}

// scanReturn lê uma devolução de uma linha de resultado
func scanReturn(row pgx.Row) (*productreturn.ProductReturn, error) {
	var pr productreturn.ProductReturn

	err := row.Scan(
		&pr.ID, &pr.TenantID, &pr.BranchID, &pr.SaleID, &pr.CustomerID,
		&pr.UserID, &pr.Number, &pr.TotalAmount, &pr.TaxAmount,
		&pr.RefundAmount, &pr.RefundType, &pr.RestockItems, &pr.Status,
		&pr.Notes, &pr.ApprovedBy, &pr.ApprovedAt, &pr.ProcessedBy,
		&pr.ProcessedAt, &pr.CreatedAt, &pr.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReturnNotFound
		}
		return nil, fmt.Errorf("erro ao buscar devolução: %w", err)
	}

	return &pr, nil
}
