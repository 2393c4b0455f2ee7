package productreturn

import (
	"context"
	"time"
)

// ListFilter define os filtros de listagem de devoluções
type ListFilter struct {
	Status     Status
	BranchID   string
	CustomerID string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// StatusTotal agrega quantidade e valores por status
type StatusTotal struct {
	Status       Status  `json:"status"`
	Count        int     `json:"count"`
	TotalAmount  float64 `json:"total_amount"`
	RefundAmount float64 `json:"refund_amount"`
}

// RefundTypeTotal agrega quantidade e valores por tipo de reembolso
type RefundTypeTotal struct {
	RefundType   RefundType `json:"refund_type"`
	Count        int        `json:"count"`
	RefundAmount float64    `json:"refund_amount"`
}

// ProductTotal agrega quantidades devolvidas por produto
type ProductTotal struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Returns     int    `json:"returns"`
}

// Repository define a interface para operações de repositório de devoluções
type Repository interface {
	// Create cria uma devolução com seus itens em uma única operação
	Create(ctx context.Context, r *ProductReturn) error

	// FindByID busca uma devolução pelo ID, incluindo os itens
	FindByID(ctx context.Context, id string) (*ProductReturn, error)

	// List lista as devoluções de um tenant aplicando os filtros
	List(ctx context.Context, tenantID string, filter ListFilter, limit, offset int) ([]*ProductReturn, error)

	// Count conta as devoluções de um tenant aplicando os filtros
	Count(ctx context.Context, tenantID string, filter ListFilter) (int, error)

	// Update atualiza o cabeçalho de uma devolução existente
	Update(ctx context.Context, r *ProductReturn) error

	// Delete remove uma devolução e seus itens
	Delete(ctx context.Context, id string) error

	// SumReturnedQuantity soma as quantidades já devolvidas de um item de
	// venda em devoluções não canceladas, opcionalmente ignorando uma devolução
	SumReturnedQuantity(ctx context.Context, saleItemID, excludeReturnID string) (int, error)

	// TotalsByStatus agrega devoluções por status no período
	TotalsByStatus(ctx context.Context, tenantID string, filter ListFilter) ([]*StatusTotal, error)

	// TotalsByRefundType agrega devoluções por tipo de reembolso no período
	TotalsByRefundType(ctx context.Context, tenantID string, filter ListFilter) ([]*RefundTypeTotal, error)

	// TopReturnedProducts lista os produtos mais devolvidos no período
	TopReturnedProducts(ctx context.Context, tenantID string, filter ListFilter, limit int) ([]*ProductTotal, error)
}
