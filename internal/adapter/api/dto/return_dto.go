package dto

import (
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/productreturn"
)

// ReturnItemRequest representa um item na requisição de devolução
type ReturnItemRequest struct {
	SaleItemID string `json:"sale_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Condition  string `json:"condition"`
	Restock    *bool  `json:"restock"`
}

// ReturnRequest representa a requisição de criação de devolução
type ReturnRequest struct {
	SaleID       string                   `json:"sale_id" binding:"required"`
	BranchID     string                   `json:"branch_id"`
	RefundType   productreturn.RefundType `json:"refund_type" binding:"required"`
	RestockItems bool                     `json:"restock_items"`
	Notes        string                   `json:"notes"`
	Items        []ReturnItemRequest      `json:"items" binding:"required,min=1"`
}

// ReturnUpdateRequest representa a requisição de atualização de devolução
type ReturnUpdateRequest struct {
	Status     *productreturn.Status     `json:"status"`
	RefundType *productreturn.RefundType `json:"refund_type"`
	Notes      *string                   `json:"notes"`
}

// ReturnItemResponse representa um item devolvido na resposta
type ReturnItemResponse struct {
	ID          string  `json:"id"`
	SaleItemID  string  `json:"sale_item_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
	Condition   string  `json:"condition"`
	Restock     bool    `json:"restock"`
}

// ReturnResponse representa a resposta de devolução
type ReturnResponse struct {
	ID           string                   `json:"id"`
	TenantID     string                   `json:"tenant_id"`
	BranchID     string                   `json:"branch_id"`
	SaleID       string                   `json:"sale_id"`
	CustomerID   string                   `json:"customer_id"`
	UserID       string                   `json:"user_id"`
	Number       string                   `json:"number"`
	Items        []ReturnItemResponse     `json:"items"`
	TotalAmount  float64                  `json:"total_amount"`
	TaxAmount    float64                  `json:"tax_amount"`
	RefundAmount float64                  `json:"refund_amount"`
	RefundType   productreturn.RefundType `json:"refund_type"`
	RestockItems bool                     `json:"restock_items"`
	Status       productreturn.Status     `json:"status"`
	Notes        string                   `json:"notes"`
	ApprovedBy   string                   `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time               `json:"approved_at"`
	ProcessedBy  string                   `json:"processed_by,omitempty"`
	ProcessedAt  *time.Time               `json:"processed_at"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ReturnListResponse representa a resposta de lista de devoluções
type ReturnListResponse struct {
	Items      []ReturnResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalPages int              `json:"total_pages"`
}

// ReturnReportResponse representa o relatório agregado de devoluções
type ReturnReportResponse struct {
	ByStatus     []*productreturn.StatusTotal     `json:"by_status"`
	ByRefundType []*productreturn.RefundTypeTotal `json:"by_refund_type"`
	TopProducts  []*productreturn.ProductTotal    `json:"top_products"`
}

// ToReturnResponse converte uma devolução do domínio para DTO
func ToReturnResponse(pr *productreturn.ProductReturn) *ReturnResponse {
	items := make([]ReturnItemResponse, len(pr.Items))
	for i, item := range pr.Items {
		items[i] = ReturnItemResponse{
			ID:          item.ID,
			SaleItemID:  item.SaleItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			Condition:   item.Condition,
			Restock:     item.Restock,
		}
	}

	return &ReturnResponse{
		ID:           pr.ID,
		TenantID:     pr.TenantID,
		BranchID:     pr.BranchID,
		SaleID:       pr.SaleID,
		CustomerID:   pr.CustomerID,
		UserID:       pr.UserID,
		Number:       pr.Number,
		Items:        items,
		TotalAmount:  pr.TotalAmount,
		TaxAmount:    pr.TaxAmount,
		RefundAmount: pr.RefundAmount,
		RefundType:   pr.RefundType,
		RestockItems: pr.RestockItems,
		Status:       pr.Status,
		Notes:        pr.Notes,
		ApprovedBy:   pr.ApprovedBy,
		ApprovedAt:   pr.ApprovedAt,
		ProcessedBy:  pr.ProcessedBy,
		ProcessedAt:  pr.ProcessedAt,
		CreatedAt:    pr.CreatedAt,
		UpdatedAt:    pr.UpdatedAt,
	}
}

// ToReturnListResponse converte uma lista de devoluções do domínio para DTO
func ToReturnListResponse(returns []*productreturn.ProductReturn, total, page, size, totalPages int) *ReturnListResponse {
	items := make([]ReturnResponse, len(returns))
	for i, pr := range returns {
		items[i] = *ToReturnResponse(pr)
	}

	return &ReturnListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
