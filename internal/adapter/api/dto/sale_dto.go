package dto

import (
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
)

// SaleItemRequest representa um item na requisição de venda
type SaleItemRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gte=0"`
}

// SaleRequest representa a requisição de registro de venda
type SaleRequest struct {
	CustomerID string            `json:"customer_id"`
	BranchID   string            `json:"branch_id"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1"`
}

// SaleItemResponse representa um item de venda na resposta
type SaleItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// SaleResponse representa a resposta de venda
type SaleResponse struct {
	ID          string             `json:"id"`
	TenantID    string             `json:"tenant_id"`
	BranchID    string             `json:"branch_id"`
	CustomerID  string             `json:"customer_id"`
	UserID      string             `json:"user_id"`
	Number      string             `json:"number"`
	Items       []SaleItemResponse `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	TaxAmount   float64            `json:"tax_amount"`
	Status      sale.Status        `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// SaleListResponse representa a resposta de lista de vendas
type SaleListResponse struct {
	Items      []SaleResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"total_pages"`
}

// ToSaleResponse converte uma venda do domínio para DTO
func ToSaleResponse(s *sale.Sale) *SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}

	return &SaleResponse{
		ID:          s.ID,
		TenantID:    s.TenantID,
		BranchID:    s.BranchID,
		CustomerID:  s.CustomerID,
		UserID:      s.UserID,
		Number:      s.Number,
		Items:       items,
		TotalAmount: s.TotalAmount,
		TaxAmount:   s.TaxAmount,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToSaleListResponse converte uma lista de vendas do domínio para DTO
func ToSaleListResponse(sales []*sale.Sale, total, page, size, totalPages int) *SaleListResponse {
	items := make([]SaleResponse, len(sales))
	for i, s := range sales {
		items[i] = *ToSaleResponse(s)
	}

	return &SaleListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
