package dto

import (
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/inventory"
)

// InventoryRequest representa a requisição de criação de estoque
type InventoryRequest struct {
	BranchID     string  `json:"branch_id" binding:"required"`
	ProductID    string  `json:"product_id" binding:"required"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	MinStock     int     `json:"min_stock"`
	MaxStock     int     `json:"max_stock"`
	ReorderPoint int     `json:"reorder_point"`
	CostPrice    float64 `json:"cost_price"`
}

// InventoryResponse representa a resposta de estoque
type InventoryResponse struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenant_id"`
	BranchID          string    `json:"branch_id"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Quantity          int       `json:"quantity"`
	MinStock          int       `json:"min_stock"`
	MaxStock          int       `json:"max_stock"`
	ReorderPoint      int       `json:"reorder_point"`
	CostPrice         float64   `json:"cost_price"`
	BelowReorderPoint bool      `json:"below_reorder_point"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// InventoryListResponse representa a resposta de lista de estoques
type InventoryListResponse struct {
	Items      []InventoryResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
	TotalPages int                 `json:"total_pages"`
}

// MovementResponse representa uma movimentação de estoque na resposta
type MovementResponse struct {
	ID          string                 `json:"id"`
	TenantID    string                 `json:"tenant_id"`
	BranchID    string                 `json:"branch_id"`
	ProductID   string                 `json:"product_id"`
	Type        inventory.MovementType `json:"type"`
	Quantity    int                    `json:"quantity"`
	Reason      string                 `json:"reason"`
	ReferenceID string                 `json:"reference_id"`
	UserID      string                 `json:"user_id"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ToInventoryResponse converte um estoque do domínio para DTO
func ToInventoryResponse(i *inventory.Inventory) *InventoryResponse {
	return &InventoryResponse{
		ID:                i.ID,
		TenantID:          i.TenantID,
		BranchID:          i.BranchID,
		ProductID:         i.ProductID,
		ProductName:       i.ProductName,
		Quantity:          i.Quantity,
		MinStock:          i.MinStock,
		MaxStock:          i.MaxStock,
		ReorderPoint:      i.ReorderPoint,
		CostPrice:         i.CostPrice,
		BelowReorderPoint: i.BelowReorderPoint(),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

// ToInventoryListResponse converte uma lista de estoques do domínio para DTO
func ToInventoryListResponse(items []*inventory.Inventory, total, page, size, totalPages int) *InventoryListResponse {
	list := make([]InventoryResponse, len(items))
	for i, inv := range items {
		list[i] = *ToInventoryResponse(inv)
	}

	return &InventoryListResponse{
		Items:      list,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}

// ToMovementResponses converte movimentações do domínio para DTO
func ToMovementResponses(movements []*inventory.StockMovement) []MovementResponse {
	items := make([]MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = MovementResponse{
			ID:          m.ID,
			TenantID:    m.TenantID,
			BranchID:    m.BranchID,
			ProductID:   m.ProductID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Reason:      m.Reason,
			ReferenceID: m.ReferenceID,
			UserID:      m.UserID,
			CreatedAt:   m.CreatedAt,
		}
	}
	return items
}
