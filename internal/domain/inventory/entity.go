package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyProductID = errors.New("ID do produto não pode ser vazio")
	ErrEmptyBranchID  = errors.New("ID da filial não pode ser vazio")
	ErrInvalidQty     = errors.New("quantidade da movimentação deve ser maior que zero")
)

// MovementType define o sentido da movimentação de estoque
type MovementType string

const (
	MovementIn  MovementType = "in"  // Entrada de estoque
	MovementOut MovementType = "out" // Saída de estoque
)

// Motivos padrão de movimentação
const (
	ReasonSale     = "sale"
	ReasonReturn   = "return"
	ReasonReversal = "return_reversal"
	ReasonPurchase = "purchase"
	ReasonManual   = "manual_adjustment"
)

// Inventory representa o estoque de um produto em uma filial
type Inventory struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	BranchID     string    `json:"branch_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	MinStock     int       `json:"min_stock"`
	MaxStock     int       `json:"max_stock"`
	ReorderPoint int       `json:"reorder_point"`
	CostPrice    float64   `json:"cost_price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockMovement é um lançamento imutável no razão de movimentações de estoque
type StockMovement struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenant_id"`
	BranchID    string       `json:"branch_id"`
	ProductID   string       `json:"product_id"`
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"`
	Reason      string       `json:"reason"`
	ReferenceID string       `json:"reference_id"` // Entidade que originou a movimentação
	UserID      string       `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewInventory cria um registro de estoque para um produto em uma filial
func NewInventory(tenantID, branchID, productID, productName string, quantity, minStock, maxStock, reorderPoint int, costPrice float64) (*Inventory, error) {
	if productID == "" {
		return nil, ErrEmptyProductID
	}

	if branchID == "" {
		return nil, ErrEmptyBranchID
	}

	now := time.Now()
	return &Inventory{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		BranchID:     branchID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		MinStock:     minStock,
		MaxStock:     maxStock,
		ReorderPoint: reorderPoint,
		CostPrice:    costPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewStockMovement cria um lançamento de movimentação de estoque
func NewStockMovement(tenantID, branchID, productID string, movementType MovementType, quantity int, reason, referenceID, userID string) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQty
	}

	return &StockMovement{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		BranchID:    branchID,
		ProductID:   productID,
		Type:        movementType,
		Quantity:    quantity,
		Reason:      reason,
		ReferenceID: referenceID,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}, nil
}

// Delta retorna a variação de quantidade que a movimentação aplica ao estoque
func (m *StockMovement) Delta() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}

// BelowReorderPoint verifica se o estoque está abaixo do ponto de reposição
func (i *Inventory) BelowReorderPoint() bool {
	return i.ReorderPoint > 0 && i.Quantity <= i.ReorderPoint
}
