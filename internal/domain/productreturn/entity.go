package productreturn

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptySaleID       = errors.New("ID da venda não pode ser vazio")
	ErrEmptyUserID       = errors.New("ID do usuário não pode ser vazio")
	ErrNoItems           = errors.New("devolução deve conter ao menos um item")
	ErrInvalidQty        = errors.New("quantidade devolvida deve ser maior que zero")
	ErrQtyExceedsSold    = errors.New("quantidade devolvida não pode exceder a quantidade vendida")
	ErrInvalidRefund     = errors.New("tipo de reembolso inválido")
	ErrInvalidStatus     = errors.New("status de devolução inválido")
	ErrInvalidTransition = errors.New("transição de status de devolução inválida")
	ErrNotPending        = errors.New("operação permitida apenas para devoluções pendentes")
)

// RefundType define a forma de reembolso da devolução
type RefundType string

const (
	RefundTypeRefund      RefundType = "refund"       // Reembolso em dinheiro
	RefundTypeStoreCredit RefundType = "store_credit" // Crédito em loja
	RefundTypeAdjustment  RefundType = "adjustment"   // Abatimento no saldo devedor do cliente
)

// Status representa o estado da devolução
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ReturnItem representa um item devolvido, vinculado a um item da venda original
type ReturnItem struct {
	ID          string  `json:"id"`
	ReturnID    string  `json:"return_id"`
	SaleItemID  string  `json:"sale_item_id"` // Item da venda original
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`   // Quantidade devolvida
	UnitPrice   float64 `json:"unit_price"` // Preço unitário copiado da venda
	Subtotal    float64 `json:"subtotal"`
	Condition   string  `json:"condition"` // Condição do produto devolvido
	Restock     bool    `json:"restock"`   // Indica se o item volta ao estoque
}

// ProductReturn representa uma devolução de produtos de uma venda
type ProductReturn struct {
	ID           string        `json:"id"`
	TenantID     string        `json:"tenant_id"`
	BranchID     string        `json:"branch_id"`
	SaleID       string        `json:"sale_id"`
	CustomerID   string        `json:"customer_id"` // Cliente da venda original (desnormalizado)
	UserID       string        `json:"user_id"`     // Usuário que registrou a devolução
	Number       string        `json:"number"`      // Número legível da devolução
	Items        []*ReturnItem `json:"items"`
	TotalAmount  float64       `json:"total_amount"`
	TaxAmount    float64       `json:"tax_amount"`
	RefundAmount float64       `json:"refund_amount"`
	RefundType   RefundType    `json:"refund_type"`
	RestockItems bool          `json:"restock_items"` // Política global de reposição de estoque
	Status       Status        `json:"status"`
	Notes        string        `json:"notes"`
	ApprovedBy   string        `json:"approved_by"`
	ApprovedAt   *time.Time    `json:"approved_at"`
	ProcessedBy  string        `json:"processed_by"`
	ProcessedAt  *time.Time    `json:"processed_at"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// GenerateNumber gera um número legível de devolução no formato
// RET-<epoch-ms>-<sufixo de 3 dígitos>
func GenerateNumber() string {
	return fmt.Sprintf("RET-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// ValidRefundType verifica se o tipo de reembolso é válido
func ValidRefundType(t RefundType) bool {
	switch t {
	case RefundTypeRefund, RefundTypeStoreCredit, RefundTypeAdjustment:
		return true
	}
	return false
}

// NewProductReturn cria uma nova devolução
func NewProductReturn(tenantID, branchID, saleID, customerID, userID string, refundType RefundType, restockItems bool) (*ProductReturn, error) {
	if saleID == "" {
		return nil, ErrEmptySaleID
	}

	if userID == "" {
		return nil, ErrEmptyUserID
	}

	if !ValidRefundType(refundType) {
		return nil, ErrInvalidRefund
	}

	now := time.Now()
	return &ProductReturn{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		BranchID:     branchID,
		SaleID:       saleID,
		CustomerID:   customerID,
		UserID:       userID,
		Number:       GenerateNumber(),
		RefundType:   refundType,
		RestockItems: restockItems,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AddItem adiciona um item devolvido e acumula o total
func (r *ProductReturn) AddItem(saleItemID, productID, productName string, quantity int, unitPrice float64, condition string, restock bool) error {
	if quantity <= 0 {
		return ErrInvalidQty
	}

	item := &ReturnItem{
		ID:          uuid.New().String(),
		ReturnID:    r.ID,
		SaleItemID:  saleItemID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    float64(quantity) * unitPrice,
		Condition:   condition,
		Restock:     restock,
	}
	r.Items = append(r.Items, item)
	r.TotalAmount += item.Subtotal
	r.UpdatedAt = time.Now()
	return nil
}

// ApplyTax calcula imposto e valor de reembolso com a alíquota informada
func (r *ProductReturn) ApplyTax(taxRate float64) {
	r.TaxAmount = r.TotalAmount * taxRate
	r.RefundAmount = r.TotalAmount + r.TaxAmount
	r.UpdatedAt = time.Now()
}

// IsPending verifica se a devolução ainda está pendente
func (r *ProductReturn) IsPending() bool {
	return r.Status == StatusPending
}

// CanTransitionTo verifica se a transição de status é permitida.
// Máquina de estados: pending -> approved -> completed, com
// pending -> cancelled como saída. Não há retorno de completed/cancelled
func (r *ProductReturn) CanTransitionTo(next Status) bool {
	switch r.Status {
	case StatusPending:
		return next == StatusApproved || next == StatusCancelled
	case StatusApproved:
		return next == StatusCompleted
	}
	return false
}

// Approve aprova a devolução registrando o responsável
func (r *ProductReturn) Approve(userID string) error {
	if !r.CanTransitionTo(StatusApproved) {
		return ErrInvalidTransition
	}
	now := time.Now()
	r.Status = StatusApproved
	r.ApprovedBy = userID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	return nil
}

// Complete finaliza a devolução registrando o responsável
func (r *ProductReturn) Complete(userID string) error {
	if !r.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	now := time.Now()
	r.Status = StatusCompleted
	r.ProcessedBy = userID
	r.ProcessedAt = &now
	r.UpdatedAt = now
	return nil
}

// Cancel cancela uma devolução pendente
func (r *ProductReturn) Cancel() error {
	if !r.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// ShouldRestock indica se o item deve voltar ao estoque considerando a
// política global e a marcação do próprio item
func (r *ProductReturn) ShouldRestock(item *ReturnItem) bool {
	return r.RestockItems && item.Restock
}
