package sale

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyBranchID = errors.New("ID da filial não pode ser vazio")
	ErrEmptyUserID   = errors.New("ID do usuário não pode ser vazio")
	ErrNoItems       = errors.New("venda deve conter ao menos um item")
	ErrInvalidQty    = errors.New("quantidade do item deve ser maior que zero")
	ErrItemNotFound  = errors.New("item da venda não encontrado")
)

// Status representa o estado da venda
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// SaleItem representa um item de venda
type SaleItem struct {
	ID          string  `json:"id"`
	SaleID      string  `json:"sale_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"` // Nome do produto no momento da venda
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"` // Preço unitário no momento da venda
	Subtotal    float64 `json:"subtotal"`
}

// Sale representa uma venda realizada no PDV
type Sale struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	BranchID    string      `json:"branch_id"`
	CustomerID  string      `json:"customer_id"` // Vazio para consumidor não identificado
	UserID      string      `json:"user_id"`     // Operador que registrou a venda
	Number      string      `json:"number"`      // Número legível da venda
	Items       []*SaleItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	TaxAmount   float64     `json:"tax_amount"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// GenerateNumber gera um número legível de venda
func GenerateNumber() string {
	return fmt.Sprintf("VND-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// NewSale cria uma nova venda com seus itens
func NewSale(tenantID, branchID, customerID, userID string) (*Sale, error) {
	if branchID == "" {
		return nil, ErrEmptyBranchID
	}

	if userID == "" {
		return nil, ErrEmptyUserID
	}

	now := time.Now()
	return &Sale{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		BranchID:   branchID,
		CustomerID: customerID,
		UserID:     userID,
		Number:     GenerateNumber(),
		Status:     StatusCompleted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AddItem adiciona um item à venda e recalcula o subtotal
func (s *Sale) AddItem(productID, productName string, quantity int, unitPrice float64) error {
	if quantity <= 0 {
		return ErrInvalidQty
	}

	item := &SaleItem{
		ID:          uuid.New().String(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    float64(quantity) * unitPrice,
	}
	s.Items = append(s.Items, item)
	s.TotalAmount += item.Subtotal
	s.UpdatedAt = time.Now()
	return nil
}

// ApplyTax calcula o imposto da venda com a alíquota informada
func (s *Sale) ApplyTax(taxRate float64) {
	s.TaxAmount = s.TotalAmount * taxRate
	s.UpdatedAt = time.Now()
}

// FindItem busca um item da venda pelo ID
func (s *Sale) FindItem(itemID string) *SaleItem {
	for _, item := range s.Items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}
