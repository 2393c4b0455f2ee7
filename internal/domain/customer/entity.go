package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("nome não pode ser vazio")
	ErrEmptyDocument = errors.New("documento não pode ser vazio")
	ErrInvalidEmail  = errors.New("email inválido")
)

// PersonType define o tipo de pessoa (física ou jurídica)
type PersonType string

const (
	PersonTypePF PersonType = "PF" // Pessoa Física
	PersonTypePJ PersonType = "PJ" // Pessoa Jurídica
)

// Status representa o estado do cliente
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBlocked  Status = "blocked"
)

// Address representa o endereço do cliente
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
}

// Customer representa um cliente no sistema
type Customer struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	BranchID       string     `json:"branch_id"`
	PersonType     PersonType `json:"person_type"`
	Name           string     `json:"name"`
	Document       string     `json:"document"` // CPF/CNPJ
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Status         Status     `json:"status"`
	CreditLimit    float64    `json:"credit_limit"`
	DueBalance     float64    `json:"due_balance"` // Saldo devedor corrente do cliente
	Address        Address    `json:"address"`
	Observations   string     `json:"observations"`
	LastPurchaseAt *time.Time `json:"last_purchase_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCustomer cria um novo cliente
func NewCustomer(tenantID, branchID string, personType PersonType, name, document string) (*Customer, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if document == "" {
		return nil, ErrEmptyDocument
	}

	now := time.Now()
	return &Customer{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		BranchID:   branchID,
		PersonType: personType,
		Name:       name,
		Document:   document,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsActive verifica se o cliente está ativo
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

// Activate ativa o cliente
func (c *Customer) Activate() {
	c.Status = StatusActive
	c.UpdatedAt = time.Now()
}

// Deactivate desativa o cliente
func (c *Customer) Deactivate() {
	c.Status = StatusInactive
	c.UpdatedAt = time.Now()
}

// Block bloqueia o cliente
func (c *Customer) Block() {
	c.Status = StatusBlocked
	c.UpdatedAt = time.Now()
}

// Update atualiza os dados do cliente
func (c *Customer) Update(name, email, phone string, creditLimit float64, address Address, observations string) error {
	if name == "" {
		return ErrEmptyName
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.CreditLimit = creditLimit
	c.Address = address
	c.Observations = observations
	c.UpdatedAt = time.Now()
	return nil
}

// AdjustDueBalance aplica um delta ao saldo devedor do cliente. Um abatimento
// maior que o saldo corrente deixa o cliente com saldo negativo (crédito)
func (c *Customer) AdjustDueBalance(delta float64) {
	c.DueBalance += delta
	c.UpdatedAt = time.Now()
}

// UpdateLastPurchase atualiza a data da última compra
func (c *Customer) UpdateLastPurchase() {
	now := time.Now()
	c.LastPurchaseAt = &now
	c.UpdatedAt = now
}
