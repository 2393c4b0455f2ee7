package dto

import (
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/customer"
)

// CustomerAddressRequest representa a requisição de endereço do cliente
type CustomerAddressRequest struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
}

// CustomerRequest representa a requisição de cliente
type CustomerRequest struct {
	PersonType   customer.PersonType    `json:"person_type" binding:"required"`
	Name         string                 `json:"name" binding:"required"`
	Document     string                 `json:"document" binding:"required"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	CreditLimit  float64                `json:"credit_limit"`
	Address      CustomerAddressRequest `json:"address"`
	Observations string                 `json:"observations"`
}

// CustomerAddressResponse representa a resposta de endereço do cliente
type CustomerAddressResponse struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
}

// CustomerResponse representa a resposta de cliente
type CustomerResponse struct {
	ID             string                  `json:"id"`
	TenantID       string                  `json:"tenant_id"`
	BranchID       string                  `json:"branch_id"`
	PersonType     customer.PersonType     `json:"person_type"`
	Name           string                  `json:"name"`
	Document       string                  `json:"document"`
	Email          string                  `json:"email"`
	Phone          string                  `json:"phone"`
	Status         customer.Status         `json:"status"`
	CreditLimit    float64                 `json:"credit_limit"`
	DueBalance     float64                 `json:"due_balance"`
	Address        CustomerAddressResponse `json:"address"`
	Observations   string                  `json:"observations"`
	LastPurchaseAt *time.Time              `json:"last_purchase_at"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// CustomerListResponse representa a resposta de lista de clientes
type CustomerListResponse struct {
	Items      []CustomerResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	TotalPages int                `json:"total_pages"`
}

// ToCustomerAddress converte a requisição de endereço para o domínio
func ToCustomerAddress(addr CustomerAddressRequest) customer.Address {
	return customer.Address{
		Street:     addr.Street,
		Number:     addr.Number,
		Complement: addr.Complement,
		District:   addr.District,
		City:       addr.City,
		State:      addr.State,
		ZipCode:    addr.ZipCode,
		Country:    addr.Country,
	}
}

// ToCustomerResponse converte um cliente do domínio para DTO
func ToCustomerResponse(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		BranchID:    c.BranchID,
		PersonType:  c.PersonType,
		Name:        c.Name,
		Document:    c.Document,
		Email:       c.Email,
		Phone:       c.Phone,
		Status:      c.Status,
		CreditLimit: c.CreditLimit,
		DueBalance:  c.DueBalance,
		Address: CustomerAddressResponse{
			Street:     c.Address.Street,
			Number:     c.Address.Number,
			Complement: c.Address.Complement,
			District:   c.Address.District,
			City:       c.Address.City,
			State:      c.Address.State,
			ZipCode:    c.Address.ZipCode,
			Country:    c.Address.Country,
		},
		Observations:   c.Observations,
		LastPurchaseAt: c.LastPurchaseAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCustomerListResponse converte uma lista de clientes do domínio para DTO
func ToCustomerListResponse(customers []*customer.Customer, total, page, size, totalPages int) *CustomerListResponse {
	items := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		items[i] = *ToCustomerResponse(c)
	}

	return &CustomerListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
