package customer

import (
	"context"
)

// Repository define a interface para operações de repositório de clientes
type Repository interface {
	// Create cria um novo cliente
	Create(ctx context.Context, c *Customer) error

	// FindByID busca um cliente pelo ID
	FindByID(ctx context.Context, id string) (*Customer, error)

	// FindByIDForUpdate busca um cliente travando a linha para atualização
	// dentro da transação corrente
	FindByIDForUpdate(ctx context.Context, id string) (*Customer, error)

	// FindByDocument busca um cliente pelo documento (CPF/CNPJ)
	FindByDocument(ctx context.Context, tenantID, document string) (*Customer, error)

	// List lista os clientes de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Customer, error)

	// CountByTenant conta quantos clientes existem para um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)

	// Update atualiza os dados de um cliente existente
	Update(ctx context.Context, c *Customer) error

	// UpdateStatus atualiza o status de um cliente
	UpdateStatus(ctx context.Context, id string, status Status) error

	// AdjustDueBalance aplica um delta ao saldo devedor do cliente
	AdjustDueBalance(ctx context.Context, id string, delta float64) error

	// Delete remove um cliente
	Delete(ctx context.Context, id string) error

	// ExistsByDocument verifica se um cliente existe pelo documento
	ExistsByDocument(ctx context.Context, tenantID, document string) (bool, error)
}
