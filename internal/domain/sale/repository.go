package sale

import (
	"context"
)

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// Create cria uma nova venda com seus itens
	Create(ctx context.Context, s *Sale) error

	// FindByID busca uma venda pelo ID, incluindo os itens
	FindByID(ctx context.Context, id string) (*Sale, error)

	// FindByIDForUpdate busca uma venda travando a linha para atualização
	// dentro da transação corrente
	FindByIDForUpdate(ctx context.Context, id string) (*Sale, error)

	// List lista as vendas de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Sale, error)

	// CountByTenant conta as vendas de um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)

	// UpdateStatus atualiza o status de uma venda
	UpdateStatus(ctx context.Context, id string, status Status) error
}
