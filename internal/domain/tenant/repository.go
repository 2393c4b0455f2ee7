package tenant

import (
	"context"
)

// Repository define a interface para operações de repositório de tenants
type Repository interface {
	// Create cria um novo tenant
	Create(ctx context.Context, t *Tenant) error

	// FindByID busca um tenant pelo ID
	FindByID(ctx context.Context, id string) (*Tenant, error)

	// FindByDocument busca um tenant pelo documento
	FindByDocument(ctx context.Context, document string) (*Tenant, error)

	// List lista tenants com paginação
	List(ctx context.Context, limit, offset int) ([]*Tenant, error)

	// Update atualiza os dados de um tenant existente
	Update(ctx context.Context, t *Tenant) error

	// Delete remove um tenant
	Delete(ctx context.Context, id string) error

	// UpdateStatus atualiza o status de um tenant
	UpdateStatus(ctx context.Context, id string, status Status) error

	// Count conta quantos tenants existem
	Count(ctx context.Context) (int, error)

	// FindByNameLike busca tenants pelo nome
	FindByNameLike(ctx context.Context, name string, limit, offset int) ([]*Tenant, error)

	// Exists verifica se um tenant existe
	Exists(ctx context.Context, id string) (bool, error)

	// ExistsByDocument verifica se um tenant existe pelo documento
	ExistsByDocument(ctx context.Context, document string) (bool, error)
}
