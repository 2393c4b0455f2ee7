package license

import (
	"context"
)

// Repository define a interface para operações de repositório de licenças
type Repository interface {
	// Create cria uma nova licença
	Create(ctx context.Context, l *License) error

	// FindByID busca uma licença pelo ID
	FindByID(ctx context.Context, id string) (*License, error)

	// FindByKey busca uma licença pela chave
	FindByKey(ctx context.Context, key string) (*License, error)

	// FindByKeyForUpdate busca uma licença pela chave travando a linha
	// para atualização dentro da transação corrente
	FindByKeyForUpdate(ctx context.Context, key string) (*License, error)

	// List lista as licenças com paginação
	List(ctx context.Context, limit, offset int) ([]*License, error)

	// Count conta as licenças cadastradas
	Count(ctx context.Context) (int, error)

	// Update atualiza os dados de uma licença existente
	Update(ctx context.Context, l *License) error

	// UpdateStatus atualiza o status de uma licença
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ExistsByKey verifica se já existe licença com a chave informada
	ExistsByKey(ctx context.Context, key string) (bool, error)
}

// ActivationRepository define a interface para operações de repositório de
// ativações de licença
type ActivationRepository interface {
	// Create cria uma nova ativação
	Create(ctx context.Context, a *Activation) error

	// FindByKey busca uma ativação pela chave de ativação
	FindByKey(ctx context.Context, activationKey string) (*Activation, error)

	// FindByLicense lista as ativações de uma licença
	FindByLicense(ctx context.Context, licenseID string, limit, offset int) ([]*Activation, error)

	// CountActive conta as ativações ativas de uma licença
	CountActive(ctx context.Context, licenseID string) (int, error)

	// FindActive lista as ativações ativas de uma licença, da mais antiga
	// para a mais recente
	FindActive(ctx context.Context, licenseID string) ([]*Activation, error)

	// FindActiveByHardware busca ativações ativas da licença para o hardware informado
	FindActiveByHardware(ctx context.Context, licenseID, hardwareID string) ([]*Activation, error)

	// Update atualiza os dados de uma ativação existente
	Update(ctx context.Context, a *Activation) error
}
