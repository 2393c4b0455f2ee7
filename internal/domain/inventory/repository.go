package inventory

import (
	"context"
)

// Repository define a interface para operações de repositório de estoque
type Repository interface {
	// Create cria um registro de estoque
	Create(ctx context.Context, i *Inventory) error

	// FindByProductAndBranch busca o estoque de um produto em uma filial
	FindByProductAndBranch(ctx context.Context, productID, branchID string) (*Inventory, error)

	// FindByProductAndBranchForUpdate busca o estoque travando a linha
	// para atualização dentro da transação corrente
	FindByProductAndBranchForUpdate(ctx context.Context, productID, branchID string) (*Inventory, error)

	// ListByBranch lista o estoque de uma filial com paginação
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*Inventory, error)

	// CountByBranch conta os registros de estoque de uma filial
	CountByBranch(ctx context.Context, branchID string) (int, error)

	// AdjustQuantity aplica um delta à quantidade em estoque. A quantidade
	// resultante nunca fica negativa
	AdjustQuantity(ctx context.Context, id string, delta int) error

	// Update atualiza os dados de um registro de estoque
	Update(ctx context.Context, i *Inventory) error
}

// MovementRepository define a interface para o razão de movimentações
type MovementRepository interface {
	// Create registra uma movimentação. Movimentações nunca são alteradas
	// ou removidas
	Create(ctx context.Context, m *StockMovement) error

	// FindByReference lista as movimentações originadas por uma entidade
	FindByReference(ctx context.Context, referenceID string) ([]*StockMovement, error)

	// ListByProduct lista as movimentações de um produto em uma filial
	ListByProduct(ctx context.Context, productID, branchID string, limit, offset int) ([]*StockMovement, error)
}
