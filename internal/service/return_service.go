package service

import (
	"context"
	"errors"

	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/customer"
	"github.com/hugohenrick/pdv-varejo/internal/domain/inventory"
	"github.com/hugohenrick/pdv-varejo/internal/domain/productreturn"
	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
)

// ReturnService implementa o fluxo de devoluções: criação validada contra a
// venda original, máquina de estados, reposição de estoque e abatimento do
// saldo devedor do cliente. Cada operação roda em uma única transação
type ReturnService struct {
	returns   productreturn.Repository
	sales     sale.Repository
	inventory inventory.Repository
	movements inventory.MovementRepository
	customers customer.Repository
	tx        database.TxManager
	taxRate   float64
	logger    logger.Logger
}

// NewReturnService cria uma nova instância de ReturnService
func NewReturnService(
	returns productreturn.Repository,
	sales sale.Repository,
	inv inventory.Repository,
	movements inventory.MovementRepository,
	customers customer.Repository,
	tx database.TxManager,
	taxRate float64,
	logger logger.Logger,
) *ReturnService {
	return &ReturnService{
		returns:   returns,
		sales:     sales,
		inventory: inv,
		movements: movements,
		customers: customers,
		tx:        tx,
		taxRate:   taxRate,
		logger:    logger,
	}
}

// ReturnItemInput descreve um item na requisição de devolução
type ReturnItemInput struct {
	SaleItemID string
	Quantity   int
	Condition  string
	Restock    *bool // nulo assume reposição
}

// CreateReturnInput agrupa os dados de criação de uma devolução
type CreateReturnInput struct {
	TenantID     string
	BranchID     string
	SaleID       string
	UserID       string
	RefundType   productreturn.RefundType
	RestockItems bool
	Notes        string
	Items        []ReturnItemInput
}

// CreateReturn valida os itens contra a venda original e cria a devolução.
// A quantidade devolvida de cada item considera devoluções anteriores não
// canceladas. A reposição de estoque acontece aqui, uma única vez
func (s *ReturnService) CreateReturn(ctx context.Context, input CreateReturnInput) (*productreturn.ProductReturn, error) {
	if len(input.Items) == 0 {
		return nil, productreturn.ErrNoItems
	}

	var created *productreturn.ProductReturn

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// A venda é travada para serializar devoluções concorrentes
		sl, err := s.sales.FindByIDForUpdate(ctx, input.SaleID)
		if err != nil {
			return err
		}

		branchID := input.BranchID
		if branchID == "" {
			branchID = sl.BranchID
		}

		pr, err := productreturn.NewProductReturn(
			input.TenantID, branchID, sl.ID, sl.CustomerID, input.UserID,
			input.RefundType, input.RestockItems)
		if err != nil {
			return err
		}
		pr.Notes = input.Notes

		for _, item := range input.Items {
			si := sl.FindItem(item.SaleItemID)
			if si == nil {
				return sale.ErrItemNotFound
			}

			returned, err := s.returns.SumReturnedQuantity(ctx, si.ID, "")
			if err != nil {
				return err
			}

			if item.Quantity <= 0 {
				return productreturn.ErrInvalidQty
			}
			if item.Quantity > si.Quantity-returned {
				return productreturn.ErrQtyExceedsSold
			}

			restock := true
			if item.Restock != nil {
				restock = *item.Restock
			}

			if err := pr.AddItem(si.ID, si.ProductID, si.ProductName,
				item.Quantity, si.UnitPrice, item.Condition, restock); err != nil {
				return err
			}
		}

		pr.ApplyTax(s.taxRate)

		if err := s.returns.Create(ctx, pr); err != nil {
			return err
		}

		for _, item := range pr.Items {
			if !pr.ShouldRestock(item) {
				continue
			}
			if err := s.restockItem(ctx, pr, item); err != nil {
				return err
			}
		}

		created = pr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("devolução criada", "return_id", created.ID,
		"number", created.Number, "sale_id", created.SaleID,
		"refund_amount", created.RefundAmount)
	return created, nil
}

// GetReturn busca uma devolução pelo ID
func (s *ReturnService) GetReturn(ctx context.Context, id string) (*productreturn.ProductReturn, error) {
	return s.returns.FindByID(ctx, id)
}

// ListReturns lista as devoluções de um tenant com filtros e paginação
func (s *ReturnService) ListReturns(ctx context.Context, tenantID string, filter productreturn.ListFilter, limit, offset int) ([]*productreturn.ProductReturn, int, error) {
	returns, err := s.returns.List(ctx, tenantID, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.returns.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return returns, total, nil
}

// UpdateReturnInput agrupa os campos mutáveis de uma devolução
type UpdateReturnInput struct {
	ReturnID   string
	UserID     string
	Status     *productreturn.Status
	RefundType *productreturn.RefundType
	Notes      *string
}

// UpdateReturn aplica alterações e transições de status. Aprovar e concluir
// registram os responsáveis; cancelar reverte a reposição de estoque; o
// abatimento do saldo devedor acontece exatamente uma vez, na conclusão
func (s *ReturnService) UpdateReturn(ctx context.Context, input UpdateReturnInput) (*productreturn.ProductReturn, error) {
	var result *productreturn.ProductReturn

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		pr, err := s.returns.FindByID(ctx, input.ReturnID)
		if err != nil {
			return err
		}

		if input.RefundType != nil && *input.RefundType != pr.RefundType {
			if !pr.IsPending() {
				return productreturn.ErrNotPending
			}
			if !productreturn.ValidRefundType(*input.RefundType) {
				return productreturn.ErrInvalidRefund
			}
			pr.RefundType = *input.RefundType
		}

		if input.Notes != nil {
			pr.Notes = *input.Notes
		}

		if input.Status != nil && *input.Status != pr.Status {
			switch *input.Status {
			case productreturn.StatusApproved:
				if err := pr.Approve(input.UserID); err != nil {
					return err
				}
			case productreturn.StatusCompleted:
				if err := pr.Complete(input.UserID); err != nil {
					return err
				}
				if err := s.applyBalanceAdjustment(ctx, pr); err != nil {
					return err
				}
			case productreturn.StatusCancelled:
				if err := pr.Cancel(); err != nil {
					return err
				}
				if err := s.reverseRestock(ctx, pr, input.UserID); err != nil {
					return err
				}
			default:
				return productreturn.ErrInvalidStatus
			}
		}

		if err := s.returns.Update(ctx, pr); err != nil {
			return err
		}

		result = pr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("devolução atualizada", "return_id", result.ID, "status", result.Status)
	return result, nil
}

// DeleteReturn remove uma devolução pendente, revertendo a reposição de
// estoque que ela aplicou
func (s *ReturnService) DeleteReturn(ctx context.Context, id, userID string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		pr, err := s.returns.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if !pr.IsPending() {
			return productreturn.ErrNotPending
		}

		if err := s.reverseRestock(ctx, pr, userID); err != nil {
			return err
		}

		return s.returns.Delete(ctx, pr.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("devolução removida", "return_id", id)
	return nil
}

// ReturnsReport agrega os totais de devoluções de um período
type ReturnsReport struct {
	ByStatus     []*productreturn.StatusTotal     `json:"by_status"`
	ByRefundType []*productreturn.RefundTypeTotal `json:"by_refund_type"`
	TopProducts  []*productreturn.ProductTotal    `json:"top_products"`
}

// Reports monta o relatório agregado de devoluções para o período do filtro
func (s *ReturnService) Reports(ctx context.Context, tenantID string, filter productreturn.ListFilter, topLimit int) (*ReturnsReport, error) {
	if topLimit <= 0 {
		topLimit = 10
	}

	byStatus, err := s.returns.TotalsByStatus(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	byRefund, err := s.returns.TotalsByRefundType(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.returns.TopReturnedProducts(ctx, tenantID, filter, topLimit)
	if err != nil {
		return nil, err
	}

	return &ReturnsReport{
		ByStatus:     byStatus,
		ByRefundType: byRefund,
		TopProducts:  topProducts,
	}, nil
}

// restockItem devolve a quantidade do item ao estoque da filial e registra a
// movimentação. Produtos sem registro de estoque ganham um, partindo de zero
func (s *ReturnService) restockItem(ctx context.Context, pr *productreturn.ProductReturn, item *productreturn.ReturnItem) error {
	inv, err := s.inventory.FindByProductAndBranchForUpdate(ctx, item.ProductID, pr.BranchID)
	if err != nil {
		if !errors.Is(err, repository.ErrInventoryNotFound) {
			return err
		}
		inv, err = inventory.NewInventory(pr.TenantID, pr.BranchID,
			item.ProductID, item.ProductName, 0, 0, 0, 0, 0)
		if err != nil {
			return err
		}
		if err := s.inventory.Create(ctx, inv); err != nil {
			return err
		}
	}

	if err := s.inventory.AdjustQuantity(ctx, inv.ID, item.Quantity); err != nil {
		return err
	}

	m, err := inventory.NewStockMovement(pr.TenantID, pr.BranchID,
		item.ProductID, inventory.MovementIn, item.Quantity,
		inventory.ReasonReturn, pr.ID, pr.UserID)
	if err != nil {
		return err
	}

	return s.movements.Create(ctx, m)
}

// reverseRestock desfaz as entradas de estoque aplicadas pela devolução,
// com piso em zero, registrando movimentações de estorno
func (s *ReturnService) reverseRestock(ctx context.Context, pr *productreturn.ProductReturn, userID string) error {
	movements, err := s.movements.FindByReference(ctx, pr.ID)
	if err != nil {
		return err
	}

	for _, m := range movements {
		if m.Type != inventory.MovementIn || m.Reason != inventory.ReasonReturn {
			continue
		}

		inv, err := s.inventory.FindByProductAndBranchForUpdate(ctx, m.ProductID, m.BranchID)
		if err != nil {
			if errors.Is(err, repository.ErrInventoryNotFound) {
				continue
			}
			return err
		}

		if err := s.inventory.AdjustQuantity(ctx, inv.ID, -m.Quantity); err != nil {
			return err
		}

		reversal, err := inventory.NewStockMovement(pr.TenantID, m.BranchID,
			m.ProductID, inventory.MovementOut, m.Quantity,
			inventory.ReasonReversal, pr.ID, userID)
		if err != nil {
			return err
		}
		if err := s.movements.Create(ctx, reversal); err != nil {
			return err
		}
	}

	return nil
}

// applyBalanceAdjustment abate o valor do reembolso do saldo devedor do
// cliente quando o reembolso é do tipo adjustment. Chamado somente na
// transição para completed, portanto aplicado exatamente uma vez
func (s *ReturnService) applyBalanceAdjustment(ctx context.Context, pr *productreturn.ProductReturn) error {
	if pr.RefundType != productreturn.RefundTypeAdjustment || pr.CustomerID == "" {
		return nil
	}

	// A linha do cliente é travada antes do ajuste
	if _, err := s.customers.FindByIDForUpdate(ctx, pr.CustomerID); err != nil {
		return err
	}

	return s.customers.AdjustDueBalance(ctx, pr.CustomerID, -pr.RefundAmount)
}

