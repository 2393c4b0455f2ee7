package service

import (
	"context"
	"errors"

	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/inventory"
	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
)

// SaleService implementa o registro de vendas do PDV, com baixa de estoque
// na mesma transação
type SaleService struct {
	sales     sale.Repository
	inventory inventory.Repository
	movements inventory.MovementRepository
	tx        database.TxManager
	taxRate   float64
	logger    logger.Logger
}

// NewSaleService cria uma nova instância de SaleService
func NewSaleService(
	sales sale.Repository,
	inv inventory.Repository,
	movements inventory.MovementRepository,
	tx database.TxManager,
	taxRate float64,
	logger logger.Logger,
) *SaleService {
	return &SaleService{
		sales:     sales,
		inventory: inv,
		movements: movements,
		tx:        tx,
		taxRate:   taxRate,
		logger:    logger,
	}
}

// SaleItemInput descreve um item na requisição de venda
type SaleItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// CreateSaleInput agrupa os dados de criação de uma venda
type CreateSaleInput struct {
	TenantID   string
	BranchID   string
	CustomerID string
	UserID     string
	Items      []SaleItemInput
}

// CreateSale registra uma venda e dá baixa no estoque de cada item,
// registrando as movimentações de saída
func (s *SaleService) CreateSale(ctx context.Context, input CreateSaleInput) (*sale.Sale, error) {
	if len(input.Items) == 0 {
		return nil, sale.ErrNoItems
	}

	var created *sale.Sale

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sl, err := sale.NewSale(input.TenantID, input.BranchID, input.CustomerID, input.UserID)
		if err != nil {
			return err
		}

		for _, item := range input.Items {
			if err := sl.AddItem(item.ProductID, item.ProductName, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}

		sl.ApplyTax(s.taxRate)

		if err := s.sales.Create(ctx, sl); err != nil {
			return err
		}

		for _, item := range sl.Items {
			if err := s.consumeStock(ctx, sl, item); err != nil {
				return err
			}
		}

		created = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("venda registrada", "sale_id", created.ID,
		"number", created.Number, "total", created.TotalAmount)
	return created, nil
}

// GetSale busca uma venda pelo ID
func (s *SaleService) GetSale(ctx context.Context, id string) (*sale.Sale, error) {
	return s.sales.FindByID(ctx, id)
}

// ListSales lista as vendas de um tenant com paginação
func (s *SaleService) ListSales(ctx context.Context, tenantID string, limit, offset int) ([]*sale.Sale, int, error) {
	sales, err := s.sales.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.sales.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// consumeStock dá baixa no estoque do item vendido e registra a movimentação
// de saída. Vendas de produtos sem registro de estoque não são bloqueadas
func (s *SaleService) consumeStock(ctx context.Context, sl *sale.Sale, item *sale.SaleItem) error {
	inv, err := s.inventory.FindByProductAndBranchForUpdate(ctx, item.ProductID, sl.BranchID)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			return nil
		}
		return err
	}

	if err := s.inventory.AdjustQuantity(ctx, inv.ID, -item.Quantity); err != nil {
		return err
	}

	m, err := inventory.NewStockMovement(sl.TenantID, sl.BranchID,
		item.ProductID, inventory.MovementOut, item.Quantity,
		inventory.ReasonSale, sl.ID, sl.UserID)
	if err != nil {
		return err
	}

	return s.movements.Create(ctx, m)
}
