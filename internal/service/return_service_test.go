package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/hugohenrick/pdv-varejo/internal/domain/customer"
	"github.com/hugohenrick/pdv-varejo/internal/domain/inventory"
	"github.com/hugohenrick/pdv-varejo/internal/domain/productreturn"
	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type returnFixture struct {
	svc       *ReturnService
	returns   *fakeReturnRepo
	sales     *fakeSaleRepo
	inventory *fakeInventoryRepo
	movements *fakeMovementRepo
	customers *fakeCustomerRepo
	sale      *sale.Sale
	customer  *customer.Customer
}

// newReturnFixture monta o serviço com uma venda de um item
// (quantidade 5, preço unitário 10) e um cliente com saldo devedor
func newReturnFixture(t *testing.T) *returnFixture {
	t.Helper()

	f := &returnFixture{
		returns:   newFakeReturnRepo(),
		sales:     newFakeSaleRepo(),
		inventory: newFakeInventoryRepo(),
		movements: &fakeMovementRepo{},
		customers: newFakeCustomerRepo(),
	}

	c, err := customer.NewCustomer("t1", "b1", customer.PersonTypePF, "João Silva", "12345678900")
	require.NoError(t, err)
	c.DueBalance = 100
	require.NoError(t, f.customers.Create(context.Background(), c))
	f.customer = c

	sl, err := sale.NewSale("t1", "b1", c.ID, "u1")
	require.NoError(t, err)
	require.NoError(t, sl.AddItem("p1", "Arroz 5kg", 5, 10))
	require.NoError(t, f.sales.Create(context.Background(), sl))
	f.sale = sl

	inv, err := inventory.NewInventory("t1", "b1", "p1", "Arroz 5kg", 20, 5, 100, 10, 7.5)
	require.NoError(t, err)
	require.NoError(t, f.inventory.Create(context.Background(), inv))

	f.svc = NewReturnService(f.returns, f.sales, f.inventory, f.movements,
		f.customers, passTxManager{}, 0.10, nopLogger{})
	return f
}

func (f *returnFixture) createInput(qty int, refundType productreturn.RefundType, restock bool) CreateReturnInput {
	return CreateReturnInput{
		TenantID:     "t1",
		BranchID:     "b1",
		SaleID:       f.sale.ID,
		UserID:       "u1",
		RefundType:   refundType,
		RestockItems: restock,
		Items: []ReturnItemInput{
			{SaleItemID: f.sale.Items[0].ID, Quantity: qty, Condition: "bom"},
		},
	}
}

func TestCreateReturnComputesRefund(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(5, productreturn.RefundTypeRefund, false))
	require.NoError(t, err)

	assert.Equal(t, 50.0, pr.TotalAmount)
	assert.Equal(t, 5.0, pr.TaxAmount)
	assert.Equal(t, 55.0, pr.RefundAmount)
	assert.Equal(t, productreturn.StatusPending, pr.Status)
	assert.Regexp(t, regexp.MustCompile(`^RET-\d+-\d{3}$`), pr.Number)
}

func TestCreateReturnRejectsExcessQuantity(t *testing.T) {
	f := newReturnFixture(t)

	_, err := f.svc.CreateReturn(context.Background(), f.createInput(6, productreturn.RefundTypeRefund, false))
	assert.ErrorIs(t, err, productreturn.ErrQtyExceedsSold)
}

func TestCreateReturnEnforcesCumulativeQuantity(t *testing.T) {
	f := newReturnFixture(t)

	_, err := f.svc.CreateReturn(context.Background(), f.createInput(3, productreturn.RefundTypeRefund, false))
	require.NoError(t, err)

	// 3 já devolvidos: só restam 2
	_, err = f.svc.CreateReturn(context.Background(), f.createInput(3, productreturn.RefundTypeRefund, false))
	assert.ErrorIs(t, err, productreturn.ErrQtyExceedsSold)

	_, err = f.svc.CreateReturn(context.Background(), f.createInput(2, productreturn.RefundTypeRefund, false))
	assert.NoError(t, err)
}

func TestCreateReturnCancelledReturnsDoNotCount(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(5, productreturn.RefundTypeRefund, false))
	require.NoError(t, err)

	cancelled := productreturn.StatusCancelled
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u1", Status: &cancelled,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateReturn(context.Background(), f.createInput(5, productreturn.RefundTypeRefund, false))
	assert.NoError(t, err)
}

func TestCreateReturnUnknownSaleItem(t *testing.T) {
	f := newReturnFixture(t)

	input := f.createInput(1, productreturn.RefundTypeRefund, false)
	input.Items[0].SaleItemID = "inexistente"

	_, err := f.svc.CreateReturn(context.Background(), input)
	assert.ErrorIs(t, err, sale.ErrItemNotFound)
}

func TestCreateReturnRestocksOnce(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(2, productreturn.RefundTypeRefund, true))
	require.NoError(t, err)

	inv, err := f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 22, inv.Quantity)

	movements, err := f.movements.FindByReference(context.Background(), pr.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementIn, movements[0].Type)
	assert.Equal(t, inventory.ReasonReturn, movements[0].Reason)
	assert.Equal(t, 2, movements[0].Quantity)

	// Aprovação e conclusão não repetem a reposição
	approved := productreturn.StatusApproved
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &approved,
	})
	require.NoError(t, err)

	completed := productreturn.StatusCompleted
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &completed,
	})
	require.NoError(t, err)

	inv, err = f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 22, inv.Quantity)
}

func TestCreateReturnRespectsItemRestockFlag(t *testing.T) {
	f := newReturnFixture(t)

	noRestock := false
	input := f.createInput(2, productreturn.RefundTypeRefund, true)
	input.Items[0].Restock = &noRestock

	pr, err := f.svc.CreateReturn(context.Background(), input)
	require.NoError(t, err)

	inv, err := f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 20, inv.Quantity)

	movements, err := f.movements.FindByReference(context.Background(), pr.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestReturnStateMachine(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(1, productreturn.RefundTypeRefund, false))
	require.NoError(t, err)

	// pending não vai direto para completed
	completed := productreturn.StatusCompleted
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &completed,
	})
	assert.ErrorIs(t, err, productreturn.ErrInvalidTransition)

	approved := productreturn.StatusApproved
	updated, err := f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &approved,
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", updated.ApprovedBy)
	assert.NotNil(t, updated.ApprovedAt)

	// approved não cancela
	cancelled := productreturn.StatusCancelled
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &cancelled,
	})
	assert.ErrorIs(t, err, productreturn.ErrInvalidTransition)

	updated, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u3", Status: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, "u3", updated.ProcessedBy)
	assert.NotNil(t, updated.ProcessedAt)
}

func TestAdjustmentAppliedOnceAtCompletion(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(5, productreturn.RefundTypeAdjustment, false))
	require.NoError(t, err)

	// Criação e aprovação não mexem no saldo
	assert.Equal(t, 100.0, f.customer.DueBalance)

	approved := productreturn.StatusApproved
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &approved,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.customer.DueBalance)

	completed := productreturn.StatusCompleted
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, 45.0, f.customer.DueBalance)

	// Nova tentativa de conclusão falha e não reaplica o abatimento
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &completed,
	})
	require.NoError(t, err) // mesmo status: nenhuma transição
	assert.Equal(t, 45.0, f.customer.DueBalance)
}

func TestAdjustmentBeyondBalanceLeavesCredit(t *testing.T) {
	f := newReturnFixture(t)
	f.customer.DueBalance = 30

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(5, productreturn.RefundTypeAdjustment, false))
	require.NoError(t, err)

	approved := productreturn.StatusApproved
	completed := productreturn.StatusCompleted
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{ReturnID: pr.ID, UserID: "u2", Status: &approved})
	require.NoError(t, err)
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{ReturnID: pr.ID, UserID: "u2", Status: &completed})
	require.NoError(t, err)

	// Reembolso de 55 sobre saldo de 30: o excedente vira crédito do cliente
	assert.Equal(t, -25.0, f.customer.DueBalance)
}

func TestDeleteReturnReversesRestock(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(3, productreturn.RefundTypeRefund, true))
	require.NoError(t, err)

	inv, err := f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	require.Equal(t, 23, inv.Quantity)

	err = f.svc.DeleteReturn(context.Background(), pr.ID, "u1")
	require.NoError(t, err)

	inv, err = f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 20, inv.Quantity)

	_, err = f.returns.FindByID(context.Background(), pr.ID)
	assert.Error(t, err)
}

func TestDeleteReturnReversalFlooredAtZero(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(3, productreturn.RefundTypeRefund, true))
	require.NoError(t, err)

	// Estoque consumido por vendas entre a devolução e a exclusão
	inv, err := f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	require.NoError(t, f.inventory.AdjustQuantity(context.Background(), inv.ID, -22))

	err = f.svc.DeleteReturn(context.Background(), pr.ID, "u1")
	require.NoError(t, err)

	inv, err = f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Quantity)
}

func TestDeleteReturnOnlyPending(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(1, productreturn.RefundTypeRefund, false))
	require.NoError(t, err)

	approved := productreturn.StatusApproved
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &approved,
	})
	require.NoError(t, err)

	err = f.svc.DeleteReturn(context.Background(), pr.ID, "u1")
	assert.ErrorIs(t, err, productreturn.ErrNotPending)
}

func TestCancelReturnReversesRestock(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(4, productreturn.RefundTypeRefund, true))
	require.NoError(t, err)

	cancelled := productreturn.StatusCancelled
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u1", Status: &cancelled,
	})
	require.NoError(t, err)

	inv, err := f.inventory.FindByProductAndBranch(context.Background(), "p1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 20, inv.Quantity)

	// O estorno fica registrado no razão
	movements, err := f.movements.FindByReference(context.Background(), pr.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, inventory.ReasonReversal, movements[1].Reason)
	assert.Equal(t, inventory.MovementOut, movements[1].Type)
}

func TestCreateReturnCreatesMissingInventory(t *testing.T) {
	f := newReturnFixture(t)

	// Venda de produto sem registro de estoque na filial
	require.NoError(t, f.sale.AddItem("p2", "Feijão 1kg", 2, 8))
	input := CreateReturnInput{
		TenantID:     "t1",
		BranchID:     "b1",
		SaleID:       f.sale.ID,
		UserID:       "u1",
		RefundType:   productreturn.RefundTypeRefund,
		RestockItems: true,
		Items: []ReturnItemInput{
			{SaleItemID: f.sale.Items[1].ID, Quantity: 2},
		},
	}

	_, err := f.svc.CreateReturn(context.Background(), input)
	require.NoError(t, err)

	inv, err := f.inventory.FindByProductAndBranch(context.Background(), "p2", "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Quantity)
}

func TestReturnReports(t *testing.T) {
	f := newReturnFixture(t)

	pr, err := f.svc.CreateReturn(context.Background(), f.createInput(2, productreturn.RefundTypeRefund, false))
	require.NoError(t, err)

	_, err = f.svc.CreateReturn(context.Background(), f.createInput(1, productreturn.RefundTypeStoreCredit, false))
	require.NoError(t, err)

	approved := productreturn.StatusApproved
	_, err = f.svc.UpdateReturn(context.Background(), UpdateReturnInput{
		ReturnID: pr.ID, UserID: "u2", Status: &approved,
	})
	require.NoError(t, err)

	report, err := f.svc.Reports(context.Background(), "t1", productreturn.ListFilter{}, 10)
	require.NoError(t, err)

	assert.Len(t, report.ByStatus, 2)
	assert.Len(t, report.ByRefundType, 2)
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "p1", report.TopProducts[0].ProductID)
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
	assert.Equal(t, 2, report.TopProducts[0].Returns)
}
