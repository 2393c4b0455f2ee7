package productreturn

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReturn(t *testing.T) *ProductReturn {
	t.Helper()
	pr, err := NewProductReturn("t1", "b1", "sale-1", "cust-1", "user-1", RefundTypeRefund, true)
	require.NoError(t, err)
	return pr
}

func TestNewProductReturnValidation(t *testing.T) {
	_, err := NewProductReturn("t1", "b1", "", "cust-1", "user-1", RefundTypeRefund, true)
	assert.ErrorIs(t, err, ErrEmptySaleID)

	_, err = NewProductReturn("t1", "b1", "sale-1", "cust-1", "", RefundTypeRefund, true)
	assert.ErrorIs(t, err, ErrEmptyUserID)

	_, err = NewProductReturn("t1", "b1", "sale-1", "cust-1", "user-1", RefundType("cheque"), true)
	assert.ErrorIs(t, err, ErrInvalidRefund)
}

func TestGenerateNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^RET-\d+-\d{3}$`)
	for i := 0; i < 10; i++ {
		assert.Regexp(t, pattern, GenerateNumber())
	}
}

func TestAddItemAccumulatesTotals(t *testing.T) {
	pr := newTestReturn(t)

	require.NoError(t, pr.AddItem("si-1", "p1", "Arroz 5kg", 2, 10, "bom", true))
	require.NoError(t, pr.AddItem("si-2", "p2", "Feijão 1kg", 3, 8, "avariado", false))

	require.Len(t, pr.Items, 2)
	assert.Equal(t, 20.0, pr.Items[0].Subtotal)
	assert.Equal(t, 24.0, pr.Items[1].Subtotal)
	assert.Equal(t, 44.0, pr.TotalAmount)
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	pr := newTestReturn(t)

	assert.ErrorIs(t, pr.AddItem("si-1", "p1", "Arroz 5kg", 0, 10, "", true), ErrInvalidQty)
	assert.ErrorIs(t, pr.AddItem("si-1", "p1", "Arroz 5kg", -1, 10, "", true), ErrInvalidQty)
	assert.Empty(t, pr.Items)
}

func TestApplyTax(t *testing.T) {
	pr := newTestReturn(t)
	require.NoError(t, pr.AddItem("si-1", "p1", "Arroz 5kg", 5, 10, "", true))

	pr.ApplyTax(0.10)

	assert.Equal(t, 50.0, pr.TotalAmount)
	assert.Equal(t, 5.0, pr.TaxAmount)
	assert.Equal(t, 55.0, pr.RefundAmount)
}

func TestStateMachineTransitions(t *testing.T) {
	pr := newTestReturn(t)
	require.True(t, pr.IsPending())

	// pending não conclui direto
	assert.ErrorIs(t, pr.Complete("user-2"), ErrInvalidTransition)

	require.NoError(t, pr.Approve("user-2"))
	assert.Equal(t, StatusApproved, pr.Status)
	assert.Equal(t, "user-2", pr.ApprovedBy)
	require.NotNil(t, pr.ApprovedAt)

	// approved não cancela nem reaprova
	assert.ErrorIs(t, pr.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, pr.Approve("user-3"), ErrInvalidTransition)

	require.NoError(t, pr.Complete("user-3"))
	assert.Equal(t, StatusCompleted, pr.Status)
	assert.Equal(t, "user-3", pr.ProcessedBy)
	require.NotNil(t, pr.ProcessedAt)

	// completed é terminal
	assert.ErrorIs(t, pr.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, pr.Approve("user-4"), ErrInvalidTransition)
}

func TestCancelFromPending(t *testing.T) {
	pr := newTestReturn(t)

	require.NoError(t, pr.Cancel())
	assert.Equal(t, StatusCancelled, pr.Status)

	// cancelled é terminal
	assert.ErrorIs(t, pr.Approve("user-2"), ErrInvalidTransition)
	assert.ErrorIs(t, pr.Complete("user-2"), ErrInvalidTransition)
}

func TestShouldRestock(t *testing.T) {
	pr := newTestReturn(t)
	require.NoError(t, pr.AddItem("si-1", "p1", "Arroz 5kg", 1, 10, "", true))
	require.NoError(t, pr.AddItem("si-2", "p2", "Feijão 1kg", 1, 8, "avariado", false))

	assert.True(t, pr.ShouldRestock(pr.Items[0]))
	assert.False(t, pr.ShouldRestock(pr.Items[1]))

	// Política global desligada vence a marcação do item
	pr.RestockItems = false
	assert.False(t, pr.ShouldRestock(pr.Items[0]))
}

func TestValidRefundType(t *testing.T) {
	assert.True(t, ValidRefundType(RefundTypeRefund))
	assert.True(t, ValidRefundType(RefundTypeStoreCredit))
	assert.True(t, ValidRefundType(RefundTypeAdjustment))
	assert.False(t, ValidRefundType(RefundType("pix")))
	assert.False(t, ValidRefundType(RefundType("")))
}
