package service

import (
	"context"
	"testing"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/apperr"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestOpenSessionOnlyOnePerTenant(t *testing.T) {
	h := newHarness(t)

	first, err := h.sessSvc.Open(context.Background(), h.tenant, "ana", dto.OpenSessionRequest{
		OpeningBalance: dec(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, first.Status)
	assert.Equal(t, "ana", first.OpenedBy)

	_, err = h.sessSvc.Open(context.Background(), h.tenant, "ben", dto.OpenSessionRequest{
		OpeningBalance: dec(500),
	})
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	// Another tenant is unaffected.
	h2 := newHarness(t)
	_, err = h2.sessSvc.Open(context.Background(), h2.tenant, "carla", dto.OpenSessionRequest{
		OpeningBalance: dec(200),
	})
	assert.NoError(t, err)
}

// Opening 1000, cash sales of 200 and 300, a 100 withdrawal, counted 1400:
// expected 1400, difference zero.
func TestCloseReconcilesCashSalesAndWithdrawals(t *testing.T) {
	h := newHarness(t)
	p := h.addProduct(t, 100, 5, func(p *model.Product) { p.SellPrice = dec(100) })

	_, err := h.sessSvc.Open(context.Background(), h.tenant, "ana", dto.OpenSessionRequest{
		OpeningBalance: dec(1000),
	})
	require.NoError(t, err)

	for _, qty := range []int{2, 3} { // 200 and 300 at unit price 100
		_, err = h.saleSvc.CreateSale(context.Background(), h.tenant, "ana", dto.CreateSaleRequest{
			Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: qty}},
			PaymentMethod: model.PayCash,
		})
		require.NoError(t, err)
	}

	_, err = h.sessSvc.RegisterWithdrawal(context.Background(), h.tenant, dto.CashMovementRequest{
		Amount: dec(100), Reason: "change run",
	})
	require.NoError(t, err)

	resp, err := h.sessSvc.Close(context.Background(), h.tenant, "ana", dto.CloseSessionRequest{
		ActualBalance: dec(1400),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ExpectedBalance)
	assert.True(t, resp.ExpectedBalance.Equal(dec(1400)))
	require.NotNil(t, resp.Difference)
	assert.True(t, resp.Difference.IsZero())
	assert.Equal(t, model.SessionClosed, resp.Status)
	require.NotNil(t, resp.Totals)
	assert.True(t, resp.Totals.Cash.Equal(dec(500)))
}

// Deposits raise the expectation exactly like cash sales do.
func TestCloseIncludesDepositsInExpected(t *testing.T) {
	h := newHarness(t)

	_, err := h.sessSvc.Open(context.Background(), h.tenant, "ana", dto.OpenSessionRequest{
		OpeningBalance: dec(500),
	})
	require.NoError(t, err)

	_, err = h.sessSvc.RegisterDeposit(context.Background(), h.tenant, dto.CashMovementRequest{
		Amount: dec(250), Reason: "drawer top-up",
	})
	require.NoError(t, err)

	resp, err := h.sessSvc.Close(context.Background(), h.tenant, "ana", dto.CloseSessionRequest{
		ActualBalance: dec(700),
	})
	require.NoError(t, err)
	assert.True(t, resp.ExpectedBalance.Equal(dec(750)))
	assert.True(t, resp.Difference.Equal(dec(-50)))
}

// Card, transfer and credit sales never touch the drawer expectation but
// appear in their own buckets.
func TestCloseBucketsNonCashSalesSeparately(t *testing.T) {
	h := newHarness(t)
	p := h.addProduct(t, 100, 5)

	_, err := h.sessSvc.Open(context.Background(), h.tenant, "ana", dto.OpenSessionRequest{
		OpeningBalance: dec(100),
	})
	require.NoError(t, err)

	_, err = h.saleSvc.CreateSale(context.Background(), h.tenant, "ana", dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PayCard,
	})
	require.NoError(t, err)

	resp, err := h.sessSvc.Close(context.Background(), h.tenant, "ana", dto.CloseSessionRequest{
		ActualBalance: dec(100),
	})
	require.NoError(t, err)
	assert.True(t, resp.ExpectedBalance.Equal(dec(100)))
	assert.True(t, resp.Difference.IsZero())
	assert.True(t, resp.Totals.Card.Equal(dec(100)))
	assert.True(t, resp.Totals.Cash.IsZero())
}

func TestCashMovementsRequireOpenSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.sessSvc.RegisterWithdrawal(context.Background(), h.tenant, dto.CashMovementRequest{
		Amount: dec(50), Reason: "change",
	})
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = h.sessSvc.Close(context.Background(), h.tenant, "ana", dto.CloseSessionRequest{
		ActualBalance: dec(0),
	})
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestClosedSessionIsTerminal(t *testing.T) {
	h := newHarness(t)

	_, err := h.sessSvc.Open(context.Background(), h.tenant, "ana", dto.OpenSessionRequest{
		OpeningBalance: dec(100),
	})
	require.NoError(t, err)
	_, err = h.sessSvc.Close(context.Background(), h.tenant, "ana", dto.CloseSessionRequest{
		ActualBalance: dec(100),
	})
	require.NoError(t, err)

	// No open session anymore; a fresh one can open.
	_, err = h.sessSvc.Current(context.Background(), h.tenant)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	second, err := h.sessSvc.Open(context.Background(), h.tenant, "ana", dto.OpenSessionRequest{
		OpeningBalance: dec(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, second.Status)
}

func TestCurrentReturnsOpenSession(t *testing.T) {
	h := newHarness(t)

	opened, err := h.sessSvc.Open(context.Background(), h.tenant, "ana", dto.OpenSessionRequest{
		OpeningBalance: dec(300),
	})
	require.NoError(t, err)

	current, err := h.sessSvc.Current(context.Background(), h.tenant)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, current.ID)
	assert.True(t, current.OpeningBalance.Equal(dec(300)))
}
