package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutbox struct {
	keys   []string
	values [][]byte
}

func (f *fakeOutbox) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.keys = append(f.keys, key)
	for _, v := range values {
		f.values = append(f.values, v.([]byte))
	}
	return redis.NewIntCmd(ctx)
}

func TestStockAlertWorkerForwardsToOutbox(t *testing.T) {
	out := &fakeOutbox{}
	w := NewStockAlertWorker(out)

	payload, err := json.Marshal(StockAlertJob{
		TenantID:  uuid.NewString(),
		ProductID: uuid.NewString(),
		Product:   "widget",
		Status:    model.StockStatusLowStock,
		Quantity:  3,
	})
	require.NoError(t, err)

	require.NoError(t, w.Process(context.Background(), payload))
	require.Len(t, out.keys, 1)
	assert.Equal(t, NotificationOutbox, out.keys[0])
	require.Len(t, out.values, 1)
	assert.JSONEq(t, string(payload), string(out.values[0]))
}

func TestStockAlertWorkerRejectsBadPayload(t *testing.T) {
	out := &fakeOutbox{}
	w := NewStockAlertWorker(out)

	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{broken`)))
	assert.Empty(t, out.keys)
}

type loyaltyCall struct {
	tenantID   uuid.UUID
	customerID uuid.UUID
	points     int
	amount     decimal.Decimal
}

type fakeCustomers struct {
	calls []loyaltyCall
}

func (f *fakeCustomers) Create(_ context.Context, _ *model.Customer) error { return nil }
func (f *fakeCustomers) FindByID(_ context.Context, _, _ uuid.UUID) (*model.Customer, error) {
	return nil, nil
}
func (f *fakeCustomers) AddLoyalty(_ context.Context, tenantID, id uuid.UUID, points int, amount decimal.Decimal) error {
	f.calls = append(f.calls, loyaltyCall{tenantID: tenantID, customerID: id, points: points, amount: amount})
	return nil
}

func TestLoyaltyWorkerAwardsPointPerHundred(t *testing.T) {
	customers := &fakeCustomers{}
	w := NewLoyaltyWorker(customers)

	tenant := uuid.New()
	customer := uuid.New()
	payload, err := json.Marshal(LoyaltyJob{
		TenantID:   tenant.String(),
		CustomerID: customer.String(),
		SaleID:     uuid.NewString(),
		Amount:     decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	require.NoError(t, w.Process(context.Background(), payload))
	require.Len(t, customers.calls, 1)
	call := customers.calls[0]
	assert.Equal(t, tenant, call.tenantID)
	assert.Equal(t, customer, call.customerID)
	assert.Equal(t, 2, call.points)
	assert.True(t, call.amount.Equal(decimal.NewFromInt(250)))
}

func TestLoyaltyWorkerRejectsBadPayload(t *testing.T) {
	w := NewLoyaltyWorker(&fakeCustomers{})

	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{broken`)))

	payload, _ := json.Marshal(LoyaltyJob{TenantID: "not-a-uuid", CustomerID: uuid.NewString()})
	assert.Error(t, w.Process(context.Background(), payload))
}
