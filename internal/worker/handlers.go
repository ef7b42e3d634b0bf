package worker

import (
	"context"
	"encoding/json"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificationOutbox is the Redis list out-of-scope delivery surfaces
// (email, Telegram) consume from.
const NotificationOutbox = "notifications:outbox"

// outbox is the slice of the Redis API the alert worker pushes through.
// *redis.Client satisfies it.
type outbox interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// StockAlertWorker forwards stock alerts to the notification outbox.
type StockAlertWorker struct {
	out outbox
}

func NewStockAlertWorker(out outbox) *StockAlertWorker {
	return &StockAlertWorker{out: out}
}

func (w *StockAlertWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var job StockAlertJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return err
	}

	log.Info().
		Str("tenant_id", job.TenantID).
		Str("product", job.Product).
		Str("status", job.Status).
		Int("quantity", job.Quantity).
		Msg("stock alert")

	return w.out.LPush(ctx, NotificationOutbox, []byte(payload)).Err()
}

// LoyaltyWorker applies customer loyalty counters. One point per 100 units
// of currency spent. The counters are best-effort, not a ledger — a retried
// job may double-count.
type LoyaltyWorker struct {
	customers repository.CustomerRepository
}

func NewLoyaltyWorker(customers repository.CustomerRepository) *LoyaltyWorker {
	return &LoyaltyWorker{customers: customers}
}

func (w *LoyaltyWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var job LoyaltyJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return err
	}

	tenantID, err := uuid.Parse(job.TenantID)
	if err != nil {
		return err
	}
	customerID, err := uuid.Parse(job.CustomerID)
	if err != nil {
		return err
	}

	points := int(job.Amount.IntPart() / 100)
	return w.customers.AddLoyalty(ctx, tenantID, customerID, points, job.Amount)
}
