package service

import (
	"context"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/worker"
)

// Dispatcher enqueues best-effort jobs once an operation has committed.
// *worker.Dispatcher is the production implementation over Redis lists.
type Dispatcher interface {
	EnqueueStockAlert(ctx context.Context, job worker.StockAlertJob) error
	EnqueueLoyalty(ctx context.Context, job worker.LoyaltyJob) error
}
