package service

import (
	"errors"
	"fmt"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// statusFor derives the stock status from a balance and its min threshold.
// A zero/unset threshold falls back to the default.
func statusFor(balance, minThreshold int) string {
	if minThreshold <= 0 {
		minThreshold = model.DefaultMinThreshold
	}
	switch {
	case balance <= 0:
		return model.StockStatusOutOfStock
	case balance <= minThreshold:
		return model.StockStatusLowStock
	default:
		return model.StockStatusInStock
	}
}

// statusEvaluator recomputes a product's derived status and reconciles its
// alerts. It runs as the unconditional final step of every balance-mutating
// transaction — all paths funnel through here, never ad hoc checks at call
// sites.
type statusEvaluator struct {
	products repository.ProductRepository
	alerts   repository.AlertRepository
}

// evaluateTx updates the product status and creates/resolves alerts inside
// the caller's transaction. Returns the new status.
func (e *statusEvaluator) evaluateTx(tx *gorm.DB, tenantID uuid.UUID, p *model.Product, balance int) (string, error) {
	status := statusFor(balance, p.MinThreshold)
	if status != p.Status {
		if err := e.products.UpdateStatusTx(tx, tenantID, p.ID, status); err != nil {
			return "", err
		}
	}

	wanted := []struct {
		alertType string
		priority  string
		active    bool
		message   string
	}{
		{model.AlertOutOfStock, model.AlertPriorityCritical, status == model.StockStatusOutOfStock,
			fmt.Sprintf("%s is out of stock", p.Name)},
		{model.AlertLowStock, model.AlertPriorityHigh, status == model.StockStatusLowStock,
			fmt.Sprintf("%s is low on stock (%d left)", p.Name, balance)},
	}

	for _, w := range wanted {
		if w.active {
			if err := e.ensureAlertTx(tx, tenantID, p.ID, w.alertType, w.priority, w.message); err != nil {
				return "", err
			}
			continue
		}
		if err := e.alerts.ResolveTx(tx, tenantID, p.ID, w.alertType); err != nil {
			return "", err
		}
	}
	return status, nil
}

// ensureAlertTx creates an alert only when no unresolved one exists for the
// (product, type) pair.
func (e *statusEvaluator) ensureAlertTx(tx *gorm.DB, tenantID, productID uuid.UUID, alertType, priority, message string) error {
	_, err := e.alerts.FindUnresolvedTx(tx, tenantID, productID, alertType)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return e.alerts.CreateTx(tx, &model.StockAlert{
		TenantID:  tenantID,
		ProductID: productID,
		Type:      alertType,
		Priority:  priority,
		Message:   message,
	})
}
