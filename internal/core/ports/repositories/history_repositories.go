package repositories

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// HistoryRepositoryFacade appends and reads audit rows for orders and workers.
type HistoryRepositoryFacade interface {
	SaveOrderHistory(ctx context.Context, entry domain.OrderHistory) error
	ListOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error)
	SaveWorkerHistory(ctx context.Context, entry domain.WorkerHistory) error
	ListWorkerHistory(ctx context.Context, workerID string) ([]domain.WorkerHistory, error)
	// ListActivity merges order and worker history, newest first.
	ListActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error)
}
