package repositories

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// WorkerReader defines read operations for worker data
type WorkerReader interface {
	FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error)

	// FindWorkerByIDForUpdate locks the worker row for the rest of the transaction.
	FindWorkerByIDForUpdate(ctx context.Context, workerID string) (*domain.Worker, error)

	// FindWorkerByUsername retrieves a worker by login name for worker authentication.
	FindWorkerByUsername(ctx context.Context, username string) (*domain.Worker, error)

	ListWorkers(ctx context.Context, includeInactive bool) ([]domain.Worker, error)

	// ListIdleWorkers retrieves active salaried workers without any active assignment.
	ListIdleWorkers(ctx context.Context) ([]domain.Worker, error)

	ListEvaluations(ctx context.Context, workerID string) ([]domain.WorkerEvaluation, error)
	// ListMonthlyRecords retrieves the pay period snapshots of a worker, newest first.
	ListMonthlyRecords(ctx context.Context, workerID string) ([]domain.WorkerMonthlyRecord, error)
}

// WorkerWriter defines write operations for worker data
type WorkerWriter interface {
	SaveWorker(ctx context.Context, worker domain.Worker) error

	// UpdateWorker updates a worker if its version still matches and bumps the version.
	UpdateWorker(ctx context.Context, worker *domain.Worker) error

	SaveEvaluation(ctx context.Context, evaluation domain.WorkerEvaluation) error
	// SaveMonthlyRecord stores the snapshot of a salary payment. A second payment
	// in the same month adds its amount to the existing record and keeps the
	// first snapshot. It returns the stored record.
	SaveMonthlyRecord(ctx context.Context, record domain.WorkerMonthlyRecord) (*domain.WorkerMonthlyRecord, error)
}

// WorkerRepositoryFacade combines all worker-related repository interfaces
type WorkerRepositoryFacade interface {
	WorkerReader
	WorkerWriter
}
