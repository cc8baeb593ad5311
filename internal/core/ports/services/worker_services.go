package services

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/dto"
)

// WorkerReaderSvc defines read operations for workers
type WorkerReaderSvc interface {
	GetWorker(ctx context.Context, workerID string) (*domain.WorkerDetails, error)
	ListWorkers(ctx context.Context, includeInactive bool) ([]domain.Worker, error)
	ListWorkerHistory(ctx context.Context, workerID string) ([]domain.WorkerHistory, error)
	ListEvaluations(ctx context.Context, workerID string) ([]domain.WorkerEvaluation, error)
	ListMonthlyRecords(ctx context.Context, workerID string) ([]domain.WorkerMonthlyRecord, error)
}

// WorkerWriterSvc defines write operations for workers
type WorkerWriterSvc interface {
	CreateWorker(ctx context.Context, actor domain.Actor, req dto.CreateWorkerRequest) (*domain.Worker, error)
	UpdateWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.UpdateWorkerRequest) (*domain.Worker, error)
	// AdjustWorker changes one salary counter and writes a history row.
	AdjustWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.WorkerAdjustmentRequest) (*domain.Worker, error)
	// EvaluateWorker scores a worker and applies the resulting bonus or penalty.
	EvaluateWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.EvaluateWorkerRequest) (*domain.WorkerEvaluation, error)
	// PayWorkerSalary pays the worker, snapshots the period into a monthly
	// record and starts a new period.
	PayWorkerSalary(ctx context.Context, actor domain.Actor, workerID string, req dto.PaySalaryRequest) (*dto.SalaryPaymentResponse, error)
}

// WorkerAuthSvc authenticates workers using their own credentials.
type WorkerAuthSvc interface {
	AuthenticateWorker(ctx context.Context, username, password string) (*domain.Worker, error)
}

// WorkerSvcFacade combines all worker-related service interfaces
type WorkerSvcFacade interface {
	WorkerReaderSvc
	WorkerWriterSvc
	WorkerAuthSvc
}
