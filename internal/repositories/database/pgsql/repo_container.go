package pgsql

import (
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      newPgxTxManager(dbPool),
		OrderRepo:      newPgxOrderRepository(dbPool),
		WorkerRepo:     newPgxWorkerRepository(dbPool),
		AssignmentRepo: newPgxAssignmentRepository(dbPool),
		TaskRepo:       newPgxTaskRepository(dbPool),
		DebtRepo:       newPgxDebtRepository(dbPool),
		ExpenseRepo:    newPgxExpenseRepository(dbPool),
		TransportRepo:  newPgxTransportRepository(dbPool),
		ReceiptRepo:    newPgxReceiptRepository(dbPool),
		HistoryRepo:    newPgxHistoryRepository(dbPool),
		ReportRepo:     newPgxReportRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
	}
}
