package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager      TransactionManager
	OrderRepo      OrderRepositoryFacade
	WorkerRepo     WorkerRepositoryFacade
	AssignmentRepo AssignmentRepositoryFacade
	TaskRepo       TaskRepositoryFacade
	DebtRepo       DebtRepositoryFacade
	ExpenseRepo    ExpenseRepositoryFacade
	TransportRepo  TransportRepositoryFacade
	ReceiptRepo    ReceiptRepositoryFacade
	HistoryRepo    HistoryRepositoryFacade
	ReportRepo     ReportRepository
	UserRepo       UserRepositoryFacade
}

// Gateways are the non-relational backends services talk to.
type Gateways struct {
	Cache     CacheRepository
	Blobs     BlobStore
	Publisher EventPublisher
}
