package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Order      OrderSvcFacade
	Worker     WorkerSvcFacade
	Assignment AssignmentSvcFacade
	Task       TaskSvcFacade
	Debt       DebtSvcFacade
	Expense    ExpenseSvcFacade
	Transport  TransportSvcFacade
	Receipt    ReceiptSvcFacade
	Resolver   EntityResolver
	Report     ReportSvcFacade
	Activity   ActivitySvcFacade
	User       UserSvcFacade
	Token      TokenSvcFacade
	Google     GoogleOAuthHandlerSvcFacade
}
