package services

import (
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gateways portsrepo.Gateways) *portssvc.ServiceContainer {
	base := BaseService{
		Cache:     gateways.Cache,
		Publisher: gateways.Publisher,
		CacheTTL:  cfg.StatsCacheTTL,
	}

	container := &portssvc.ServiceContainer{}

	// The resolver is shared by every service that follows weak references.
	container.Resolver = NewEntityResolver(repos)

	container.Order = NewOrderService(base, repos)
	container.Worker = NewWorkerService(base, repos)
	container.Assignment = NewAssignmentService(base, repos)
	container.Task = NewTaskService(base, repos, container.Resolver, cfg.Rules)
	container.Debt = NewDebtService(base, repos, container.Resolver)
	container.Expense = NewExpenseService(base, repos, cfg.Rules.DebtSyncOnSourceEdit)
	container.Transport = NewTransportService(base, repos, cfg.Rules.DebtSyncOnSourceEdit)
	container.Receipt = NewReceiptService(base, repos, gateways.Blobs, container.Resolver, cfg.ReceiptURLTTL)
	container.Report = NewReportService(base, repos)
	container.Activity = NewActivityService(base, repos)
	container.User = NewUserService(base, repos.UserRepo)

	container.Token = NewTokenService(cfg, container.User)
	container.Google = NewGoogleOAuthHandlerService(cfg)

	return container
}
