package services

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
)

// resolveFunc loads the entity behind one kind of reference.
type resolveFunc func(ctx context.Context, id string) (label string, entity any, err error)

// entityResolver dispatches weak references through a registry keyed by type.
type entityResolver struct {
	registry map[domain.EntityType]resolveFunc
}

// NewEntityResolver registers a loader for every entity type.
func NewEntityResolver(repos portsrepo.RepositoryProvider) portssvc.EntityResolver {
	return &entityResolver{registry: map[domain.EntityType]resolveFunc{
		domain.EntityOrder: func(ctx context.Context, id string) (string, any, error) {
			o, err := repos.OrderRepo.FindOrderByID(ctx, id)
			if err != nil {
				return "", nil, err
			}
			return o.Name, o, nil
		},
		domain.EntityWorker: func(ctx context.Context, id string) (string, any, error) {
			w, err := repos.WorkerRepo.FindWorkerByID(ctx, id)
			if err != nil {
				return "", nil, err
			}
			return w.Name, w, nil
		},
		domain.EntityDebt: func(ctx context.Context, id string) (string, any, error) {
			d, err := repos.DebtRepo.FindDebtByID(ctx, id)
			if err != nil {
				return "", nil, err
			}
			return d.Name, d, nil
		},
		domain.EntityExpense: func(ctx context.Context, id string) (string, any, error) {
			e, err := repos.ExpenseRepo.FindExpenseByID(ctx, id)
			if err != nil {
				return "", nil, err
			}
			return e.Category, e, nil
		},
		domain.EntityTransport: func(ctx context.Context, id string) (string, any, error) {
			t, err := repos.TransportRepo.FindTransportByID(ctx, id)
			if err != nil {
				return "", nil, err
			}
			return t.Name, t, nil
		},
		domain.EntityTask: func(ctx context.Context, id string) (string, any, error) {
			t, err := repos.TaskRepo.FindTaskByID(ctx, id)
			if err != nil {
				return "", nil, err
			}
			return t.Title, t, nil
		},
	}}
}

func (r *entityResolver) Resolve(ctx context.Context, ref domain.EntityRef) (*domain.ResolvedEntity, error) {
	load, ok := r.registry[ref.Type]
	if !ok {
		return nil, apperrors.NewValidationFailedError("unknown entity type " + string(ref.Type))
	}
	label, entity, err := load(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	return &domain.ResolvedEntity{Ref: ref, Label: label, Entity: entity}, nil
}
