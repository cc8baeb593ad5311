package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/google/uuid"
)

const (
	maxAssignAttempts = 3
	syncTaskDueIn     = 7 * 24 * time.Hour
)

type assignmentService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	assignmentRepo portsrepo.AssignmentRepositoryFacade
	orderRepo      portsrepo.OrderRepositoryFacade
	workerRepo     portsrepo.WorkerReader
	taskRepo       portsrepo.TaskRepositoryFacade
	historyRepo    portsrepo.HistoryRepositoryFacade
}

// NewAssignmentService creates the service that links workers to orders.
func NewAssignmentService(base BaseService, repos portsrepo.RepositoryProvider) portssvc.AssignmentSvcFacade {
	return &assignmentService{
		BaseService:    base,
		txManager:      repos.TxManager,
		assignmentRepo: repos.AssignmentRepo,
		orderRepo:      repos.OrderRepo,
		workerRepo:     repos.WorkerRepo,
		taskRepo:       repos.TaskRepo,
		historyRepo:    repos.HistoryRepo,
	}
}

var _ portssvc.AssignmentSvcFacade = (*assignmentService)(nil)

func (s *assignmentService) AssignWorker(ctx context.Context, actor domain.Actor, orderID string, req dto.AssignWorkerRequest) (*domain.AssignmentResult, error) {
	if err := s.RequireAdmin(ctx, actor, "assign workers"); err != nil {
		return nil, err
	}

	var (
		result *domain.AssignmentResult
		err    error
	)
	for attempt := 1; attempt <= maxAssignAttempts; attempt++ {
		result, err = s.assignOnce(ctx, actor, orderID, req)
		if err == nil || !errors.Is(err, apperrors.ErrDuplicate) {
			break
		}
		s.LogDebug(ctx, "Concurrent assignment detected, retrying",
			slog.String("order_id", orderID),
			slog.String("worker_id", req.WorkerID),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			err = apperrors.NewStaleVersionError("worker assignment kept conflicting with a concurrent update, retry later")
		}
		s.LogError(ctx, err, "Failed to assign worker",
			slog.String("order_id", orderID),
			slog.String("worker_id", req.WorkerID))
		return nil, err
	}

	now := s.now()
	events := []domain.Event{{
		Kind:       domain.EventWorkerAssigned,
		Entity:     domain.EntityRef{Type: domain.EntityOrder, ID: orderID},
		ActorID:    actor.UserID,
		Reason:     req.WorkerID,
		OccurredAt: now,
	}}
	if result.TaskCreated {
		events = append(events, domain.TaskEvent(domain.EventTaskCreated, result.Task, actor, now))
	}
	s.publish(ctx, events...)
	s.invalidate(ctx, cacheKeyTaskStats)

	s.LogInfo(ctx, "Worker assigned to order",
		slog.String("order_id", orderID),
		slog.String("worker_id", req.WorkerID),
		slog.String("assignment_id", result.Assignment.AssignmentID),
		slog.String("task_id", result.Task.TaskID),
		slog.Bool("task_created", result.TaskCreated))
	return result, nil
}

// assignOnce is one attempt of the assignment transaction.
func (s *assignmentService) assignOnce(ctx context.Context, actor domain.Actor, orderID string, req dto.AssignWorkerRequest) (*domain.AssignmentResult, error) {
	result := &domain.AssignmentResult{}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		now := s.now()

		order, err := s.orderRepo.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		worker, err := s.workerRepo.FindWorkerByID(ctx, req.WorkerID)
		if err != nil {
			return err
		}
		if !worker.IsActive {
			return apperrors.NewValidationFailedError("worker " + worker.Name + " is not active")
		}

		if _, err := s.assignmentRepo.DeactivateActiveAssignment(ctx, orderID, worker.WorkerID, now); err != nil {
			return err
		}
		assignment := domain.OrderAssignment{
			AssignmentID:   uuid.NewString(),
			OrderID:        orderID,
			WorkerID:       worker.WorkerID,
			WorkerName:     worker.Name,
			AssignmentType: req.AssignmentType,
			AssignedDate:   now,
			IsActive:       true,
			Notes:          req.Notes,
			AssignedBy:     actor.DisplayName(),
		}
		if err := s.assignmentRepo.SaveAssignment(ctx, assignment); err != nil {
			return err
		}
		result.Assignment = assignment
		if err := s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(orderID, domain.ChangeWorkerAssigned,
			fmt.Sprintf("worker %s assigned (%s)", worker.Name, req.AssignmentType), actor, now)); err != nil {
			return err
		}

		if order.HasWaitingStatus() {
			if err := s.advanceOrder(ctx, actor, order, now); err != nil {
				return err
			}
			result.StatusChanged = true
		}

		task, created, err := s.syncTask(ctx, actor, order, assignment, now)
		if err != nil {
			return err
		}
		result.Task = *task
		result.TaskCreated = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// advanceOrder moves a waiting order to the "assigned to worker" status.
func (s *assignmentService) advanceOrder(ctx context.Context, actor domain.Actor, order *domain.Order, now time.Time) error {
	status, err := s.orderRepo.FindStatusByName(ctx, domain.StatusAssignedToWorker)
	if err != nil {
		return fmt.Errorf("failed to find assigned status: %w", err)
	}
	previous := "none"
	if order.StatusName != nil {
		previous = *order.StatusName
	}
	order.StatusID = &status.StatusID
	order.StatusName = &status.Name
	order.Touch(actor, now)
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return err
	}
	return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(order.OrderID, domain.ChangeStatus,
		"status changed from "+previous+" to "+status.Name, actor, now))
}

// syncTask upserts the live order completion task of the assignment's worker.
func (s *assignmentService) syncTask(ctx context.Context, actor domain.Actor, order *domain.Order, a domain.OrderAssignment, now time.Time) (*domain.Task, bool, error) {
	task, created, err := s.taskRepo.UpsertSyncTask(ctx, newSyncTask(order, a, actor, now))
	if err != nil {
		return nil, false, err
	}
	verb := "refreshed"
	if created {
		verb = "created"
	}
	if err := s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(order.OrderID, domain.ChangeTaskSynced,
		"task for "+a.WorkerName+" "+verb, actor, now)); err != nil {
		return nil, false, err
	}
	return task, created, nil
}

func newSyncTask(order *domain.Order, a domain.OrderAssignment, actor domain.Actor, now time.Time) domain.Task {
	due := now.Add(syncTaskDueIn)
	workerID := a.WorkerID
	assignmentType := a.AssignmentType

	var desc strings.Builder
	desc.WriteString("Complete order " + order.Name)
	if order.Product != "" {
		desc.WriteString(", product: " + order.Product)
	}
	if order.Wilaya != "" {
		desc.WriteString(", wilaya: " + order.Wilaya)
	}
	desc.WriteString(", work type: " + string(a.AssignmentType))

	return domain.Task{
		TaskID:          uuid.NewString(),
		Title:           "Order: " + order.Name,
		Description:     desc.String(),
		Priority:        domain.PriorityMedium,
		Status:          domain.TaskPending,
		TaskType:        domain.TaskTypeOrderCompletion,
		TaskScope:       domain.ScopeWorker,
		VisibilityScope: domain.VisibilityAssignee,
		AssignedTo:      a.WorkerName,
		WorkerID:        &workerID,
		DueDate:         &due,
		Related:         domain.NewEntityRef(domain.EntityOrder, order.OrderID),
		Notes:           a.Notes,
		AssignmentType:  &assignmentType,
		AuditFields:     domain.NewAuditFields(actor, now),
	}
}

func (s *assignmentService) DeactivateAssignment(ctx context.Context, actor domain.Actor, assignmentID string) error {
	if err := s.RequireAdmin(ctx, actor, "end assignments"); err != nil {
		return err
	}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		assignment, err := s.assignmentRepo.FindAssignmentByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if !assignment.IsActive {
			return apperrors.NewInvalidTransitionError("assignment is already inactive")
		}
		now := s.now()
		if err := s.assignmentRepo.DeactivateAssignment(ctx, assignmentID, now); err != nil {
			return err
		}
		return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(assignment.OrderID, domain.ChangeAssignmentDeactivated,
			"assignment of "+assignment.WorkerName+" ended", actor, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate assignment", slog.String("assignment_id", assignmentID))
		return err
	}
	return nil
}

func (s *assignmentService) ListOrderAssignments(ctx context.Context, orderID string) ([]domain.OrderAssignment, error) {
	return s.assignmentRepo.ListAssignmentsByOrder(ctx, orderID)
}

func (s *assignmentService) SyncAllAssignedOrders(ctx context.Context, actor domain.Actor) (*domain.SyncResult, error) {
	if err := s.RequireAdmin(ctx, actor, "synchronize assignment tasks"); err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.ListActiveAssignments(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active assignments")
		return nil, err
	}

	result := &domain.SyncResult{Total: len(assignments)}
	for _, a := range assignments {
		err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
			order, err := s.orderRepo.FindOrderByID(ctx, a.OrderID)
			if err != nil {
				return err
			}
			_, _, err = s.syncTask(ctx, actor, order, a, s.now())
			return err
		})
		if err != nil {
			result.Errors++
			result.Failed = append(result.Failed, a.AssignmentID)
			s.LogError(ctx, err, "Failed to synchronize assignment task",
				slog.String("assignment_id", a.AssignmentID),
				slog.String("order_id", a.OrderID))
			continue
		}
		result.Synced++
	}

	s.invalidate(ctx, cacheKeyTaskStats)
	s.LogInfo(ctx, "Assignment tasks synchronized",
		slog.Int("synced", result.Synced),
		slog.Int("errors", result.Errors))
	return result, nil
}
