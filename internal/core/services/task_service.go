package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/platform/config"
	"github.com/google/uuid"
)

type taskService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	taskRepo    portsrepo.TaskRepositoryFacade
	debtRepo    portsrepo.DebtReader
	orderRepo   portsrepo.OrderReader
	workerRepo  portsrepo.WorkerReader
	historyRepo portsrepo.HistoryRepositoryFacade
	resolver    portssvc.EntityResolver
	rules       config.BusinessRules
}

// NewTaskService creates the task service. The resolver validates and
// dereferences related entity references.
func NewTaskService(base BaseService, repos portsrepo.RepositoryProvider, resolver portssvc.EntityResolver, rules config.BusinessRules) portssvc.TaskSvcFacade {
	return &taskService{
		BaseService: base,
		txManager:   repos.TxManager,
		taskRepo:    repos.TaskRepo,
		debtRepo:    repos.DebtRepo,
		orderRepo:   repos.OrderRepo,
		workerRepo:  repos.WorkerRepo,
		historyRepo: repos.HistoryRepo,
		resolver:    resolver,
		rules:       rules,
	}
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// canView applies task visibility: admins see everything, workers only their
// own tasks and other staff everything but admin-only tasks.
func canView(actor domain.Actor, t domain.Task) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsWorker():
		return t.WorkerID != nil && *t.WorkerID == actor.UserID
	default:
		return t.VisibilityScope != domain.VisibilityAdminsOnly
	}
}

func (s *taskService) GetTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find task", slog.String("task_id", taskID))
		return nil, err
	}
	if !canView(actor, *task) {
		// Hidden tasks look absent to the caller.
		return nil, apperrors.NewNotFoundError("task not found")
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, actor domain.Actor, params dto.ListTasksParams) (*dto.ListTasksResponse, error) {
	if _, err := s.GenerateAutoTasks(ctx); err != nil {
		s.LogError(ctx, err, "Auto task sweep failed, listing anyway")
	}

	now := s.now()
	filter := domain.TaskFilter{
		Statuses:        params.Status,
		Priority:        params.Priority,
		TaskType:        params.TaskType,
		TaskScope:       params.TaskScope,
		WorkerID:        params.WorkerID,
		AssignedTo:      params.AssignedTo,
		IncludeArchived: params.IncludeArchived,
		OnlyOverdue:     params.OnlyOverdue,
		AdminsView:      actor.IsAdmin(),
		Now:             now,
		Limit:           clampLimit(params.Limit, 20, 100),
		NextToken:       params.NextToken,
	}
	if actor.IsWorker() {
		workerID := actor.UserID
		filter.WorkerID = &workerID
	}

	tasks, next, err := s.taskRepo.ListTasks(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks", slog.String("user_id", actor.UserID))
		return nil, err
	}
	return &dto.ListTasksResponse{
		Tasks:     dto.ToTaskResponses(tasks, now),
		NextToken: next,
	}, nil
}

func (s *taskService) ListUrgentTasks(ctx context.Context, actor domain.Actor, limit int) ([]domain.Task, error) {
	tasks, err := s.taskRepo.ListUrgentTasks(ctx, clampLimit(limit, 10, 50))
	if err != nil {
		s.LogError(ctx, err, "Failed to list urgent tasks")
		return nil, err
	}
	visible := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if canView(actor, t) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

func (s *taskService) GetTaskStats(ctx context.Context) (*domain.TaskStats, error) {
	return cachedValue(ctx, &s.BaseService, cacheKeyTaskStats, func(ctx context.Context) (*domain.TaskStats, error) {
		return s.taskRepo.GetTaskStats(ctx, s.now())
	})
}

func (s *taskService) GetRelatedEntity(ctx context.Context, actor domain.Actor, taskID string) (*domain.ResolvedEntity, error) {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if task.Related == nil {
		return nil, apperrors.NewNotFoundError("task has no related entity")
	}
	return s.resolver.Resolve(ctx, *task.Related)
}

func (s *taskService) CreateTask(ctx context.Context, actor domain.Actor, req dto.CreateTaskRequest) (*domain.Task, error) {
	if actor.IsWorker() {
		return nil, apperrors.NewForbiddenError("workers cannot create tasks")
	}
	if (req.RelatedType == nil) != (req.RelatedID == nil) {
		return nil, apperrors.NewValidationFailedError("related entity needs both a type and an id")
	}
	if req.VisibilityScope == domain.VisibilityAdminsOnly && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can create admin-only tasks")
	}

	now := s.now()
	task := domain.Task{
		TaskID:          uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Priority:        orDefault(req.Priority, domain.PriorityMedium),
		Status:          domain.TaskPending,
		TaskType:        orDefault(req.TaskType, domain.TaskTypeGeneral),
		TaskScope:       orDefault(req.TaskScope, domain.ScopeGeneral),
		VisibilityScope: orDefault(req.VisibilityScope, domain.VisibilityAll),
		AssignedTo:      req.AssignedTo,
		DueDate:         req.DueDate,
		Notes:           req.Notes,
		AssignmentType:  req.AssignmentType,
		AuditFields:     domain.NewAuditFields(actor, now),
	}

	if req.WorkerID != nil {
		worker, err := s.workerRepo.FindWorkerByID(ctx, *req.WorkerID)
		if err != nil {
			return nil, err
		}
		task.WorkerID = &worker.WorkerID
		if req.TaskScope == "" {
			task.TaskScope = domain.ScopeWorker
		}
		if task.AssignedTo == "" {
			task.AssignedTo = worker.Name
		}
	}
	if req.RelatedType != nil {
		ref := domain.EntityRef{Type: *req.RelatedType, ID: *req.RelatedID}
		if _, err := s.resolver.Resolve(ctx, ref); err != nil {
			return nil, err
		}
		task.Related = &ref
	}

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to create task", slog.String("title", req.Title))
		return nil, err
	}

	s.afterChange(ctx, domain.TaskEvent(domain.EventTaskCreated, task, actor, now))
	s.LogInfo(ctx, "Task created", slog.String("task_id", task.TaskID))
	return &task, nil
}

func (s *taskService) UpdateTask(ctx context.Context, actor domain.Actor, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error) {
	return s.mutate(ctx, actor, taskID, "update", false, func(ctx context.Context, t *domain.Task, now time.Time) (*domain.Event, error) {
		if !actor.IsAdmin() && t.CreatedBy != actor.UserID {
			return nil, apperrors.NewForbiddenError("only admins or the creator can edit a task")
		}
		if t.Version != req.Version {
			return nil, apperrors.NewStaleVersionError("task was modified by someone else, reload and retry")
		}
		applyString(&t.Title, req.Title)
		applyString(&t.Description, req.Description)
		applyString(&t.AssignedTo, req.AssignedTo)
		applyString(&t.Notes, req.Notes)
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		if req.DueDate != nil {
			t.DueDate = req.DueDate
		}
		t.Touch(actor, now)
		return nil, nil
	})
}

func (s *taskService) StartTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, "start", false, domain.EventTaskStatusChanged, func(t *domain.Task, now time.Time) error {
		return t.Start(actor, now)
	})
}

func (s *taskService) CompleteTask(ctx context.Context, actor domain.Actor, taskID string, notes string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, "complete", false, domain.EventTaskStatusChanged, func(t *domain.Task, now time.Time) error {
		return t.Complete(actor, notes, now)
	})
}

func (s *taskService) ApproveTaskCompletion(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, "approve task completions", true, domain.EventTaskApproved, func(t *domain.Task, now time.Time) error {
		return t.ApproveCompletion(actor, now)
	})
}

func (s *taskService) CancelTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.mutate(ctx, actor, taskID, "cancel", false, func(ctx context.Context, t *domain.Task, now time.Time) (*domain.Event, error) {
		if !actor.IsAdmin() && t.CreatedBy != actor.UserID {
			return nil, apperrors.NewForbiddenError("only admins or the creator can cancel a task")
		}
		if err := t.Cancel(actor, now); err != nil {
			return nil, err
		}
		ev := domain.TaskEvent(domain.EventTaskStatusChanged, *t, actor, now)
		return &ev, nil
	})
}

func (s *taskService) ArchiveTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, "archive tasks", true, domain.EventTaskArchived, func(t *domain.Task, now time.Time) error {
		return t.Archive(actor, now)
	})
}

func (s *taskService) ArchiveFinishedTasks(ctx context.Context, actor domain.Actor) (int64, error) {
	if err := s.RequireAdmin(ctx, actor, "archive tasks"); err != nil {
		return 0, err
	}
	n, err := s.taskRepo.ArchiveFinishedTasks(ctx, actor.UserID, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to archive finished tasks")
		return 0, err
	}
	s.invalidate(ctx, cacheKeyTaskStats)
	s.LogInfo(ctx, "Finished tasks archived", slog.Int64("count", n))
	return n, nil
}

func (s *taskService) CreateAdminTask(ctx context.Context, actor domain.Actor, req dto.CreateAdminTaskRequest) (*domain.Task, error) {
	if err := s.RequireAdmin(ctx, actor, "create admin tasks"); err != nil {
		return nil, err
	}
	now := s.now()
	assignee := req.AssignedTo
	if assignee == "" {
		assignee = actor.DisplayName()
	}
	task := domain.Task{
		TaskID:                uuid.NewString(),
		Title:                 req.Title,
		Description:           req.Description,
		Priority:              orDefault(req.Priority, domain.PriorityMedium),
		Status:                domain.TaskPending,
		TaskType:              domain.TaskTypeAdmin,
		TaskScope:             domain.ScopeAdminManagement,
		VisibilityScope:       domain.VisibilityAdminsOnly,
		AssignedTo:            assignee,
		DueDate:               req.DueDate,
		Notes:                 req.Notes,
		AdminApprovalRequired: true,
		AuditFields:           domain.NewAuditFields(actor, now),
	}
	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to create admin task", slog.String("title", req.Title))
		return nil, err
	}
	s.afterChange(ctx, domain.TaskEvent(domain.EventTaskCreated, task, actor, now))
	return &task, nil
}

func (s *taskService) ApproveAdminTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, "approve admin tasks", true, domain.EventTaskStatusChanged, func(t *domain.Task, now time.Time) error {
		return t.ApproveAdmin(actor, now)
	})
}

func (s *taskService) CompleteAdminTask(ctx context.Context, actor domain.Actor, taskID string, notes string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, "complete admin tasks", true, domain.EventTaskStatusChanged, func(t *domain.Task, now time.Time) error {
		return t.CompleteAdmin(actor, notes, now)
	})
}

func (s *taskService) FinalApproveAdminTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, "give final approval", true, domain.EventTaskApproved, func(t *domain.Task, now time.Time) error {
		return t.FinalApprove(actor, s.rules.RequireDistinctApprovers, now)
	})
}

func (s *taskService) RequestSuspension(ctx context.Context, actor domain.Actor, taskID string, reason string) (*domain.SuspensionResult, error) {
	var review domain.Task
	task, err := s.mutate(ctx, actor, taskID, "suspend", false, func(ctx context.Context, t *domain.Task, now time.Time) (*domain.Event, error) {
		if err := t.RequestSuspension(actor, reason, now); err != nil {
			return nil, err
		}
		review = newSuspensionReview(*t, reason, actor, now)
		if err := s.taskRepo.SaveTask(ctx, review); err != nil {
			return nil, err
		}
		if err := s.orderHistory(ctx, *t, domain.ChangeTaskSuspended, "task "+t.Title+" suspended: "+reason, actor, now); err != nil {
			return nil, err
		}
		ev := domain.TaskEvent(domain.EventTaskSuspended, *t, actor, now)
		ev.Reason = reason
		return &ev, nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.TaskEvent(domain.EventTaskCreated, review, actor, review.CreatedAt))
	return &domain.SuspensionResult{Task: *task, ReviewTask: &review}, nil
}

func newSuspensionReview(t domain.Task, reason string, actor domain.Actor, now time.Time) domain.Task {
	return domain.Task{
		TaskID:          uuid.NewString(),
		Title:           "Review suspension: " + t.Title,
		Description:     reason,
		Priority:        domain.PriorityHigh,
		Status:          domain.TaskPending,
		TaskType:        domain.TaskTypeSuspensionRequest,
		TaskScope:       domain.ScopeManagement,
		VisibilityScope: domain.VisibilityAdminsOnly,
		AssignedTo:      domain.AssignedToManagement,
		Related:         domain.NewEntityRef(domain.EntityTask, t.TaskID),
		AuditFields:     domain.NewAuditFields(actor, now),
	}
}

func (s *taskService) ApproveSuspension(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.mutate(ctx, actor, taskID, "approve suspensions", true, func(ctx context.Context, t *domain.Task, now time.Time) (*domain.Event, error) {
		if err := t.ApproveSuspension(actor, now); err != nil {
			return nil, err
		}
		if err := s.closeReview(ctx, *t, actor, "suspension approved", now); err != nil {
			return nil, err
		}
		ev := domain.TaskEvent(domain.EventTaskApproved, *t, actor, now)
		ev.Reason = "suspension approved"
		return &ev, nil
	})
}

func (s *taskService) ResumeTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	return s.mutate(ctx, actor, taskID, "resume", false, func(ctx context.Context, t *domain.Task, now time.Time) (*domain.Event, error) {
		if err := t.Resume(actor, now); err != nil {
			return nil, err
		}
		if err := s.closeReview(ctx, *t, actor, "task resumed", now); err != nil {
			return nil, err
		}
		if err := s.orderHistory(ctx, *t, domain.ChangeTaskResumed, "task "+t.Title+" resumed", actor, now); err != nil {
			return nil, err
		}
		ev := domain.TaskEvent(domain.EventTaskResumed, *t, actor, now)
		return &ev, nil
	})
}

// closeReview completes the open management review of a suspended task, if any.
func (s *taskService) closeReview(ctx context.Context, t domain.Task, actor domain.Actor, notes string, now time.Time) error {
	review, err := s.taskRepo.FindOpenTaskByRelated(ctx, domain.EntityRef{Type: domain.EntityTask, ID: t.TaskID}, domain.TaskTypeSuspensionRequest)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := review.Complete(actor, notes, now); err != nil {
		return err
	}
	return s.taskRepo.UpdateTask(ctx, review)
}

// orderHistory records a task change on the order the task is about.
func (s *taskService) orderHistory(ctx context.Context, t domain.Task, change domain.ChangeType, details string, actor domain.Actor, now time.Time) error {
	if t.Related == nil || t.Related.Type != domain.EntityOrder {
		return nil
	}
	return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(t.Related.ID, change, details, actor, now))
}

type taskMutation func(ctx context.Context, t *domain.Task, now time.Time) (*domain.Event, error)

// mutate loads and locks a task, applies fn and stores the result in one
// transaction. The event fn returns is published after commit.
func (s *taskService) mutate(ctx context.Context, actor domain.Actor, taskID, action string, adminOnly bool, fn taskMutation) (*domain.Task, error) {
	if adminOnly {
		if err := s.RequireAdmin(ctx, actor, action); err != nil {
			return nil, err
		}
	}

	var (
		task  *domain.Task
		event *domain.Event
	)
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.taskRepo.FindTaskByIDForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if !canView(actor, *task) {
			return apperrors.NewNotFoundError("task not found")
		}
		event, err = fn(ctx, task, s.now())
		if err != nil {
			return err
		}
		return s.taskRepo.UpdateTask(ctx, task)
	})
	if err != nil {
		s.LogError(ctx, err, "Task change rejected",
			slog.String("task_id", taskID),
			slog.String("action", action),
			slog.String("user_id", actor.UserID))
		return nil, err
	}

	if event != nil {
		s.afterChange(ctx, *event)
	} else {
		s.invalidate(ctx, cacheKeyTaskStats)
	}
	return task, nil
}

// transition is mutate for plain state machine steps.
func (s *taskService) transition(ctx context.Context, actor domain.Actor, taskID, action string, adminOnly bool, kind domain.EventKind, step func(t *domain.Task, now time.Time) error) (*domain.Task, error) {
	return s.mutate(ctx, actor, taskID, action, adminOnly, func(_ context.Context, t *domain.Task, now time.Time) (*domain.Event, error) {
		if err := step(t, now); err != nil {
			return nil, err
		}
		ev := domain.TaskEvent(kind, *t, actor, now)
		return &ev, nil
	})
}

func (s *taskService) afterChange(ctx context.Context, events ...domain.Event) {
	s.invalidate(ctx, cacheKeyTaskStats)
	s.publish(ctx, events...)
}

func orDefault[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
