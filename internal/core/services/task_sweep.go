package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/google/uuid"
)

// Due date offsets of generated reminder tasks.
const (
	debtTaskDueIn   = 3 * 24 * time.Hour
	orderTaskDueIn  = 7 * 24 * time.Hour
	workerTaskDueIn = 14 * 24 * time.Hour
)

// GenerateAutoTasks creates reminder tasks for overdue debts, stalled orders and
// idle workers. Running it again creates nothing new while the reminders are open.
func (s *taskService) GenerateAutoTasks(ctx context.Context) (*domain.SweepResult, error) {
	actor := domain.SystemActor()
	now := s.now()
	result := &domain.SweepResult{}
	var created []domain.Event

	insert := func(task domain.Task, counter *int) {
		inserted, err := s.taskRepo.InsertAutoTask(ctx, task)
		if err != nil {
			s.LogError(ctx, err, "Failed to insert auto task",
				slog.String("related", task.Related.String()))
			return
		}
		if inserted {
			*counter++
			created = append(created, domain.TaskEvent(domain.EventTaskCreated, task, actor, now))
		}
	}

	debts, err := s.debtRepo.ListOverdueDebts(ctx, now.AddDate(0, 0, -s.rules.DebtOverdueDays))
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue debts: %w", err)
	}
	for _, d := range debts {
		insert(s.debtReminder(d, actor, now), &result.DebtTasks)
	}

	orders, err := s.orderRepo.ListStalledOrders(ctx, now.AddDate(0, 0, -s.rules.OrderStallDays))
	if err != nil {
		return nil, fmt.Errorf("failed to list stalled orders: %w", err)
	}
	for _, o := range orders {
		insert(orderReminder(o, actor, now), &result.OrderTasks)
	}

	workers, err := s.workerRepo.ListIdleWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list idle workers: %w", err)
	}
	for _, w := range workers {
		insert(workerReminder(w, actor, now), &result.WorkerTasks)
	}

	if result.Created() > 0 {
		s.afterChange(ctx, created...)
		s.LogInfo(ctx, "Auto tasks generated",
			slog.Int("debt_tasks", result.DebtTasks),
			slog.Int("order_tasks", result.OrderTasks),
			slog.Int("worker_tasks", result.WorkerTasks))
	}
	return result, nil
}

func autoTask(title, description string, priority domain.TaskPriority, taskType domain.TaskType, ref domain.EntityRef, dueIn time.Duration, actor domain.Actor, now time.Time) domain.Task {
	due := now.Add(dueIn)
	return domain.Task{
		TaskID:          uuid.NewString(),
		Title:           title,
		Description:     description,
		Priority:        priority,
		Status:          domain.TaskPending,
		TaskType:        taskType,
		TaskScope:       domain.ScopeManagement,
		VisibilityScope: domain.VisibilityAll,
		AssignedTo:      domain.AssignedToManagement,
		DueDate:         &due,
		Related:         &ref,
		AutoGenerated:   true,
		AuditFields:     domain.NewAuditFields(actor, now),
	}
}

func (s *taskService) debtReminder(d domain.Debt, actor domain.Actor, now time.Time) domain.Task {
	priority := domain.PriorityMedium
	if d.Remaining().GreaterThan(s.rules.LargeDebtThreshold) {
		priority = domain.PriorityHigh
	}
	days := domain.DaysBetween(d.StartDate, now)
	return autoTask(
		"Follow up debt: "+d.Name,
		fmt.Sprintf("%s remains unpaid after %d days", d.Remaining().StringFixed(2), days),
		priority, domain.TaskTypeDebt,
		domain.EntityRef{Type: domain.EntityDebt, ID: d.DebtID},
		debtTaskDueIn, actor, now)
}

func orderReminder(o domain.Order, actor domain.Actor, now time.Time) domain.Task {
	status := "unknown"
	if o.StatusName != nil {
		status = *o.StatusName
	}
	return autoTask(
		"Check stalled order: "+o.Name,
		fmt.Sprintf("order has been %q for %d days without delivery", status, domain.DaysBetween(o.CreatedAt, now)),
		domain.PriorityMedium, domain.TaskTypeOrder,
		domain.EntityRef{Type: domain.EntityOrder, ID: o.OrderID},
		orderTaskDueIn, actor, now)
}

func workerReminder(w domain.Worker, actor domain.Actor, now time.Time) domain.Task {
	return autoTask(
		"Find work for "+w.Name,
		"worker has no active order assignment",
		domain.PriorityLow, domain.TaskTypeWorker,
		domain.EntityRef{Type: domain.EntityWorker, ID: w.WorkerID},
		workerTaskDueIn, actor, now)
}
